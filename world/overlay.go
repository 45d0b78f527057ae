package world

import "sort"

// overlayIndex is the concurrent, block-keyed sorted set of dynamic
// objects described in spec.md section 4.3. Each block's contents are
// kept as a sorted slice (per spec.md section 9's explicit allowance for
// "a sorted vector with binary search" in place of an ordered tree),
// searched and inserted via sort.Search.
//
// The overlay lock is the third and innermost lock in the fixed ordering
// items_index -> custom_multis -> overlay (see Model); callers here never
// take another lock while holding overlay.mu.
type overlayIndex struct {
	dims   Dimensions
	blocks map[int][]DynamicObject
}

func newOverlayIndex(dims Dimensions) *overlayIndex {
	return &overlayIndex{dims: dims, blocks: make(map[int][]DynamicObject)}
}

func (o *overlayIndex) blockOf(x, y int) int {
	block, _, _ := o.dims.TileToBlockOffsets(x, y)
	return block
}

// insert adds item to its block's sorted slice, creating the block if
// absent.
func (o *overlayIndex) insert(item DynamicObject) {
	block := o.blockOf(item.X, item.Y)
	s := o.blocks[block]
	i := sort.Search(len(s), func(i int) bool { return compareDynamicObjects(s[i], item) >= 0 })
	s = append(s, DynamicObject{})
	copy(s[i+1:], s[i:])
	s[i] = item
	o.blocks[block] = s
}

// delete removes item if present, reporting whether it was found. An
// emptied block is discarded.
func (o *overlayIndex) delete(item DynamicObject) bool {
	block := o.blockOf(item.X, item.Y)
	s, ok := o.blocks[block]
	if !ok {
		return false
	}

	i := sort.Search(len(s), func(i int) bool { return compareDynamicObjects(s[i], item) >= 0 })
	if i >= len(s) || compareDynamicObjects(s[i], item) != 0 {
		return false
	}

	s = append(s[:i], s[i+1:]...)
	if len(s) == 0 {
		delete(o.blocks, block)
	} else {
		o.blocks[block] = s
	}
	return true
}

// rangeAt iterates every element whose (x,y) equals the argument, in
// ascending (z, kind, secondary-key) order, via a range query between
// synthesized min/max sentinels.
func (o *overlayIndex) rangeAt(x, y int) []DynamicObject {
	block, ok := o.blocks[o.blockOf(x, y)]
	if !ok {
		return nil
	}

	lo := minItem(x, y)
	hi := maxItem(x, y)
	start := sort.Search(len(block), func(i int) bool { return compareDynamicObjects(block[i], lo) >= 0 })
	end := sort.Search(len(block), func(i int) bool { return compareDynamicObjects(block[i], hi) > 0 })
	if start >= end {
		return nil
	}
	return block[start:end]
}

// blocksOverlapping iterates the block indices covering tile rectangle
// [left,right)x[top,bottom).
func (o *overlayIndex) blocksOverlapping(left, top, right, bottom int, fn func(block int, items []DynamicObject)) {
	for bx := left / 8; bx*8 < right; bx++ {
		for by := top / 8; by*8 < bottom; by++ {
			idx := o.dims.BlockIndex(bx, by)
			if items, ok := o.blocks[idx]; ok {
				fn(idx, items)
			}
		}
	}
}
