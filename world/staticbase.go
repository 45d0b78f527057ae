package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kelindar/uopath"
)

// StaticTile is a single static decoration placed at an (ox,oy) offset
// within a block, as decoded from statics{w}.mul.
type StaticTile struct {
	Graphic  uint16
	OX, OY   uint8
	Z        int8
	Hue      uint16
}

// tileSource is the land/statics lookup a StaticBase reads cells from.
// The production path is *ultima.TileMap, backed by real map/statics mul
// files; tests substitute a synthetic source to exercise classification
// and step logic without a client installation.
type tileSource interface {
	TileAt(x, y int) (*ultima.Tile, error)
}

// StaticBase is the immutable land-elevation grid and per-block sorted
// static-tile lists for one world. Loaded once at construction, read by
// every query afterwards without further locking.
type StaticBase struct {
	sdk   *ultima.SDK
	mapID int
	dims  Dimensions
	tmap  tileSource

	// tileCache memoizes decoded (land id, z, statics) per normalized
	// (x,y): the underlying asset is immutable, so once loaded an entry
	// never needs to be refreshed.
	tileCache sync.Map // map[[2]int]*ultima.Tile
}

// NewStaticBase loads the land and statics files for mapID through sdk.
func NewStaticBase(sdk *ultima.SDK, mapID int) (*StaticBase, error) {
	dims, ok := DimensionsForWorld(uint8(mapID))
	if !ok {
		return nil, fmt.Errorf("NewStaticBase: unknown world %d", mapID)
	}

	tmap, err := sdk.Map(mapID)
	if err != nil {
		return nil, fmt.Errorf("NewStaticBase: %w", err)
	}

	return &StaticBase{sdk: sdk, mapID: mapID, dims: dims, tmap: tmap}, nil
}

// Dimensions returns the world's tile/block extent.
func (b *StaticBase) Dimensions() Dimensions { return b.dims }

type cellKey struct{ x, y int }

func (b *StaticBase) cellAt(x, y int) (*ultima.Tile, error) {
	x, y = b.dims.Normalize(x, y)
	key := cellKey{x, y}
	if v, ok := b.tileCache.Load(key); ok {
		return v.(*ultima.Tile), nil
	}

	tile, err := b.tmap.TileAt(x, y)
	if err != nil {
		return nil, err
	}

	actual, _ := b.tileCache.LoadOrStore(key, tile)
	return actual.(*ultima.Tile), nil
}

// LandVertexZ returns the elevation of the land vertex at (x,y).
func (b *StaticBase) LandVertexZ(x, y int) (int8, error) {
	tile, err := b.cellAt(x, y)
	if err != nil {
		return 0, fmt.Errorf("LandVertexZ: %w", err)
	}
	return tile.Z, nil
}

// LandGraphic returns the land tile graphic id at vertex (x,y).
func (b *StaticBase) LandGraphic(x, y int) (uint16, error) {
	tile, err := b.cellAt(x, y)
	if err != nil {
		return 0, fmt.Errorf("LandGraphic: %w", err)
	}
	return tile.ID, nil
}

// LandTileZStand computes, for the land cell anchored at (x,y), the base
// elevation (minimum of the four corner vertices), the standing elevation
// (average of the less-slanted opposing vertex pair), and the exit
// elevation for the given compass direction (0=N clockwise), per
// spec.md section 4.2. Division rounds toward negative infinity.
func (b *StaticBase) LandTileZStand(x, y int, direction uint8) (zBase, zStand, zExit int8, err error) {
	// the four corners of the cell: left=(x,y), bottom=(x+1,y),
	// right=(x+1,y+1), top=(x,y+1).
	left, err := b.LandVertexZ(x, y)
	if err != nil {
		return 0, 0, 0, err
	}
	bottom, err := b.LandVertexZ(x+1, y)
	if err != nil {
		return 0, 0, 0, err
	}
	right, err := b.LandVertexZ(x+1, y+1)
	if err != nil {
		return 0, 0, 0, err
	}
	top, err := b.LandVertexZ(x, y+1)
	if err != nil {
		return 0, 0, 0, err
	}

	l, r, t, bo := int16(left), int16(right), int16(top), int16(bottom)

	minZ := l
	for _, v := range []int16{r, t, bo} {
		if v < minZ {
			minZ = v
		}
	}

	var standing int16
	if abs16(l-r) > abs16(t-bo) {
		standing = t + bo
	} else {
		standing = l + r
	}
	standing = floorDiv2(standing)

	var exit int16
	switch direction & 7 {
	case 0:
		exit = floorDiv2(l + bo) // (x,y)-(x+1,y)
	case 1:
		exit = bo // (x+1,y)
	case 2:
		exit = floorDiv2(bo + r) // (x+1,y)-(x+1,y+1)
	case 3:
		exit = r // (x+1,y+1)
	case 4:
		exit = floorDiv2(r + t) // (x+1,y+1)-(x,y+1)
	case 5:
		exit = t // (x,y+1)
	case 6:
		exit = floorDiv2(t + l) // (x,y+1)-(x,y)
	case 7:
		exit = l // (x,y)
	}

	return int8(minZ), int8(standing), int8(exit), nil
}

func floorDiv2(v int16) int16 {
	if v < 0 {
		v--
	}
	return v / 2
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

// StaticsAt returns the static tiles at cell (x,y), sorted by (ox,oy,z) as
// spec.md section 3 requires of a block's stored static-tile slice.
func (b *StaticBase) StaticsAt(x, y int) ([]StaticTile, error) {
	tile, err := b.cellAt(x, y)
	if err != nil {
		return nil, fmt.Errorf("StaticsAt: %w", err)
	}

	out := make([]StaticTile, 0, len(tile.Statics))
	for _, s := range tile.Statics {
		item := s
		id := item.ID()
		ox, oy, z := item.Location()
		out = append(out, StaticTile{Graphic: id, OX: ox, OY: oy, Z: z, Hue: item.Hue()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OX != out[j].OX {
			return out[i].OX < out[j].OX
		}
		if out[i].OY != out[j].OY {
			return out[i].OY < out[j].OY
		}
		return out[i].Z < out[j].Z
	})
	return out, nil
}
