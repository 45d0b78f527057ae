// Package world implements the static and dynamic spatial index for a
// single map: land elevations, static decorations, and the concurrent
// overlay of runtime-inserted objects and multi-object parts.
package world

import "fmt"

// Dimensions describes a world's toroidal extent in tiles and blocks.
// A block is an 8x8 tile neighborhood.
type Dimensions struct {
	WidthTiles, HeightTiles   int
	WidthBlocks, HeightBlocks int
}

// worldSpecs gives the block dimensions for the six well-known worlds:
// Felucca, Trammel, Ilshenar, Malas, Tokuno, TerMur. Felucca and Trammel
// share 768x512 blocks (6144x4096 tiles).
var worldSpecs = [6]Dimensions{
	{6144, 4096, 768, 512},
	{6144, 4096, 768, 512},
	{2304, 1600, 288, 200},
	{2560, 2048, 320, 256},
	{1448, 1448, 181, 181},
	{1280, 4096, 160, 512},
}

// DimensionsForWorld returns the dimensions of a well-known world id (0-5).
func DimensionsForWorld(id uint8) (Dimensions, bool) {
	if int(id) >= len(worldSpecs) {
		return Dimensions{}, false
	}
	return worldSpecs[id], true
}

// Normalize wraps (x,y) into [0,WidthTiles)x[0,HeightTiles) by Euclidean
// remainder, the toroidal-world invariant from the data model.
func (d Dimensions) Normalize(x, y int) (int, int) {
	return euclidMod(x, d.WidthTiles), euclidMod(y, d.HeightTiles)
}

func (d Dimensions) normalizeBlocks(bx, by int) (int, int) {
	return euclidMod(bx, d.WidthBlocks), euclidMod(by, d.HeightBlocks)
}

// BlockIndex returns the block index for block coordinates (bx,by),
// normalizing first. Index is bx*HeightBlocks+by.
func (d Dimensions) BlockIndex(bx, by int) int {
	bx, by = d.normalizeBlocks(bx, by)
	return bx*d.HeightBlocks + by
}

// TileToBlockOffsets normalizes (x,y) and returns the owning block index
// together with the tile's offset within that block (0..7, 0..7).
func (d Dimensions) TileToBlockOffsets(x, y int) (block int, ox, oy uint8) {
	x, y = d.Normalize(x, y)
	bx, by := x/8, y/8
	return d.BlockIndex(bx, by), uint8(x % 8), uint8(y % 8)
}

func euclidMod(n, m int) int {
	if m == 0 {
		return 0
	}
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d tiles (%dx%d blocks)", d.WidthTiles, d.HeightTiles, d.WidthBlocks, d.HeightBlocks)
}
