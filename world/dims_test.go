package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionsForWorld(t *testing.T) {
	d, ok := DimensionsForWorld(0)
	assert.True(t, ok)
	assert.Equal(t, 6144, d.WidthTiles)
	assert.Equal(t, 768, d.WidthBlocks)

	_, ok = DimensionsForWorld(6)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	d := Dimensions{WidthTiles: 100, HeightTiles: 100, WidthBlocks: 13, HeightBlocks: 13}

	x, y := d.Normalize(-1, -1)
	assert.Equal(t, 99, x)
	assert.Equal(t, 99, y)

	x, y = d.Normalize(100, 250)
	assert.Equal(t, 0, x)
	assert.Equal(t, 50, y)

	x, y = d.Normalize(5, 5)
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)
}

func TestTileToBlockOffsets(t *testing.T) {
	d := Dimensions{WidthTiles: 64, HeightTiles: 64, WidthBlocks: 8, HeightBlocks: 8}

	block, ox, oy := d.TileToBlockOffsets(9, 17)
	assert.Equal(t, d.BlockIndex(1, 2), block)
	assert.Equal(t, uint8(1), ox)
	assert.Equal(t, uint8(1), oy)
}

func TestBlockIndexWraps(t *testing.T) {
	d := Dimensions{WidthTiles: 64, HeightTiles: 64, WidthBlocks: 8, HeightBlocks: 8}
	assert.Equal(t, d.BlockIndex(0, 0), d.BlockIndex(8, 8))
}
