package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelindar/uopath"
)

func TestClassifyStaticSurface(t *testing.T) {
	shape := ClassifyStatic(10, ultima.TileFlagSurface, 5, 0, 0)
	assert.Equal(t, ShapeSurface, shape.Kind)
	assert.True(t, shape.Passable)
	assert.Equal(t, int8(10), shape.ZBase)
	assert.Equal(t, int8(15), shape.ZTop)
}

func TestClassifyStaticImpassable(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagImpassable, 0, 0, 0)
	assert.Equal(t, ShapeSurface, shape.Kind)
	assert.False(t, shape.Passable)
}

func TestClassifyStaticHoverOver(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagHoverOver, 0, 0, 0)
	assert.Equal(t, ShapeHoverOver, shape.Kind)
}

func TestClassifyStaticBridgeIsSlope(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagSurface|ultima.TileFlagBridge, 10, 0, 0)
	assert.Equal(t, ShapeSlope, shape.Kind)
	assert.Equal(t, int8(5), shape.ZStand)
	assert.Equal(t, int8(10), shape.ZTop)
}

func TestClassifyStaticNoRelevantFlagsIsBackground(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagTransparent, 5, 0, 0)
	assert.Equal(t, ShapeBackground, shape.Kind)
}

func TestClassifyStaticIgnoreMaskDemotes(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagSurface, 5, 0, uint64(ultima.TileFlagSurface))
	assert.Equal(t, ShapeBackground, shape.Kind)
}

func TestClassifyStaticWalkableMaskOverrides(t *testing.T) {
	shape := ClassifyStatic(0, ultima.TileFlagImpassable, 5, uint64(ultima.TileFlagImpassable), 0)
	assert.True(t, shape.Passable)
}

func TestClassifyLandFlatIsSurface(t *testing.T) {
	shape := ClassifyLand(0, 0, 0, 3, ultima.TileFlagNone, 0)
	assert.Equal(t, ShapeSurface, shape.Kind)
}

func TestClassifyLandUnevenIsSlope(t *testing.T) {
	shape := ClassifyLand(0, 2, 4, 3, ultima.TileFlagNone, 0)
	assert.Equal(t, ShapeSlope, shape.Kind)
}

func TestClassifyLandSpecialGraphicIsBackground(t *testing.T) {
	shape := ClassifyLand(0, 0, 0, 0x0002, ultima.TileFlagNone, 0)
	assert.Equal(t, ShapeBackground, shape.Kind)
}
