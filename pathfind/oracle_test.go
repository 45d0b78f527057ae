package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelindar/uopath/world"
)

func flatGround(z int8) world.WorldTile {
	return world.WorldTile{
		Tile:  world.TileType{IsLand: true, Num: 3},
		Shape: world.SurfaceShape(z, z, true),
	}
}

func slope(zBase, zStand, zTop int8, passable bool) world.WorldTile {
	return world.WorldTile{
		Tile:  world.TileType{IsLand: false, Num: 100},
		Shape: world.SlopeShape(zBase, zStand, zTop, passable),
	}
}

func TestSourceStepRangeFrom(t *testing.T) {
	t.Run("FlatGroundOnly", func(t *testing.T) {
		tiles := []world.WorldTile{flatGround(0)}
		low, high := sourceStepRangeFrom(tiles, 0)
		assert.Equal(t, int8(0), low)
		assert.Equal(t, int8(0+ClimbHeight), high)
	})

	t.Run("IgnoresTilesAboveZ", func(t *testing.T) {
		tiles := []world.WorldTile{flatGround(0), flatGround(10)}
		low, high := sourceStepRangeFrom(tiles, 0)
		assert.Equal(t, int8(0), low)
		assert.Equal(t, int8(0+ClimbHeight), high)
	})

	t.Run("StandingOnSlopeExpandsRange", func(t *testing.T) {
		tiles := []world.WorldTile{slope(0, 5, 10, true)}
		low, high := sourceStepRangeFrom(tiles, 5)
		assert.Equal(t, int8(0), low)
		assert.Equal(t, int8(10+ClimbHeight), high)
	})
}

func TestDestPositionFrom(t *testing.T) {
	t.Run("LandsOnFlatGround", func(t *testing.T) {
		objects := []world.WorldTile{flatGround(0), world.CapTile()}
		z, ok := destPositionFrom(objects, 0, 0, 0+ClimbHeight)
		assert.True(t, ok)
		assert.Equal(t, int8(0), z)
	})

	t.Run("RejectsInsufficientClearance", func(t *testing.T) {
		objects := []world.WorldTile{
			flatGround(0),
			flatGround(10), // only 10 units of headroom, CHARACTER_HEIGHT is 16
			world.CapTile(),
		}
		// z_high stops at the climb budget, so the flat at 10 is out of reach
		_, ok := destPositionFrom(objects, 0, 0, 0+ClimbHeight)
		assert.False(t, ok)
	})

	t.Run("NoPassableTileFails", func(t *testing.T) {
		objects := []world.WorldTile{slope(0, 0, 0, false), world.CapTile()}
		_, ok := destPositionFrom(objects, 0, 0, 10)
		assert.False(t, ok)
	})
}

func TestMoveTo(t *testing.T) {
	cases := []struct {
		dir  uint8
		x, y int
	}{
		{DirN, 5, 4}, {DirNE, 6, 4}, {DirE, 6, 5}, {DirSE, 6, 6},
		{DirS, 5, 6}, {DirSW, 4, 6}, {DirW, 4, 5}, {DirNW, 4, 4},
	}
	for _, c := range cases {
		x, y := MoveTo(5, 5, c.dir)
		assert.Equal(t, c.x, x)
		assert.Equal(t, c.y, y)
	}
}

func TestTurnTo(t *testing.T) {
	assert.Equal(t, DirE, TurnTo(DirN, 2))
	assert.Equal(t, DirNW, TurnTo(DirN, -1))
	assert.Equal(t, DirN, TurnTo(DirN, 8))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, DirN, Direction(0, -1))
	assert.Equal(t, DirSE, Direction(1, 1))
	assert.Equal(t, DirW, Direction(-3, 0))
}
