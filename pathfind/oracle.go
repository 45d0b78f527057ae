// Package pathfind implements the Step Oracle and weighted A* pathfinder
// over a world's query engine: whether a bipedal agent can step between
// two adjacent 3D cells, and the lowest-cost path between two points.
package pathfind

import (
	"fmt"
	"log/slog"

	"github.com/kelindar/uopath/world"
)

// ClimbHeight is the vertical tolerance added to the agent's upward reach
// when leaving a cell.
const ClimbHeight int8 = 2

// CharacterHeight is the vertical clearance required between the agent's
// feet and anything overhead.
const CharacterHeight int16 = 16

// Oracle decides step legality for one world under a fixed walkable/ignore
// override mask, per spec.md section 4.6.
type Oracle struct {
	world             *world.DynamicWorld
	walkable, ignore  uint64
	log               *slog.Logger
}

// NewOracle builds a Step Oracle over w with the given classification
// overrides.
func NewOracle(w *world.DynamicWorld, walkable, ignore uint64) *Oracle {
	return &Oracle{world: w, walkable: walkable, ignore: ignore, log: slog.Default()}
}

func (o *Oracle) tileObjects(x, y int, direction uint8) ([]world.WorldTile, error) {
	return o.world.QueryTileFull(x, y, direction, o.walkable, o.ignore)
}

// SourceStepRange scans the stack at (x,y,z) and returns the highest
// standable surface at or below z (z_low_fall) and the highest reachable
// elevation (z_high), extended by ClimbHeight.
func (o *Oracle) SourceStepRange(x, y int, z int8, exitDirection uint8) (zLowFall, zHigh int8, err error) {
	tiles, err := o.tileObjects(x, y, exitDirection)
	if err != nil {
		return 0, 0, fmt.Errorf("SourceStepRange: %w", err)
	}
	low, high := sourceStepRangeFrom(tiles, z)
	return low, high, nil
}

// sourceStepRangeFrom is the pure core of SourceStepRange, operating on an
// already-fetched tile stack.
func sourceStepRangeFrom(tiles []world.WorldTile, z int8) (zLowFall, zHigh int8) {
	zLowFall = -128
	zHigh = z

	for _, t := range tiles {
		var zBase, zStand, zTop int8
		var isSlope bool
		switch t.Shape.Kind {
		case world.ShapeSurface:
			zBase, zStand, zTop, isSlope = t.Shape.ZBase, t.Shape.ZStand, t.Shape.ZStand, false
		case world.ShapeSlope:
			zBase, zStand, zTop, isSlope = t.Shape.ZBase, t.Shape.ZStand, t.Shape.ZTop, true
		default: // Background, HoverOver
			continue
		}

		if zStand <= z && zStand > zLowFall {
			zLowFall = zStand
		}

		if isSlope && zStand == z {
			if zBase < zLowFall {
				zLowFall = zBase
			}
			if zTop > zHigh {
				zHigh = zTop
			}
		}
	}

	return zLowFall, zHigh + ClimbHeight
}

// DestPosition returns the z coordinate the agent lands at when stepping
// into (x,y) given the source's reachable range [zLow,zHigh], or ok=false
// if no tile fits.
func (o *Oracle) DestPosition(x, y int, z, zLow, zHigh int8) (result int8, ok bool, err error) {
	objects, err := o.tileObjects(x, y, 0) // direction is irrelevant for the destination scan
	if err != nil {
		return 0, false, fmt.Errorf("DestPosition: %w", err)
	}
	objects = append(objects, world.CapTile())
	result, ok = destPositionFrom(objects, z, zLow, zHigh)
	return result, ok, nil
}

// destPositionFrom is the pure core of DestPosition, operating on an
// already-fetched tile stack (including the synthetic cap tile).
func destPositionFrom(objects []world.WorldTile, z, zLow, zHigh int8) (result int8, ok bool) {
	if z < zLow {
		z = zLow
	}
	zHighW := int16(zHigh)
	zLowW := int16(zLow)
	currentZ := int16(-128)

	found := false
	var best int16

	for i, upper := range objects {
		var upperBase, upperStand int16
		switch upper.Shape.Kind {
		case world.ShapeSlope, world.ShapeSurface:
			upperBase, upperStand = int16(upper.Shape.ZBase), int16(upper.Shape.ZStand)
		default:
			continue
		}

		if upperBase-zLowW >= CharacterHeight {
			for j := i - 1; j >= 0; j-- {
				bottom := objects[j]
				var bottomStand int16
				var passable bool
				switch bottom.Shape.Kind {
				case world.ShapeSlope, world.ShapeSurface:
					bottomStand, passable = int16(bottom.Shape.ZStand), bottom.Shape.Passable
				default:
					continue
				}

				if passable && bottomStand >= currentZ && (upperBase-bottomStand) >= CharacterHeight {
					var reachable int16
					switch bottom.Shape.Kind {
					case world.ShapeSlope:
						reachable = int16(bottom.Shape.ZBase)
					default: // ShapeSurface
						reachable = int16(bottom.Shape.ZStand)
					}
					if reachable > zHighW {
						continue
					}

					if !found {
						best = bottomStand
						found = true
					} else if abs16(zLowW-bottomStand) < abs16(int16(z)-best) {
						best = bottomStand
					}
				}
			}
		}

		zLowW = max16(zLowW, upperStand)
		currentZ = max16(currentZ, upperStand)
	}

	if !found {
		return 0, false
	}
	return int8(best), true
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}

// Direction8 constants: 0=N, clockwise.
const (
	DirN uint8 = iota
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var moveOffsets = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// MoveTo shifts (x,y) one step in direction.
func MoveTo(x, y int, direction uint8) (int, int) {
	o := moveOffsets[direction&7]
	return x + o[0], y + o[1]
}

// TurnTo rotates direction by steps (positive clockwise, negative
// counter-clockwise), modulo 8.
func TurnTo(direction uint8, steps int8) uint8 {
	d := (int8(direction) + steps) % 8
	if d < 0 {
		d += 8
	}
	return uint8(d)
}

// Direction returns the compass direction for a displacement (dx,dy),
// each component independently signed +-1 or 0.
func Direction(dx, dy int) uint8 {
	sx, sy := sign(dx), sign(dy)
	for d, o := range moveOffsets {
		if o[0] == sx && o[1] == sy {
			return uint8(d)
		}
	}
	return DirN
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// TestStepSingle checks whether the agent can step from (x,y,z) in
// direction, returning the landing z.
func (o *Oracle) TestStepSingle(x, y int, z int8, direction uint8) (int8, bool, error) {
	tx, ty := MoveTo(x, y, direction)
	zLow, zHigh, err := o.SourceStepRange(x, y, z, direction)
	if err != nil {
		return 0, false, err
	}
	return o.DestPosition(tx, ty, z, zLow, zHigh)
}

// TestStep checks a full step, additionally requiring both adjacent
// cardinal directions to succeed when direction is diagonal (the
// corner-cut guard).
func (o *Oracle) TestStep(x, y int, z int8, direction uint8) (int8, bool, error) {
	destZ, ok, err := o.TestStepSingle(x, y, z, direction)
	if err != nil || !ok {
		return 0, false, err
	}

	if direction&1 == 0 { // straight direction
		return destZ, true, nil
	}

	if _, ok, err := o.TestStepSingle(x, y, z, TurnTo(direction, 1)); err != nil || !ok {
		return 0, false, err
	}
	if _, ok, err := o.TestStepSingle(x, y, z, TurnTo(direction, -1)); err != nil || !ok {
		return 0, false, err
	}
	return destZ, true, nil
}
