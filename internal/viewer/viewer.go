// Package viewer renders a region of a world.DynamicWorld to a terminal
// character grid, grounded on the teacher's Image()-style rendering math
// in map.go and multi.go but retargeted from an image.Image sink to a
// buffered-writer text sink.
package viewer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kelindar/uopath/world"
)

// Glyphs, one per world.ShapeKind, matching spec.md's terminal viewer table.
const (
	glyphSurface    = '.'
	glyphSlope      = '/'
	glyphBackground = '#'
	glyphOpen       = ' '
	glyphHoverOver  = '^'
)

func glyph(t world.WorldTile) byte {
	switch t.Shape.Kind {
	case world.ShapeSurface:
		return glyphSurface
	case world.ShapeSlope:
		return glyphSlope
	case world.ShapeHoverOver:
		return glyphHoverOver
	case world.ShapeBackground:
		if t.Shape.Passable {
			return glyphOpen
		}
		return glyphBackground
	default:
		return glyphOpen
	}
}

// Render draws [left,right)x[top,bottom) of dw to w, one character per
// tile, one row per line, choosing the topmost tile at each position the
// way handle_render_area picks its color.
func Render(w io.Writer, dw *world.DynamicWorld, left, top, right, bottom int) error {
	bw := bufio.NewWriter(w)
	row := make([]byte, right-left)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			tiles, err := dw.QueryTileFull(x, y, 0, 0, 0)
			if err != nil {
				return fmt.Errorf("viewer: %w", err)
			}
			if len(tiles) == 0 {
				row[x-left] = glyphOpen
				continue
			}
			row[x-left] = glyph(tiles[len(tiles)-1])
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
