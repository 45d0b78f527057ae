package httpapi

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/kelindar/uopath/world"
)

// renderArea rasterizes [left,right)x[top,bottom) of worldID into a PNG,
// one pixel per tile, colored by the topmost tile's radar color, with
// points overlaid -- grounded on original_source's handle_render_area.
// A nil drawColor encodes each point's z into the green channel
// (Rgb(0, z+128, 0)); drawColor, when non-nil, paints every point the
// same flat color instead.
func renderArea(model *world.Model, worldID uint8, left, top, right, bottom int, drawColor *color.RGBA, points []Point) ([]byte, error) {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}

	w, h := right-left, bottom-top
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("renderArea: empty area %d,%d-%d,%d", left, top, right, bottom)
	}

	dw := model.World(worldID)
	if dw == nil {
		return nil, fmt.Errorf("renderArea: world %d not present", worldID)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := left; x < right; x++ {
		for y := top; y < bottom; y++ {
			tiles, err := dw.QueryTileFull(x, y, 0, 0, 0)
			if err != nil || len(tiles) == 0 {
				continue
			}
			topTile := tiles[len(tiles)-1]
			rgb := dw.TileColor(topTile.Tile)
			img.SetRGBA(x-left, y-top, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
		}
	}

	for _, p := range points {
		if p.X < left || p.X >= right || p.Y < top || p.Y >= bottom {
			continue
		}
		px, py := p.X-left, p.Y-top
		if drawColor != nil {
			img.SetRGBA(px, py, *drawColor)
		} else {
			img.SetRGBA(px, py, color.RGBA{R: 0, G: saturatingAddI8(p.Z, 128), B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("renderArea: %w", err)
	}
	return buf.Bytes(), nil
}

func saturatingAddI8(z int8, add int16) uint8 {
	v := int16(z) + add
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	default:
		return uint8(v)
	}
}
