package world

import "github.com/kelindar/uopath"

// land graphics that never participate in passability regardless of their
// catalog flags, per spec.md section 4.4.
func isBackgroundLandGraphic(tile uint16) bool {
	return tile == 0x0002 || tile == 0x01DB || (tile >= 0x01AE && tile <= 0x01B5)
}

// ClassifyStatic projects a static tile at elevation z into a TileShape.
// walkable and ignore are caller-supplied flag masks overriding the
// default classification: any walkable bit forces passable=true; any
// ignore bit demotes the tile to Background.
func ClassifyStatic(z int8, flags ultima.TileFlag, height int8, walkable, ignore uint64) TileShape {
	passable := flags&ultima.TileFlagImpassable == 0
	zBase := z
	zTop := saturatingAdd8(zBase, height)

	if flags&ultima.TileFlagHoverOver != 0 {
		return hoverOverShape(zBase)
	}

	if uint64(flags)&(uint64(ultima.TileFlagImpassable)|uint64(ultima.TileFlagSurface)|walkable) == 0 {
		return backgroundShape(zBase, zTop)
	}

	if uint64(flags)&ignore != 0 {
		return backgroundShape(zBase, zTop)
	}

	if uint64(flags)&walkable != 0 {
		passable = true
	}

	if flags&ultima.TileFlagBridge == 0 {
		return surfaceShape(zBase, zTop, passable)
	}
	zStand := zBase + height/2
	return slopeShape(zBase, zStand, zTop, passable)
}

// ClassifyLand projects a land cell, whose three z coordinates were already
// computed by StaticBase.LandTileZStand, into a TileShape.
func ClassifyLand(zBase, zStand, zTop int8, graphic uint16, flags ultima.TileFlag, walkable uint64) TileShape {
	passable := flags&ultima.TileFlagImpassable == 0

	if isBackgroundLandGraphic(graphic) {
		return backgroundShape(zBase, zTop)
	}

	if uint64(flags)&walkable != 0 {
		passable = true
	}

	if zBase == zStand && zStand == zTop {
		return surfaceShape(zBase, zStand, passable)
	}
	return slopeShape(zBase, zStand, zTop, passable)
}

func saturatingAdd8(a, b int8) int8 {
	r := int(a) + int(b)
	switch {
	case r > 127:
		return 127
	case r < -128:
		return -128
	default:
		return int8(r)
	}
}
