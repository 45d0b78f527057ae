package world

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kelindar/uopath"
)

// MultiPartSpec is one part of a custom multi, supplied by the caller at
// insertion time (as opposed to a standard multi, whose parts come from
// the Tile Catalog's multi-part table).
type MultiPartSpec struct {
	X, Y    int
	Z       int8
	Graphic uint16
}

// catalogSource is the subset of *ultima.SDK's catalog lookups a
// DynamicWorld needs to classify tiles and expand standard multis. A
// *ultima.SDK satisfies it directly; tests substitute a synthetic catalog
// to exercise classification and multi expansion without a client
// installation on disk.
type catalogSource interface {
	LandFlags(id int) (ultima.TileFlag, error)
	StaticFlags(id int) (ultima.TileFlag, error)
	StaticHeight(id int) (int8, error)
	LandColor(id int) (ultima.RGB, error)
	StaticColor(id int) (ultima.RGB, error)
	MultiTemplate(id uint32) ([]ultima.MultiPartTemplate, error)
}

// DynamicWorld is one world's Static Base plus its concurrent overlay.
// Concurrency discipline: the overlay is guarded by a single RWMutex (the
// innermost of the three locks described in spec.md section 5); it is
// never held while another lock in the hierarchy is acquired.
type DynamicWorld struct {
	sdk  catalogSource
	base *StaticBase

	mu      sync.RWMutex
	overlay *overlayIndex

	// customMultis holds caller-supplied part lists for custom multis
	// (graphic&0x20000), keyed by the owning GameObject's serial. Guarded
	// by its own lock per the items_index -> custom_multis -> overlay
	// ordering; Model is the only caller that needs all three.
	customMu     sync.RWMutex
	customMultis map[uint32][]MultiPartSpec

	log *slog.Logger
}

// NewDynamicWorld constructs a world over the given Static Base.
func NewDynamicWorld(sdk *ultima.SDK, base *StaticBase, log *slog.Logger) *DynamicWorld {
	if log == nil {
		log = slog.Default()
	}
	return &DynamicWorld{
		sdk:          sdk,
		base:         base,
		overlay:      newOverlayIndex(base.Dimensions()),
		customMultis: make(map[uint32][]MultiPartSpec),
		log:          log,
	}
}

// Dimensions returns the world's extent.
func (w *DynamicWorld) Dimensions() Dimensions { return w.base.Dimensions() }

// Base returns the world's Static Base.
func (w *DynamicWorld) Base() *StaticBase { return w.base }

const (
	multiStandard = 0x10000
	multiCustom   = 0x20000
	multiMask     = 0x30000
)

// IsMultiGraphic reports whether a GameObject graphic identifies a
// standard or custom multi head.
func IsMultiGraphic(graphic uint32) bool { return graphic&multiMask != 0 }

func (w *DynamicWorld) landFlags(id uint16) uint64 {
	flags, err := w.sdk.LandFlags(int(id))
	if err != nil {
		return 0
	}
	return uint64(flags)
}

func (w *DynamicWorld) staticFlagsAndHeight(id uint16) (uint64, int8) {
	flags, err := w.sdk.StaticFlags(int(id))
	if err != nil {
		return 0, 0
	}
	height, err := w.sdk.StaticHeight(int(id))
	if err != nil {
		height = 0
	}
	return uint64(flags), height
}

// TileColor looks up a tile's radar color from the Tile Catalog, per
// world.rs's world_tile_color: land graphics look up LandColor, everything
// else looks up StaticColor.
func (w *DynamicWorld) TileColor(t TileType) ultima.RGB {
	var rgb ultima.RGB
	var err error
	if t.IsLand {
		rgb, err = w.sdk.LandColor(int(t.Num))
	} else {
		rgb, err = w.sdk.StaticColor(int(t.Num))
	}
	if err != nil {
		return ultima.RGB{}
	}
	return rgb
}

// QueryTileGround classifies the land cell at (x,y) for the exit
// direction about to be taken, per spec.md section 4.5.
func (w *DynamicWorld) QueryTileGround(x, y int, direction uint8, walkable uint64) (WorldTile, error) {
	zBase, zStand, zExit, err := w.base.LandTileZStand(x, y, direction)
	if err != nil {
		return WorldTile{}, fmt.Errorf("QueryTileGround: %w", err)
	}
	zTop := zExit
	if zStand > zTop {
		zTop = zStand
	}

	graphic, err := w.base.LandGraphic(x, y)
	if err != nil {
		return WorldTile{}, fmt.Errorf("QueryTileGround: %w", err)
	}

	shape := ClassifyLand(zBase, zStand, zTop, graphic, ultima.TileFlag(w.landFlags(graphic)), walkable)
	return WorldTile{Tile: TileType{IsLand: true, Num: graphic}, Shape: shape}, nil
}

// QueryTileStatic appends the classified statics at (x,y) to out.
func (w *DynamicWorld) QueryTileStatic(x, y int, walkable, ignore uint64, out []WorldTile) ([]WorldTile, error) {
	statics, err := w.base.StaticsAt(x, y)
	if err != nil {
		return out, fmt.Errorf("QueryTileStatic: %w", err)
	}
	for _, s := range statics {
		flags, height := w.staticFlagsAndHeight(s.Graphic)
		shape := ClassifyStatic(s.Z, ultima.TileFlag(flags), height, walkable, ignore)
		out = append(out, WorldTile{Tile: TileType{IsLand: false, Num: s.Graphic}, Shape: shape})
	}
	return out, nil
}

// QueryTileDynamic appends classified dynamic objects at (x,y) to out,
// skipping multi-head markers (graphic&0x30000 != 0).
func (w *DynamicWorld) QueryTileDynamic(x, y int, walkable, ignore uint64, out []WorldTile) []WorldTile {
	w.mu.RLock()
	items := w.overlay.rangeAt(x, y)
	// copy out of the map while still under the lock: items backs
	// directly onto the block slice, which a concurrent writer may
	// reallocate or mutate once the lock is released.
	snapshot := append([]DynamicObject(nil), items...)
	w.mu.RUnlock()

	for _, it := range snapshot {
		var tile uint32
		var z int8
		switch it.Kind {
		case KindGameObject:
			tile, z = it.Graphic, it.Z
		case KindMultiPart:
			tile, z = it.Tile, it.Z
		}
		if tile&multiMask != 0 {
			continue
		}
		flags, height := w.staticFlagsAndHeight(uint16(tile))
		shape := ClassifyStatic(z, ultima.TileFlag(flags), height, walkable, ignore)
		out = append(out, WorldTile{Tile: TileType{IsLand: false, Num: uint16(tile)}, Shape: shape})
	}
	return out
}

// QueryTileFull unions ground, static and dynamic tiles at (x,y), sorted
// ascending by (z_top, z_base) -- the order contract the Step Oracle
// depends on.
func (w *DynamicWorld) QueryTileFull(x, y int, direction uint8, walkable, ignore uint64) ([]WorldTile, error) {
	ground, err := w.QueryTileGround(x, y, direction, walkable)
	if err != nil {
		return nil, err
	}
	out := []WorldTile{ground}

	out, err = w.QueryTileStatic(x, y, walkable, ignore, out)
	if err != nil {
		return nil, err
	}
	out = w.QueryTileDynamic(x, y, walkable, ignore, out)

	sortTilesByZ(out)
	return out, nil
}

func sortTilesByZ(tiles []WorldTile) {
	// insertion sort: tile stacks are tiny (a handful of entries), and a
	// stable, allocation-free sort keeps QueryTileFull cheap on the A*
	// hot path.
	for i := 1; i < len(tiles); i++ {
		for j := i; j > 0 && tileLess(tiles[j], tiles[j-1]); j-- {
			tiles[j], tiles[j-1] = tiles[j-1], tiles[j]
		}
	}
}

func tileLess(a, b WorldTile) bool {
	if a.Shape.ZTop != b.Shape.ZTop {
		return a.Shape.ZTop < b.Shape.ZTop
	}
	return a.Shape.ZBase < b.Shape.ZBase
}

// InsertItem adds a GameObject to the overlay, expanding multi parts
// first when the graphic identifies a multi.
func (w *DynamicWorld) InsertItem(x, y int, z int8, serial, graphic uint32) error {
	item := GameObject(x, y, z, serial, graphic)

	w.mu.Lock()
	defer w.mu.Unlock()

	if IsMultiGraphic(graphic) {
		if err := w.insertMultiParts(item); err != nil {
			return err
		}
	}
	w.overlay.insert(item)
	return nil
}

// DeleteItem removes a GameObject and any multi parts it owns.
func (w *DynamicWorld) DeleteItem(x, y int, z int8, serial, graphic uint32) {
	item := GameObject(x, y, z, serial, graphic)

	w.mu.Lock()
	defer w.mu.Unlock()

	if IsMultiGraphic(graphic) {
		w.deleteMultiParts(item)
	}
	w.overlay.delete(item)
}

// ClearWorld discards the entire overlay.
func (w *DynamicWorld) ClearWorld() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overlay = newOverlayIndex(w.base.Dimensions())
}

// SetCustomMultiParts publishes the part list for a custom multi, to be
// consumed the next time that serial is inserted with a 0x20000 graphic.
func (w *DynamicWorld) SetCustomMultiParts(serial uint32, parts []MultiPartSpec) {
	w.customMu.Lock()
	defer w.customMu.Unlock()
	w.customMultis[serial] = parts
}

func (w *DynamicWorld) insertMultiParts(item DynamicObject) error {
	switch {
	case item.Graphic&multiStandard != 0:
		parts, err := w.sdk.MultiTemplate(item.Graphic & 0xFFFF)
		if err != nil {
			return fmt.Errorf("insertMultiParts: %w", err)
		}
		for i, p := range parts {
			w.overlay.insert(MultiPart(item.X+int(p.X), item.Y+int(p.Y), item.Z+int8(p.Z), uint32(p.Graphic), item.Serial, uint16(i)))
		}
	case item.Graphic&multiCustom != 0:
		w.customMu.RLock()
		parts, ok := w.customMultis[item.Serial]
		w.customMu.RUnlock()
		if !ok {
			w.log.Warn("no parts found for multi-object", "serial", item.Serial)
			return nil
		}
		for i, p := range parts {
			w.overlay.insert(MultiPart(p.X, p.Y, p.Z, uint32(p.Graphic), item.Serial, uint16(i)))
		}
	}
	return nil
}

func (w *DynamicWorld) deleteMultiParts(item DynamicObject) {
	switch {
	case item.Graphic&multiStandard != 0:
		parts, err := w.sdk.MultiTemplate(item.Graphic & 0xFFFF)
		if err != nil {
			return
		}
		for i, p := range parts {
			w.overlay.delete(MultiPart(item.X+int(p.X), item.Y+int(p.Y), item.Z+int8(p.Z), uint32(p.Graphic), item.Serial, uint16(i)))
		}
	case item.Graphic&multiCustom != 0:
		w.customMu.RLock()
		parts, ok := w.customMultis[item.Serial]
		w.customMu.RUnlock()
		if !ok {
			return
		}
		for i, p := range parts {
			w.overlay.delete(MultiPart(p.X, p.Y, p.Z, uint32(p.Graphic), item.Serial, uint16(i)))
		}
	}
}

// QueryAreaDynamic returns GameObjects inside tile rectangle
// [left,top)-[right,bottom); multi-parts are skipped.
func (w *DynamicWorld) QueryAreaDynamic(world uint8, left, top, right, bottom int) []TopLevelItem {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []TopLevelItem
	w.overlay.blocksOverlapping(left, top, right, bottom, func(_ int, items []DynamicObject) {
		for _, it := range items {
			if it.Kind != KindGameObject {
				continue
			}
			if it.X >= left && it.Y >= top && it.X < right && it.Y < bottom {
				out = append(out, TopLevelItem{World: world, X: it.X, Y: it.Y, Z: it.Z, Serial: it.Serial, Graphic: it.Graphic})
			}
		}
	})
	return out
}
