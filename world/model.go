package world

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/kelindar/uopath"
)

// Model is the World Model wrapper of spec.md section 4.8: the Tile
// Catalog (via sdk), the probed worlds, and the items_index. Lock
// ordering across Model and DynamicWorld is fixed: itemsMu -> a
// DynamicWorld's customMu -> its overlay mu. insertMultiItem is the only
// operation that needs all three; it takes them in that order.
type Model struct {
	sdk    *ultima.SDK
	worlds [6]*DynamicWorld

	itemsMu sync.RWMutex
	items   map[uint32]TopLevelItem

	log *slog.Logger
}

// Open probes each of the six well-known world ids and instantiates only
// those whose map/statics files are present.
func Open(sdk *ultima.SDK, log *slog.Logger) (*Model, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &Model{sdk: sdk, items: make(map[uint32]TopLevelItem), log: log}

	for id := uint8(0); id < 6; id++ {
		base, err := NewStaticBase(sdk, int(id))
		if err != nil {
			log.Debug("world not present", "world", id, "err", err)
			continue
		}
		m.worlds[id] = NewDynamicWorld(sdk, base, log.With("world", id))
	}
	return m, nil
}

// World returns the DynamicWorld for id, or nil if absent.
func (m *Model) World(id uint8) *DynamicWorld {
	if int(id) >= len(m.worlds) {
		return nil
	}
	return m.worlds[id]
}

// NextWorldIdx returns the next present world id after n, wrapping.
func (m *Model) NextWorldIdx(n uint8) (uint8, bool) {
	for i := 1; i <= len(m.worlds); i++ {
		id := (int(n) + i) % len(m.worlds)
		if m.worlds[id] != nil {
			return uint8(id), true
		}
	}
	return 0, false
}

func (m *Model) world(id uint8) (*DynamicWorld, error) {
	w := m.World(id)
	if w == nil {
		return nil, fmt.Errorf("world %d: %w", id, ErrUnknownWorld)
	}
	return w, nil
}

// InsertItem keeps the overlay and items_index in sync, removing any
// prior position of the serial first.
func (m *Model) InsertItem(item TopLevelItem) error {
	w, err := m.world(item.World)
	if err != nil {
		return err
	}

	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	if prev, ok := m.items[item.Serial]; ok {
		if pw := m.World(prev.World); pw != nil {
			pw.DeleteItem(prev.X, prev.Y, prev.Z, prev.Serial, prev.Graphic)
		}
	}

	if err := w.InsertItem(item.X, item.Y, item.Z, item.Serial, item.Graphic); err != nil {
		return fmt.Errorf("InsertItem: %w", err)
	}
	m.items[item.Serial] = item
	return nil
}

// InsertMultiItem additionally publishes parts into the owning
// DynamicWorld's custom_multis before overlay insertion.
func (m *Model) InsertMultiItem(item TopLevelItem, parts []MultiPartSpec) error {
	w, err := m.world(item.World)
	if err != nil {
		return err
	}

	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	if prev, ok := m.items[item.Serial]; ok {
		if pw := m.World(prev.World); pw != nil {
			pw.DeleteItem(prev.X, prev.Y, prev.Z, prev.Serial, prev.Graphic)
		}
	}

	w.SetCustomMultiParts(item.Serial, parts)
	if err := w.InsertItem(item.X, item.Y, item.Z, item.Serial, item.Graphic); err != nil {
		return fmt.Errorf("InsertMultiItem: %w", err)
	}
	m.items[item.Serial] = item
	return nil
}

// DeleteItem removes serial from the overlay and items_index.
func (m *Model) DeleteItem(serial uint32) {
	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	item, ok := m.items[serial]
	if !ok {
		return
	}
	if w := m.World(item.World); w != nil {
		w.DeleteItem(item.X, item.Y, item.Z, item.Serial, item.Graphic)
	}
	delete(m.items, serial)
}

// ClearState empties every world's overlay and the items_index. It holds
// itemsMu while it clears each world's overlay and then replaces the index.
func (m *Model) ClearState() {
	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	for _, w := range m.worlds {
		if w != nil {
			w.ClearWorld()
		}
	}
	m.items = make(map[uint32]TopLevelItem)
}

// Query calls QueryAreaDynamic on the named world and back-fills each
// emitted item's timestamp from items_index, logging a warning for any
// serial missing from the index.
func (m *Model) Query(worldID uint8, left, top, right, bottom int) ([]TopLevelItem, error) {
	w, err := m.world(worldID)
	if err != nil {
		return nil, err
	}

	out := w.QueryAreaDynamic(worldID, left, top, right, bottom)

	m.itemsMu.RLock()
	defer m.itemsMu.RUnlock()
	for i := range out {
		if idx, ok := m.items[out[i].Serial]; ok {
			out[i].Timestamp = idx.Timestamp
		} else {
			m.log.Warn("query: serial missing from items_index", "serial", out[i].Serial)
		}
	}
	return out, nil
}

// TileColor looks up a tile's radar color on the named world.
func (m *Model) TileColor(worldID uint8, t TileType) (ultima.RGB, error) {
	w, err := m.world(worldID)
	if err != nil {
		return ultima.RGB{}, err
	}
	return w.TileColor(t), nil
}

// persistedState is the JSON document described in spec.md section 6.3.
type persistedState struct {
	CustomMultis map[uint32][]MultiPartSpec `json:"custom_multis"`
	ItemsIndex   map[uint32]TopLevelItem    `json:"items_index"`
}

// Save writes {custom_multis, items_index} to file.
func (m *Model) Save(file string) error {
	m.itemsMu.RLock()
	state := persistedState{
		CustomMultis: make(map[uint32][]MultiPartSpec),
		ItemsIndex:   make(map[uint32]TopLevelItem, len(m.items)),
	}
	for k, v := range m.items {
		state.ItemsIndex[k] = v
	}
	m.itemsMu.RUnlock()

	for _, w := range m.worlds {
		if w == nil {
			continue
		}
		w.customMu.RLock()
		for serial, parts := range w.customMultis {
			state.CustomMultis[serial] = parts
		}
		w.customMu.RUnlock()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Load clears all state, then re-inserts every item from file.
func (m *Model) Load(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	m.ClearState()

	for serial, parts := range state.CustomMultis {
		if item, ok := state.ItemsIndex[serial]; ok {
			if w := m.World(item.World); w != nil {
				w.SetCustomMultiParts(serial, parts)
			}
		}
	}

	for _, item := range state.ItemsIndex {
		if err := m.InsertItem(item); err != nil {
			m.log.Warn("Load: failed to insert item", "serial", item.Serial, "err", err)
		}
	}
	return nil
}
