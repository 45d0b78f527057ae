// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ultima

import "fmt"

// RGB is a simple 8-bit-per-channel color triple, independent of any
// particular image library.
type RGB struct {
	R, G, B uint8
}

// MultiPartTemplate is a single part of a standard (catalog-defined) multi,
// as opposed to a custom multi whose parts are supplied by the caller.
type MultiPartTemplate struct {
	Graphic uint16
	X, Y, Z int16
	Flags   uint32
}

// LandFlags returns the flag bitset for a land graphic id. IDs out of range
// are a caller bug, not a recoverable condition.
func (s *SDK) LandFlags(id int) (TileFlag, error) {
	info, err := s.landInfo(id)
	if err != nil {
		return 0, fmt.Errorf("LandFlags: %w", err)
	}
	return info.Flags, nil
}

// StaticFlags returns the flag bitset for a static graphic id.
func (s *SDK) StaticFlags(id int) (TileFlag, error) {
	info, err := s.staticInfo(id)
	if err != nil {
		return 0, fmt.Errorf("StaticFlags: %w", err)
	}
	return info.Flags, nil
}

// StaticHeight returns the catalog height of a static graphic id, unhalved
// for Bridge tiles: world.ClassifyStatic derives a bridge's standing height
// from it.
func (s *SDK) StaticHeight(id int) (int8, error) {
	info, err := s.staticInfo(id)
	if err != nil {
		return 0, fmt.Errorf("StaticHeight: %w", err)
	}
	return int8(info.Height), nil
}

// LandColor returns the radar color of a land graphic id.
func (s *SDK) LandColor(id int) (RGB, error) {
	rc, err := s.RadarColor(id)
	if err != nil {
		return RGB{}, fmt.Errorf("LandColor: %w", err)
	}
	r, g, b, _ := rc.GetColor().RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, nil
}

// StaticColor returns the radar color of a static graphic id. Static colors
// are stored after the 16384 land entries in radarcol.mul.
func (s *SDK) StaticColor(id int) (RGB, error) {
	return s.LandColor(id + 0x4000)
}

// MultiTemplate returns the parts of a standard multi, keyed by
// graphic & 0xFFFF as required for overlay expansion of standard multis.
func (s *SDK) MultiTemplate(id uint32) ([]MultiPartTemplate, error) {
	m, err := s.Multi(int(id))
	if err != nil {
		return nil, fmt.Errorf("MultiTemplate: %w", err)
	}

	parts := make([]MultiPartTemplate, 0, len(m.Items))
	for _, it := range m.Items {
		parts = append(parts, MultiPartTemplate{
			Graphic: it.Item,
			X:       it.X,
			Y:       it.Y,
			Z:       it.Z,
			Flags:   it.Flags,
		})
	}
	return parts, nil
}
