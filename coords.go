package typeface

import (
	"math"

	"github.com/go-text/typesetting/font/opentype/tables"
)

// DesignCoordinate is a user-space position on one variation axis,
// for example weight 700.
type DesignCoordinate struct {
	Axis  Tag
	Value float32
}

// Axis is a variation axis declared by the 'fvar' table, in user space.
type Axis struct {
	Tag     Tag
	Min     float32
	Default float32
	Max     float32
}

// NormalizedCoords is a resolved variable-font instance: one F2Dot14 value
// in [-1, 1] per 'fvar' axis, in 'fvar' order. The zero value selects the
// default instance. NormalizedCoords is immutable.
type NormalizedCoords struct {
	coords []tables.Coord
}

// Len returns the number of axes.
func (c NormalizedCoords) Len() int { return len(c.coords) }

// At returns the normalized value of axis i.
func (c NormalizedCoords) At(i int) float32 {
	return float32(c.coords[i]) / (1 << 14)
}

// Values returns a copy of the normalized values.
func (c NormalizedCoords) Values() []float32 {
	if len(c.coords) == 0 {
		return nil
	}
	out := make([]float32, len(c.coords))
	for i := range c.coords {
		out[i] = c.At(i)
	}
	return out
}

// IsDefault reports whether every axis sits at its default position.
func (c NormalizedCoords) IsDefault() bool {
	for _, v := range c.coords {
		if v != 0 {
			return false
		}
	}
	return true
}

// Axes returns the variation axes of the Font, or nil for a static or
// invalid Font.
func (f *Font) Axes() []Axis {
	if !f.IsValid() {
		return nil
	}
	raw, err := f.ld.RawTable(tagFvar)
	if err != nil {
		return nil
	}
	fvar, _, err := tables.ParseFvar(raw)
	if err != nil {
		Logger().Debug("typeface: fvar ignored", "err", err)
		return nil
	}
	if len(fvar.Axis) == 0 {
		return nil
	}
	axes := make([]Axis, len(fvar.Axis))
	for i, a := range fvar.Axis {
		axes[i] = Axis{Tag: a.Tag, Min: a.Minimum, Default: a.Default, Max: a.Maximum}
	}
	return axes
}

// ResolveCoordinates maps design coordinates onto the axes of the Font.
//
// Axes not named by design stay at their default. When several entries
// name the same axis the last one wins; unknown tags are ignored. Values
// are clamped to the axis range, normalized around the default and then
// remapped through the 'avar' table when present. An invalid or static
// Font yields empty coordinates.
func (f *Font) ResolveCoordinates(design ...DesignCoordinate) NormalizedCoords {
	axes := f.Axes()
	if len(axes) == 0 {
		return NormalizedCoords{}
	}

	user := make([]float32, len(axes))
	for i, a := range axes {
		user[i] = a.Default
	}
	for _, d := range design {
		for i, a := range axes {
			if a.Tag == d.Axis {
				user[i] = d.Value
			}
		}
	}

	return NormalizedCoords{coords: f.normalize(axes, user)}
}

// normalize converts user-space values, one per axis, to F2Dot14.
func (f *Font) normalize(axes []Axis, user []float32) []tables.Coord {
	if ft := f.parsed(); ft != nil {
		var coords []tables.Coord
		err := guard(func() error {
			coords = ft.NormalizeVariations(user)
			return nil
		})
		if err == nil && len(coords) == len(axes) {
			for i, c := range coords {
				coords[i] = min(max(c, -(1 << 14)), 1<<14)
			}
			return coords
		}
		// An 'avar' with more segment maps than axes ends up here.
		Logger().Debug("typeface: normalizing variations by hand", "err", err)
	}

	coords := make([]tables.Coord, len(axes))
	for i, a := range axes {
		coords[i] = normalizeAxis(a, user[i])
	}
	f.applyAvar(coords)
	return coords
}

// normalizeAxis maps v into [-1, 1] with -1, 0 and 1 at the axis minimum,
// default and maximum.
func normalizeAxis(a Axis, v float32) tables.Coord {
	lo, hi := min(a.Min, a.Default), max(a.Max, a.Default)
	if math.IsNaN(float64(v)) {
		v = a.Default
	}
	v = min(max(v, lo), hi)

	var n float64
	switch {
	case v < a.Default:
		n = -float64(a.Default-v) / float64(a.Default-lo)
	case v > a.Default:
		n = float64(v-a.Default) / float64(hi-a.Default)
	}
	return f2dot14(n)
}

func f2dot14(n float64) tables.Coord {
	n = math.Round(n * (1 << 14))
	return tables.Coord(min(max(n, -(1 << 14)), 1<<14))
}

// applyAvar remaps coords in place through the 'avar' segment maps.
// Segment maps past the axis count are ignored.
func (f *Font) applyAvar(coords []tables.Coord) {
	raw, err := f.ld.RawTable(tagAvar)
	if err != nil {
		return
	}
	avar, _, err := tables.ParseAvar(raw)
	if err != nil {
		Logger().Debug("typeface: avar ignored", "err", err)
		return
	}
	for i, sm := range avar.AxisSegmentMaps {
		if i >= len(coords) {
			break
		}
		coords[i] = min(max(sm.Map(coords[i]), -(1 << 14)), 1<<14)
	}
}
