package typeface

import (
	"encoding/binary"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype/tables"
)

// Metrics holds font-wide typographic metrics in output units.
//
// Values keep the font's Y-up convention: Top and Ascent are positive,
// Bottom and Descent are usually negative. Unavailable values are 0.
type Metrics struct {
	Top    float32 // greatest glyph Y extent ('head' yMax)
	Bottom float32 // least glyph Y extent ('head' yMin)
	XMin   float32
	XMax   float32

	Ascent  float32
	Descent float32
	Leading float32

	AvgCharWidth float32
	MaxCharWidth float32
	XHeight      float32
	CapHeight    float32
}

// os2 holds the 'OS/2' fields read directly by the metrics engine.
type os2 struct {
	avgCharWidth  uint16
	typoAscender  int16
	typoDescender int16
	typoLineGap   int16
	hasHeights    bool
}

func (f *Font) loadOS2() (os2, bool) {
	raw, err := f.ld.RawTable(tagOS2)
	if err != nil {
		return os2{}, false
	}
	t, _, err := tables.ParseOs2(raw)
	if err != nil {
		return os2{}, false
	}
	return os2{
		avgCharWidth:  t.XAvgCharWidth,
		typoAscender:  t.STypoAscender,
		typoDescender: t.STypoDescender,
		typoLineGap:   t.STypoLineGap,
		// sxHeight and sCapHeight follow ulCodePageRange in version 2.
		hasHeights: t.Version >= 2 && len(t.HigherVersionData) >= 12,
	}, true
}

func (f *Font) loadHhea() (tables.Hhea, bool) {
	raw, err := f.ld.RawTable(tagHhea)
	if err != nil {
		return tables.Hhea{}, false
	}
	h, _, err := tables.ParseHhea(raw)
	return h, err == nil
}

// loadHmtx parses the horizontal metrics when they are present and
// consistent with the glyph count.
func (f *Font) loadHmtx() (tables.Hmtx, bool) {
	hhea, ok := f.loadHhea()
	if !ok {
		return tables.Hmtx{}, false
	}
	raw, err := f.ld.RawTable(tagHmtx)
	if err != nil {
		return tables.Hmtx{}, false
	}
	long := int(hhea.NumOfLongMetrics)
	hmtx, _, err := tables.ParseHmtx(raw, long, max(int(f.numGlyphs)-long, 0))
	return hmtx, err == nil
}

// Metrics computes the font-wide metrics at size, instanced at coords.
// An invalid Font yields zero Metrics.
func (f *Font) Metrics(size float32, coords NormalizedCoords) Metrics {
	var m Metrics
	if !f.IsValid() {
		return m
	}
	scale := f.scale(size)

	if f.hasHead {
		m.Top = float32(f.head.YMax) * scale
		m.Bottom = float32(f.head.YMin) * scale
		m.XMin = float32(f.head.XMin) * scale
		m.XMax = float32(f.head.XMax) * scale
	}

	if hhea, ok := f.loadHhea(); ok {
		m.MaxCharWidth = float32(hhea.AdvanceMax) * scale
	}

	o, hasOS2 := f.loadOS2()
	if hasOS2 {
		m.AvgCharWidth = float32(o.avgCharWidth) * scale
	}

	var face *font.Face
	if ft := f.parsed(); ft != nil {
		face = font.NewFace(ft)
		face.SetCoords(coords.coords)
	}

	if ext, ok := horizontalExtents(face); ok {
		m.Ascent = ext.Ascender * scale
		m.Descent = ext.Descender * scale
		m.Leading = ext.LineGap * scale
	} else if hasOS2 {
		m.Ascent = float32(o.typoAscender) * scale
		m.Descent = float32(o.typoDescender) * scale
		m.Leading = float32(o.typoLineGap) * scale
	}

	if face != nil && o.hasHeights {
		m.XHeight = face.LineMetric(font.XHeight) * scale
		m.CapHeight = face.LineMetric(font.CapHeight) * scale
	} else if o.hasHeights {
		m.XHeight, m.CapHeight = f.os2Heights(scale)
	}

	return m
}

func horizontalExtents(face *font.Face) (font.FontExtents, bool) {
	if face == nil {
		return font.FontExtents{}, false
	}
	var (
		ext font.FontExtents
		ok  bool
	)
	err := guard(func() error {
		ext, ok = face.FontHExtents()
		return nil
	})
	return ext, ok && err == nil
}

// os2Heights reads sxHeight and sCapHeight without variation deltas.
func (f *Font) os2Heights(scale float32) (xHeight, capHeight float32) {
	raw, err := f.ld.RawTable(tagOS2)
	if err != nil || len(raw) < 90 {
		return 0, 0
	}
	xHeight = float32(int16(binary.BigEndian.Uint16(raw[86:]))) * scale
	capHeight = float32(int16(binary.BigEndian.Uint16(raw[88:]))) * scale
	return xHeight, capHeight
}

// AdvanceWidth returns the horizontal advance of gid at size, instanced at
// coords. It returns 0 for an invalid Font, a glyph out of range, or a
// font without 'hmtx'.
func (f *Font) AdvanceWidth(size float32, coords NormalizedCoords, gid GlyphID) float32 {
	if !f.IsValid() || uint32(gid) >= uint32(f.numGlyphs) {
		return 0
	}
	hmtx, ok := f.loadHmtx()
	if !ok {
		return 0
	}
	ft := f.parsed()
	if ft == nil {
		return rawAdvance(hmtx, gid) * f.scale(size)
	}

	var adv float32
	err := guard(func() error {
		face := font.NewFace(ft)
		face.SetCoords(coords.coords)
		adv = face.HorizontalAdvance(font.GID(gid))
		return nil
	})
	if err != nil {
		Logger().Debug("typeface: advance unavailable", "glyph", gid, "err", err)
		return 0
	}
	return adv * f.scale(size)
}

// rawAdvance reads the stored advance of gid, without variation deltas.
// Glyphs past the long metrics repeat the last advance.
func rawAdvance(hmtx tables.Hmtx, gid GlyphID) float32 {
	if len(hmtx.Metrics) == 0 {
		return 0
	}
	i := min(int(gid), len(hmtx.Metrics)-1)
	return float32(uint16(hmtx.Metrics[i].AdvanceWidth))
}
