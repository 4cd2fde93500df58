// Package fonttest builds small sfnt fonts and font collections in memory
// for tests.
//
// Fonts are TrueType flavored with 'glyf' outlines, a format 12 'cmap'
// and optional 'name', 'OS/2', 'fvar' and 'avar' tables. Every field is
// written exactly as given so tests can assert raw values.
package fonttest

import (
	"encoding/binary"
	"math"
	"sort"
	"unicode/utf16"

	ot "github.com/go-text/typesetting/font/opentype"
)

// Point is a glyph outline point in font units, Y up.
type Point struct {
	X, Y    int16
	OnCurve bool
}

// On returns an on-curve point.
func On(x, y int16) Point { return Point{X: x, Y: y, OnCurve: true} }

// Off returns an off-curve quadratic control point.
func Off(x, y int16) Point { return Point{X: x, Y: y} }

// Glyph is a simple TrueType glyph. A glyph without contours is empty.
type Glyph struct {
	Contours [][]Point
	Advance  uint16
}

// Name is one 'name' table record. Value is encoded as UTF-16BE, except on
// the Macintosh platform where it is written byte for byte.
type Name struct {
	Platform uint16
	Encoding uint16
	Language uint16
	ID       uint16
	Value    string
}

// WindowsName returns a Windows Unicode BMP name record.
func WindowsName(id, language uint16, value string) Name {
	return Name{Platform: 3, Encoding: 1, Language: language, ID: id, Value: value}
}

// MacName returns a Macintosh Roman name record.
func MacName(id, language uint16, value string) Name {
	return Name{Platform: 1, Encoding: 0, Language: language, ID: id, Value: value}
}

// Axis is a variation axis in user space.
type Axis struct {
	Tag     string
	Min     float32
	Default float32
	Max     float32
}

// OS2 holds the 'OS/2' fields the tests care about.
type OS2 struct {
	Version        uint16
	AvgCharWidth   uint16
	TypoAscender   int16
	TypoDescender  int16
	TypoLineGap    int16
	XHeight        int16
	CapHeight      int16
	UseTypoMetrics bool
}

// Font describes a synthetic font.
type Font struct {
	UnitsPerEm uint16

	// Bounds overrides the 'head' bounding box. When nil the union of all
	// glyph bounds is written.
	Bounds *[4]int16

	Glyphs []Glyph
	CMap   map[rune]uint16

	Ascender, Descender, LineGap int16

	Names    []Name
	LangTags []string

	OS2 *OS2

	Axes []Axis

	// Avar holds one (from, to) map per axis, in normalized units.
	Avar [][][2]float32

	// Omit lists tables left out of the font.
	Omit []string

	// Extra lists additional raw tables.
	Extra map[string][]byte
}

// Tables returns the encoded tables sorted by tag.
func (f *Font) Tables() []ot.Table {
	glyf, loca, bbox := f.glyf()
	if f.Bounds != nil {
		bbox = *f.Bounds
	}

	all := map[string][]byte{
		"head": f.head(bbox),
		"hhea": f.hhea(),
		"hmtx": f.hmtx(),
		"maxp": f.maxp(),
		"cmap": f.cmap(),
		"loca": loca,
		"glyf": glyf,
	}
	if len(f.Names) > 0 || len(f.LangTags) > 0 {
		all["name"] = f.name()
	}
	if f.OS2 != nil {
		all["OS/2"] = f.os2()
	}
	if len(f.Axes) > 0 {
		all["fvar"] = f.fvar()
	}
	if len(f.Avar) > 0 {
		all["avar"] = f.avar()
	}
	for tag, data := range f.Extra {
		all[tag] = data
	}
	for _, tag := range f.Omit {
		delete(all, tag)
	}

	out := make([]ot.Table, 0, len(all))
	for tag, data := range all {
		out = append(out, ot.Table{Tag: ot.MustNewTag(tag), Content: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Bytes returns the encoded font file.
func (f *Font) Bytes() []byte {
	return ot.WriteTTF(f.Tables())
}

// Collection packs complete font files into a TrueType collection.
func Collection(fonts ...[]byte) []byte {
	header := 12 + 4*len(fonts)
	out := make([]byte, header)
	copy(out, "ttcf")
	binary.BigEndian.PutUint32(out[4:], 0x00010000)
	binary.BigEndian.PutUint32(out[8:], uint32(len(fonts)))

	for i, data := range fonts {
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
		base := uint32(len(out))
		binary.BigEndian.PutUint32(out[12+4*i:], base)
		out = append(out, data...)

		// Table offsets of a member are relative to the collection start.
		numTables := int(binary.BigEndian.Uint16(data[4:]))
		for t := 0; t < numTables; t++ {
			entry := out[base+12+uint32(t)*16:]
			off := binary.BigEndian.Uint32(entry[8:])
			binary.BigEndian.PutUint32(entry[8:], off+base)
		}
	}
	return out
}

// Dfont packs complete font files into a Mac resource-fork font, one
// 'sfnt' resource per font.
func Dfont(fonts ...[]byte) []byte {
	const dataStart = 0x100

	var data, refs writer
	for i, font := range fonts {
		refs.u16(uint16(128 + i)) // resource ID
		refs.u16(0xFFFF)          // no name
		refs.u32(uint32(len(data)) & 0xFFFFFF)
		refs.u32(0) // handle
		data.u32(uint32(len(font)))
		data = append(data, font...)
	}

	mapStart := dataStart + len(data)

	var m writer
	m = append(m, make([]byte, 24)...) // header copy, next map, file ref, attributes
	m.u16(28)                          // type list offset
	m.u16(uint16(28 + 2 + 8 + len(refs)))
	m.u16(0) // one type
	m = append(m, "sfnt"...)
	m.u16(uint16(len(fonts) - 1))
	m.u16(2 + 8) // reference list, from the type list
	m = append(m, refs...)

	out := make(writer, dataStart)
	binary.BigEndian.PutUint32(out[0:], dataStart)
	binary.BigEndian.PutUint32(out[4:], uint32(mapStart))
	binary.BigEndian.PutUint32(out[8:], uint32(len(data)))
	binary.BigEndian.PutUint32(out[12:], uint32(len(m)))
	out = append(out, data...)
	out = append(out, m...)
	return out
}

type writer []byte

func (w *writer) u16(v uint16) { *w = binary.BigEndian.AppendUint16(*w, v) }
func (w *writer) i16(v int16)  { w.u16(uint16(v)) }
func (w *writer) u32(v uint32) { *w = binary.BigEndian.AppendUint32(*w, v) }

func (w *writer) fixed(v float32) {
	w.u32(uint32(int32(math.Round(float64(v) * (1 << 16)))))
}

func (w *writer) f2dot14(v float32) {
	w.i16(int16(math.Round(float64(v) * (1 << 14))))
}

func (f *Font) head(bbox [4]int16) []byte {
	var w writer
	w.u32(0x00010000) // version
	w.u32(0x00010000) // fontRevision
	w.u32(0)          // checksumAdjustment
	w.u32(0x5F0F3CF5) // magicNumber
	w.u16(0)          // flags
	w.u16(f.UnitsPerEm)
	w.u32(0) // created
	w.u32(0)
	w.u32(0) // modified
	w.u32(0)
	for _, v := range bbox {
		w.i16(v)
	}
	w.u16(0) // macStyle
	w.u16(8) // lowestRecPPEM
	w.i16(2) // fontDirectionHint
	w.i16(1) // indexToLocFormat: long offsets
	w.i16(0) // glyphDataFormat
	return w
}

func (f *Font) advanceMax() uint16 {
	var m uint16
	for _, g := range f.Glyphs {
		m = max(m, g.Advance)
	}
	return m
}

func (f *Font) hhea() []byte {
	var w writer
	w.u32(0x00010000)
	w.i16(f.Ascender)
	w.i16(f.Descender)
	w.i16(f.LineGap)
	w.u16(f.advanceMax())
	for range 11 {
		w.i16(0) // side bearings, extent, caret, reserved, metricDataFormat
	}
	w.u16(uint16(len(f.Glyphs)))
	return w
}

func (f *Font) hmtx() []byte {
	var w writer
	for _, g := range f.Glyphs {
		w.u16(g.Advance)
		xMin, _, _, _ := glyphBounds(g)
		w.i16(xMin)
	}
	return w
}

func (f *Font) maxp() []byte {
	var w writer
	w.u32(0x00005000)
	w.u16(uint16(len(f.Glyphs)))
	return w
}

func (f *Font) cmap() []byte {
	runes := make([]rune, 0, len(f.CMap))
	for r := range f.CMap {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var w writer
	w.u16(0) // version
	w.u16(1) // numTables
	w.u16(3) // Windows
	w.u16(10)
	w.u32(12)
	w.u16(12) // format
	w.u16(0)
	w.u32(uint32(16 + 12*len(runes)))
	w.u32(0) // language
	w.u32(uint32(len(runes)))
	for _, r := range runes {
		w.u32(uint32(r))
		w.u32(uint32(r))
		w.u32(uint32(f.CMap[r]))
	}
	return w
}

func glyphBounds(g Glyph) (xMin, yMin, xMax, yMax int16) {
	first := true
	for _, c := range g.Contours {
		for _, p := range c {
			if first {
				xMin, yMin, xMax, yMax = p.X, p.Y, p.X, p.Y
				first = false
				continue
			}
			xMin, yMin = min(xMin, p.X), min(yMin, p.Y)
			xMax, yMax = max(xMax, p.X), max(yMax, p.Y)
		}
	}
	return xMin, yMin, xMax, yMax
}

func (f *Font) glyf() (glyf, loca []byte, bbox [4]int16) {
	var g, l writer
	first := true
	for _, glyph := range f.Glyphs {
		l.u32(uint32(len(g)))
		if len(glyph.Contours) == 0 {
			continue
		}
		xMin, yMin, xMax, yMax := glyphBounds(glyph)
		if first {
			bbox = [4]int16{xMin, yMin, xMax, yMax}
			first = false
		} else {
			bbox = [4]int16{min(bbox[0], xMin), min(bbox[1], yMin), max(bbox[2], xMax), max(bbox[3], yMax)}
		}

		g.i16(int16(len(glyph.Contours)))
		g.i16(xMin)
		g.i16(yMin)
		g.i16(xMax)
		g.i16(yMax)
		end := -1
		for _, c := range glyph.Contours {
			end += len(c)
			g.u16(uint16(end))
		}
		g.u16(0) // instructionLength
		for _, c := range glyph.Contours {
			for _, p := range c {
				if p.OnCurve {
					g = append(g, 0x01)
				} else {
					g = append(g, 0x00)
				}
			}
		}
		var x, y int16
		for _, c := range glyph.Contours {
			for _, p := range c {
				g.i16(p.X - x)
				x = p.X
			}
		}
		for _, c := range glyph.Contours {
			for _, p := range c {
				g.i16(p.Y - y)
				y = p.Y
			}
		}
		for len(g)%4 != 0 {
			g = append(g, 0)
		}
	}
	l.u32(uint32(len(g)))
	return g, l, bbox
}

func (f *Font) name() []byte {
	var storage writer
	encode := func(n Name) []byte {
		if n.Platform == 1 {
			return []byte(n.Value)
		}
		var b writer
		for _, u := range utf16.Encode([]rune(n.Value)) {
			b.u16(u)
		}
		return b
	}

	version := uint16(0)
	if len(f.LangTags) > 0 {
		version = 1
	}
	headerSize := 6 + 12*len(f.Names)
	if version == 1 {
		headerSize += 2 + 4*len(f.LangTags)
	}

	var w writer
	w.u16(version)
	w.u16(uint16(len(f.Names)))
	w.u16(uint16(headerSize))
	for _, n := range f.Names {
		s := encode(n)
		w.u16(n.Platform)
		w.u16(n.Encoding)
		w.u16(n.Language)
		w.u16(n.ID)
		w.u16(uint16(len(s)))
		w.u16(uint16(len(storage)))
		storage = append(storage, s...)
	}
	if version == 1 {
		w.u16(uint16(len(f.LangTags)))
		for _, tag := range f.LangTags {
			s := encode(Name{Platform: 0, Value: tag})
			w.u16(uint16(len(s)))
			w.u16(uint16(len(storage)))
			storage = append(storage, s...)
		}
	}
	return append(w, storage...)
}

func (f *Font) os2() []byte {
	o := f.OS2
	var w writer
	w.u16(o.Version)
	w.u16(o.AvgCharWidth)
	w.u16(400) // usWeightClass
	w.u16(5)   // usWidthClass
	for range 12 {
		w.i16(0) // fsType through sFamilyClass
	}
	w = append(w, make([]byte, 10)...) // panose
	for range 4 {
		w.u32(0) // ulUnicodeRange
	}
	w = append(w, "TEST"...)
	fsSelection := uint16(0x40) // REGULAR
	if o.UseTypoMetrics {
		fsSelection |= 1 << 7
	}
	w.u16(fsSelection)
	w.u16(0x20)   // usFirstCharIndex
	w.u16(0xFFFF) // usLastCharIndex
	w.i16(o.TypoAscender)
	w.i16(o.TypoDescender)
	w.i16(o.TypoLineGap)
	w.u16(uint16(o.TypoAscender))
	w.u16(uint16(-o.TypoDescender))
	if o.Version < 1 {
		return w
	}
	w.u32(1) // ulCodePageRange1
	w.u32(0)
	if o.Version < 2 {
		return w
	}
	w.i16(o.XHeight)
	w.i16(o.CapHeight)
	w.u16(0)    // usDefaultChar
	w.u16(0x20) // usBreakChar
	w.u16(1)    // usMaxContext
	return w
}

func (f *Font) fvar() []byte {
	var w writer
	w.u16(1)
	w.u16(0)
	w.u16(16) // axesArrayOffset
	w.u16(2)
	w.u16(uint16(len(f.Axes)))
	w.u16(20)
	w.u16(0) // instanceCount
	w.u16(uint16(4*len(f.Axes) + 4))
	for i, a := range f.Axes {
		w = append(w, a.Tag...)
		w.fixed(a.Min)
		w.fixed(a.Default)
		w.fixed(a.Max)
		w.u16(0)
		w.u16(uint16(256 + i))
	}
	return w
}

func (f *Font) avar() []byte {
	var w writer
	w.u16(1)
	w.u16(0)
	w.u16(0)
	w.u16(uint16(len(f.Avar)))
	for _, maps := range f.Avar {
		w.u16(uint16(len(maps)))
		for _, m := range maps {
			w.f2dot14(m[0])
			w.f2dot14(m[1])
		}
	}
	return w
}
