package typeface

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
)

// GlyphID is an index into the glyph set of a font.
// Glyph 0 is the notdef glyph.
type GlyphID uint16

// Tag is a 4-byte big-endian identifier naming a table or a variation axis.
type Tag = ot.Tag

// NewTag builds a tag from its four bytes.
func NewTag(a, b, c, d byte) Tag { return ot.NewTag(a, b, c, d) }

// MustNewTag builds a tag from a 4-byte string and panics on any other length.
func MustNewTag(s string) Tag { return ot.MustNewTag(s) }

// ParseTag builds a tag from a string of one to four bytes.
// Shorter strings are padded with spaces, so "CFF" names the 'CFF ' table.
func ParseTag(s string) (Tag, error) {
	if len(s) == 0 || len(s) > 4 {
		return 0, fmt.Errorf("typeface: invalid tag %q", s)
	}
	var b [4]byte
	copy(b[:], "    ")
	copy(b[:], s)
	return ot.NewTag(b[0], b[1], b[2], b[3]), nil
}

var (
	tagCmap = ot.MustNewTag("cmap")
	tagMaxp = ot.MustNewTag("maxp")
	tagHhea = ot.MustNewTag("hhea")
	tagHmtx = ot.MustNewTag("hmtx")
	tagOS2  = ot.MustNewTag("OS/2")
	tagName = ot.MustNewTag("name")
	tagFvar = ot.MustNewTag("fvar")
	tagAvar = ot.MustNewTag("avar")
)

// File signatures recognized by the loader.
const (
	sigCollection = 0x74746366 // 'ttcf'
	sigDfont      = 0x00000100
	sigWOFF       = 0x774f4646 // 'wOFF'
)

// Font is a handle to one font inside a caller-owned data slice.
//
// A Font is either valid, when a table directory was located, or invalid.
// Every query on an invalid Font, including a nil *Font, returns its zero
// value. A Font is immutable and safe for concurrent use.
type Font struct {
	index uint32
	err   error

	ld *ot.Loader

	// font is the parsed view used for cmap, outline and metrics queries.
	// It is nil when the head or maxp tables are unusable. Without a usable
	// cmap it maps no codepoint.
	font *font.Font

	head      tables.Head
	hasHead   bool
	numGlyphs uint16
}

// Resolve locates the font at index inside data.
//
// A single font ignores index. A collection selects its member at index,
// and an index past the last member yields an invalid Font. Data that is
// neither a font nor a collection also yields an invalid Font. Resolve
// never fails: inspect [Font.IsValid] and [Font.Err].
//
// data is borrowed for the lifetime of the returned Font and must not be
// modified.
func Resolve(data []byte, index uint32) *Font {
	f := &Font{index: index}

	ld, err := locate(data, index)
	if err != nil {
		f.err = &FontError{Index: index, Err: err}
		Logger().Debug("typeface: font rejected",
			"index", index,
			"size", len(data),
			"err", err)
		return f
	}
	f.ld = ld

	if h, _, err := font.LoadHeadTable(ld, nil); err == nil {
		f.head, f.hasHead = h, true
	}
	if raw, err := ld.RawTable(tagMaxp); err == nil {
		if maxp, _, err := tables.ParseMaxp(raw); err == nil {
			f.numGlyphs = maxp.NumGlyphs
		}
	}

	f.font, err = parseFont(ld)
	if err == nil {
		return f
	}
	// The character map is the only table outlines and metrics can do
	// without. Retry with an empty one so they keep working.
	ft, retryErr := parseFont(withoutCmap(ld))
	if retryErr != nil {
		Logger().Debug("typeface: font tables unusable, glyph queries disabled",
			"index", index,
			"err", err)
		return f
	}
	Logger().Debug("typeface: cmap unusable, codepoint lookups disabled",
		"index", index,
		"err", err)
	f.font = ft
	return f
}

func parseFont(ld *ot.Loader) (*font.Font, error) {
	if ld == nil {
		return nil, ErrInvalidFont
	}
	var ft *font.Font
	err := guard(func() (err error) {
		ft, err = font.NewFont(ld)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// emptyCmap is a 'cmap' table with one format 12 subtable and no groups.
var emptyCmap = []byte{
	0, 0, 0, 1, // version, numTables
	0, 3, 0, 10, 0, 0, 0, 12, // Windows UCS-4 at offset 12
	0, 12, 0, 0, 0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 0,
}

// withoutCmap copies the tables of ld into a new font whose 'cmap' maps
// nothing.
func withoutCmap(ld *ot.Loader) *ot.Loader {
	tags := ld.Tables()
	out := make([]ot.Table, 0, len(tags)+1)
	for _, tag := range tags {
		if tag == tagCmap {
			continue
		}
		raw, err := ld.RawTable(tag)
		if err != nil {
			continue
		}
		out = append(out, ot.Table{Tag: tag, Content: raw})
	}
	out = append(out, ot.Table{Tag: tagCmap, Content: emptyCmap})
	slices.SortFunc(out, func(a, b ot.Table) int { return cmp.Compare(a.Tag, b.Tag) })

	view, err := ot.NewLoader(bytes.NewReader(ot.WriteTTF(out)))
	if err != nil {
		return nil
	}
	return view
}

// locate finds the table directory of the font at index.
func locate(data []byte, index uint32) (*ot.Loader, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	sig := signature(data)
	if sig == sigWOFF {
		return nil, fmt.Errorf("%w: WOFF data must be decompressed first", ErrInvalidFont)
	}

	var lds []*ot.Loader
	err := guard(func() (err error) {
		lds, err = ot.NewLoaders(bytes.NewReader(data))
		return err
	})
	collection := sig == sigCollection || sig == sigDfont
	if err != nil {
		if collection {
			// Some member is broken; the requested one may still be fine.
			return loadMember(data, index)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	if len(lds) == 0 {
		return nil, ErrInvalidFont
	}

	if !collection {
		return lds[0], nil
	}
	if uint64(index) >= uint64(len(lds)) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(lds))
	}
	return lds[index], nil
}

func signature(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data)
}

// IsValid reports whether a table directory was located.
// No table is required to be present.
func (f *Font) IsValid() bool {
	return f != nil && f.ld != nil
}

// Err returns why the Font is invalid, or nil for a valid Font.
// The error is a [*FontError] wrapping [ErrEmptyFontData],
// [ErrInvalidFont] or [ErrIndexOutOfRange].
func (f *Font) Err() error {
	if f == nil {
		return &FontError{Err: ErrInvalidFont}
	}
	return f.err
}

// Index returns the collection index the Font was resolved with.
func (f *Font) Index() uint32 {
	if f == nil {
		return 0
	}
	return f.index
}

// parsed returns the parsed font view, or nil.
func (f *Font) parsed() *font.Font {
	if !f.IsValid() {
		return nil
	}
	return f.font
}

// GlyphForCodepoint returns the nominal glyph for r from the character map.
// It returns 0 when r is unmapped or the Font is invalid.
func (f *Font) GlyphForCodepoint(r rune) GlyphID {
	ft := f.parsed()
	if ft == nil || r < 0 {
		return 0
	}
	gid, ok := ft.NominalGlyph(r)
	if !ok || gid > 0xFFFF {
		return 0
	}
	return GlyphID(gid)
}

// GlyphCount returns the number of glyphs declared by the 'maxp' table,
// or 0 when unavailable.
func (f *Font) GlyphCount() uint16 {
	if !f.IsValid() {
		return 0
	}
	return f.numGlyphs
}

// UnitsPerEm returns the design grid size declared by the 'head' table,
// or 0 when unavailable. The value is reported as stored in the font.
func (f *Font) UnitsPerEm() uint16 {
	if !f.IsValid() || !f.hasHead {
		return 0
	}
	return f.head.UnitsPerEm
}

// scale returns the factor converting font units to output units for size.
func (f *Font) scale(size float32) float32 {
	upem := f.UnitsPerEm()
	if upem == 0 {
		return 1
	}
	return size / float32(upem)
}
