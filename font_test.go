package typeface

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/typeface/internal/fonttest"
)

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		index   uint32
		wantErr error
	}{
		{"nil", nil, 0, ErrEmptyFontData},
		{"empty", []byte{}, 0, ErrEmptyFontData},
		{"three bytes", []byte{0x00, 0x01, 0x02}, 0, ErrInvalidFont},
		{"text", []byte("definitely not a font file"), 0, ErrInvalidFont},
		{"truncated collection", []byte("ttcf\x00\x01"), 0, ErrInvalidFont},
		{"empty collection", []byte("ttcf\x00\x01\x00\x00\x00\x00\x00\x00"), 0, ErrInvalidFont},
		{"truncated directory", goregular.TTF[:20], 0, ErrInvalidFont},
		{"WOFF", append([]byte("wOFF\x00\x01\x00\x00"), make([]byte, 36)...), 0, ErrInvalidFont},
		{"collection member past the end", []byte("ttcf\x00\x01\x00\x00\x00\x00\x00\x01\x7f\xff\xff\x00"), 0, ErrInvalidFont},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Resolve(tt.data, tt.index)
			if f.IsValid() {
				t.Fatal("IsValid() = true, want false")
			}
			if err := f.Err(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Err() = %v, want %v", err, tt.wantErr)
			}
			var fe *FontError
			if !errors.As(f.Err(), &fe) || fe.Index != tt.index {
				t.Errorf("Err() = %#v, want *FontError for index %d", f.Err(), tt.index)
			}
			assertDegraded(t, f)
		})
	}
}

func TestNilFont(t *testing.T) {
	var f *Font
	if f.IsValid() {
		t.Fatal("nil Font is valid")
	}
	if !errors.Is(f.Err(), ErrInvalidFont) {
		t.Errorf("Err() = %v, want ErrInvalidFont", f.Err())
	}
	assertDegraded(t, f)
}

// assertDegraded checks that every query on f returns its default.
func assertDegraded(t *testing.T, f *Font) {
	t.Helper()
	if got := f.GlyphCount(); got != 0 {
		t.Errorf("GlyphCount() = %d, want 0", got)
	}
	if got := f.UnitsPerEm(); got != 0 {
		t.Errorf("UnitsPerEm() = %d, want 0", got)
	}
	if got := f.GlyphForCodepoint('A'); got != 0 {
		t.Errorf("GlyphForCodepoint('A') = %d, want 0", got)
	}
	if got := f.FamilyName(); got != "" {
		t.Errorf("FamilyName() = %q, want empty", got)
	}
	if got, ok := f.PostScriptName(); ok || got != "" {
		t.Errorf("PostScriptName() = %q, %v, want empty, false", got, ok)
	}
	if _, ok := f.LocalizedFamilyNames().Next(); ok {
		t.Error("LocalizedFamilyNames().Next() = true, want false")
	}
	if got := f.ResolveCoordinates(DesignCoordinate{Axis: MustNewTag("wght"), Value: 700}); got.Len() != 0 {
		t.Errorf("ResolveCoordinates() has %d axes, want 0", got.Len())
	}
	if got := f.Axes(); got != nil {
		t.Errorf("Axes() = %v, want nil", got)
	}
	var rec eventRecorder
	if f.Outline(0, 16, NormalizedCoords{}, &rec) {
		t.Error("Outline() = true, want false")
	}
	if len(rec.events) != 0 {
		t.Errorf("Outline() emitted %d events on an invalid font", len(rec.events))
	}
	if got := f.AdvanceWidth(16, NormalizedCoords{}, 0); got != 0 {
		t.Errorf("AdvanceWidth() = %v, want 0", got)
	}
	if got := f.Metrics(16, NormalizedCoords{}); got != (Metrics{}) {
		t.Errorf("Metrics() = %+v, want zero", got)
	}
	if got := f.TableData(MustNewTag("head"), 0, nil); got != 0 {
		t.Errorf("TableData() = %d, want 0", got)
	}
	if got := f.TableTags(); got != nil {
		t.Errorf("TableTags() = %v, want nil", got)
	}
}

func TestResolveSingleFontIgnoresIndex(t *testing.T) {
	want := Resolve(goregular.TTF, 0)
	if !want.IsValid() {
		t.Fatalf("Resolve(goregular) invalid: %v", want.Err())
	}
	if want.Err() != nil {
		t.Errorf("Err() = %v, want nil", want.Err())
	}

	for _, index := range []uint32{1, 2, 5, math.MaxUint32} {
		f := Resolve(goregular.TTF, index)
		if !f.IsValid() {
			t.Fatalf("Resolve(goregular, %d) invalid: %v", index, f.Err())
		}
		if f.GlyphCount() != want.GlyphCount() {
			t.Errorf("index %d: GlyphCount() = %d, want %d", index, f.GlyphCount(), want.GlyphCount())
		}
		if f.FamilyName() != want.FamilyName() {
			t.Errorf("index %d: FamilyName() = %q, want %q", index, f.FamilyName(), want.FamilyName())
		}
		if f.Index() != index {
			t.Errorf("Index() = %d, want %d", f.Index(), index)
		}
	}
}

func collectionOf(t *testing.T, families ...string) []byte {
	t.Helper()
	fonts := make([][]byte, len(families))
	for i, family := range families {
		f := testFont()
		f.Names = []fonttest.Name{fonttest.WindowsName(uint16(NameFamily), 0x0409, family)}
		fonts[i] = f.Bytes()
	}
	return fonttest.Collection(fonts...)
}

func TestResolveCollection(t *testing.T) {
	data := collectionOf(t, "Alpha", "Beta")

	tests := []struct {
		index  uint32
		valid  bool
		family string
	}{
		{0, true, "Alpha"},
		{1, true, "Beta"},
		{2, false, ""},
		{5, false, ""},
		{math.MaxUint32, false, ""},
	}
	for _, tt := range tests {
		f := Resolve(data, tt.index)
		if f.IsValid() != tt.valid {
			t.Fatalf("Resolve(collection, %d).IsValid() = %v, want %v", tt.index, f.IsValid(), tt.valid)
		}
		if got := f.FamilyName(); got != tt.family {
			t.Errorf("Resolve(collection, %d).FamilyName() = %q, want %q", tt.index, got, tt.family)
		}
		if !tt.valid && !errors.Is(f.Err(), ErrIndexOutOfRange) {
			t.Errorf("Resolve(collection, %d).Err() = %v, want ErrIndexOutOfRange", tt.index, f.Err())
		}
	}
}

func TestResolveCollectionWithBrokenMember(t *testing.T) {
	data := collectionOf(t, "Alpha", "Beta", "Gamma")
	// Point member 0 far past the end of the data.
	binary.BigEndian.PutUint32(data[12:], 0x7fffff00)

	tests := []struct {
		index   uint32
		family  string
		wantErr error
	}{
		{0, "", ErrInvalidFont},
		{1, "Beta", nil},
		{2, "Gamma", nil},
		{3, "", ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		f := Resolve(data, tt.index)
		if tt.wantErr != nil {
			if f.IsValid() || !errors.Is(f.Err(), tt.wantErr) {
				t.Errorf("Resolve(collection, %d) = valid %v, err %v; want %v", tt.index, f.IsValid(), f.Err(), tt.wantErr)
			}
			continue
		}
		if !f.IsValid() {
			t.Fatalf("Resolve(collection, %d) invalid: %v", tt.index, f.Err())
		}
		if got := f.FamilyName(); got != tt.family {
			t.Errorf("Resolve(collection, %d).FamilyName() = %q, want %q", tt.index, got, tt.family)
		}
		if got := f.GlyphForCodepoint('A'); got != gidSquare {
			t.Errorf("Resolve(collection, %d).GlyphForCodepoint('A') = %d, want %d", tt.index, got, gidSquare)
		}
		if got := f.TableData(MustNewTag("head"), 0, nil); got != 54 {
			t.Errorf("Resolve(collection, %d) head length = %d, want 54", tt.index, got)
		}
	}
}

func dfontOf(t *testing.T, families ...string) []byte {
	t.Helper()
	fonts := make([][]byte, len(families))
	for i, family := range families {
		f := testFont()
		f.Names = []fonttest.Name{fonttest.WindowsName(uint16(NameFamily), 0x0409, family)}
		fonts[i] = f.Bytes()
	}
	return fonttest.Dfont(fonts...)
}

func TestResolveDfont(t *testing.T) {
	data := dfontOf(t, "Alpha", "Beta")
	for index, family := range []string{"Alpha", "Beta"} {
		f := Resolve(data, uint32(index))
		if !f.IsValid() {
			t.Fatalf("Resolve(dfont, %d) invalid: %v", index, f.Err())
		}
		if got := f.FamilyName(); got != family {
			t.Errorf("Resolve(dfont, %d).FamilyName() = %q, want %q", index, got, family)
		}
	}
	if f := Resolve(data, 2); !errors.Is(f.Err(), ErrIndexOutOfRange) {
		t.Errorf("Resolve(dfont, 2).Err() = %v, want ErrIndexOutOfRange", f.Err())
	}
}

func TestResolveDfontWithBrokenMember(t *testing.T) {
	data := dfontOf(t, "Alpha", "Beta")
	// The first resource starts at 0x100 with a 4-byte length; clobber the
	// sfnt version that follows.
	copy(data[0x104:], "junk")

	if f := Resolve(data, 0); f.IsValid() || !errors.Is(f.Err(), ErrInvalidFont) {
		t.Errorf("Resolve(dfont, 0) = valid %v, err %v; want ErrInvalidFont", f.IsValid(), f.Err())
	}
	f := Resolve(data, 1)
	if !f.IsValid() {
		t.Fatalf("Resolve(dfont, 1) invalid: %v", f.Err())
	}
	if got := f.FamilyName(); got != "Beta" {
		t.Errorf("FamilyName() = %q, want %q", got, "Beta")
	}
	var p Path
	if !f.Outline(gidSquare, 1000, NormalizedCoords{}, &p) || p.String() == "" {
		t.Error("Outline() of the healthy member failed")
	}
}

func TestResolveCollectionOfRealFonts(t *testing.T) {
	data := fonttest.Collection(goregular.TTF, gobold.TTF)

	regular := Resolve(data, 0)
	bold := Resolve(data, 1)
	if !regular.IsValid() || !bold.IsValid() {
		t.Fatalf("collection members invalid: %v, %v", regular.Err(), bold.Err())
	}
	wantBold, _ := Resolve(gobold.TTF, 0).PostScriptName()
	if got, _ := bold.PostScriptName(); got != wantBold {
		t.Errorf("member 1 PostScriptName() = %q, want %q", got, wantBold)
	}
	if got, want := regular.GlyphCount(), Resolve(goregular.TTF, 0).GlyphCount(); got != want {
		t.Errorf("member 0 GlyphCount() = %d, want %d", got, want)
	}
}

func TestResolveTolerantOfMissingTables(t *testing.T) {
	f := testFont()
	f.Omit = []string{"cmap"}
	ft := Resolve(f.Bytes(), 0)
	if !ft.IsValid() {
		t.Fatalf("font without cmap is invalid: %v", ft.Err())
	}
	if got := ft.FamilyName(); got != "Test Sans" {
		t.Errorf("FamilyName() = %q, want %q", got, "Test Sans")
	}
	if got := ft.GlyphForCodepoint('A'); got != 0 {
		t.Errorf("GlyphForCodepoint('A') = %d, want 0", got)
	}
	if got := ft.GlyphCount(); got != 5 {
		t.Errorf("GlyphCount() = %d, want 5", got)
	}
	if got := ft.TableTags(); slices.Contains(got, MustNewTag("cmap")) {
		t.Errorf("TableTags() = %v lists a cmap the font does not have", got)
	}
}

func TestGlyphQueriesWithoutCmap(t *testing.T) {
	withCmap := resolve(t, testFont())
	fnt := testFont()
	fnt.Omit = []string{"cmap"}
	f := resolve(t, fnt)

	var want, got Path
	if !withCmap.Outline(gidSquare, 100, NormalizedCoords{}, &want) {
		t.Fatal("Outline() with cmap = false")
	}
	if !f.Outline(gidSquare, 100, NormalizedCoords{}, &got) {
		t.Fatal("Outline() without cmap = false")
	}
	if got.String() != want.String() {
		t.Errorf("Outline() without cmap = %s, want %s", got.String(), want.String())
	}

	if got, want := f.AdvanceWidth(100, NormalizedCoords{}, gidSquare), withCmap.AdvanceWidth(100, NormalizedCoords{}, gidSquare); got != want {
		t.Errorf("AdvanceWidth() without cmap = %v, want %v", got, want)
	}
	if diff := cmp.Diff(withCmap.Metrics(100, NormalizedCoords{}), f.Metrics(100, NormalizedCoords{}), approxMetrics); diff != "" {
		t.Errorf("Metrics() depend on cmap (-with +without):\n%s", diff)
	}
}

func TestGlyphCountAndUnitsPerEm(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"goregular", goregular.TTF},
		{"gobold", gobold.TTF},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := sfnt.Parse(tt.data)
			if err != nil {
				t.Fatalf("sfnt.Parse: %v", err)
			}
			f := Resolve(tt.data, 0)
			if got, want := int(f.GlyphCount()), ref.NumGlyphs(); got != want {
				t.Errorf("GlyphCount() = %d, want %d", got, want)
			}
			if got, want := int32(f.UnitsPerEm()), int32(ref.UnitsPerEm()); got != want {
				t.Errorf("UnitsPerEm() = %d, want %d", got, want)
			}
		})
	}

	ft := resolve(t, testFont())
	if got := ft.UnitsPerEm(); got != 1000 {
		t.Errorf("UnitsPerEm() = %d, want 1000", got)
	}
}

func TestUnitsPerEmReportedRaw(t *testing.T) {
	f := testFont()
	f.UnitsPerEm = 7
	ft := resolve(t, f)
	if got := ft.UnitsPerEm(); got != 7 {
		t.Errorf("UnitsPerEm() = %d, want 7", got)
	}
}

func TestGlyphForCodepoint(t *testing.T) {
	ref, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("sfnt.Parse: %v", err)
	}
	f := Resolve(goregular.TTF, 0)

	var buf sfnt.Buffer
	for _, r := range "Aa0 éß€" {
		want, err := ref.GlyphIndex(&buf, r)
		if err != nil {
			t.Fatalf("sfnt GlyphIndex(%q): %v", r, err)
		}
		if got := f.GlyphForCodepoint(r); uint16(got) != uint16(want) {
			t.Errorf("GlyphForCodepoint(%q) = %d, want %d", r, got, want)
		}
	}

	for _, r := range []rune{0xE000, 0x10FFFF, -1, 0x7FFFFFFF} {
		if got := f.GlyphForCodepoint(r); got != 0 {
			t.Errorf("GlyphForCodepoint(%#x) = %d, want 0", r, got)
		}
	}

	ft := resolve(t, testFont())
	if got := ft.GlyphForCodepoint('Q'); got != gidArch {
		t.Errorf("GlyphForCodepoint('Q') = %d, want %d", got, gidArch)
	}
	if got := ft.GlyphForCodepoint('Z'); got != 0 {
		t.Errorf("GlyphForCodepoint('Z') = %d, want 0", got)
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in      string
		want    Tag
		wantErr bool
	}{
		{"glyf", MustNewTag("glyf"), false},
		{"CFF", MustNewTag("CFF "), false},
		{"OS/2", NewTag('O', 'S', '/', '2'), false},
		{"", 0, true},
		{"toolong", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveConcurrent(t *testing.T) {
	f := Resolve(goregular.TTF, 0)
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			var p Path
			for r := 'A'; r <= 'Z'; r++ {
				p.Reset()
				f.Outline(f.GlyphForCodepoint(r), 24, NormalizedCoords{}, &p)
				_ = f.AdvanceWidth(24, NormalizedCoords{}, f.GlyphForCodepoint(r))
			}
			_ = f.Metrics(24, NormalizedCoords{})
			_ = f.FamilyName()
		}()
	}
	for range 8 {
		<-done
	}
}
