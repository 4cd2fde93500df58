package typeface

import (
	"math"
	"testing"

	"github.com/gogpu/typeface/internal/fonttest"
)

// Glyph indices of testFont.
const (
	gidNotdef GlyphID = iota
	gidSquare
	gidArch
	gidSpace
	gidTwoBoxes
)

// testFont returns a small static font:
//
//	0 notdef   a box
//	1 'A'      a square with its left edge at x=100
//	2 'Q'      a single quadratic arch
//	3 ' '      empty
//	4 'B'      two boxes
func testFont() *fonttest.Font {
	box := []fonttest.Point{fonttest.On(50, 0), fonttest.On(50, 600), fonttest.On(450, 600), fonttest.On(450, 0)}
	return &fonttest.Font{
		UnitsPerEm: 1000,
		Glyphs: []fonttest.Glyph{
			{Contours: [][]fonttest.Point{box}, Advance: 500},
			{Contours: [][]fonttest.Point{{
				fonttest.On(100, 0), fonttest.On(100, 700), fonttest.On(600, 700), fonttest.On(600, 0),
			}}, Advance: 700},
			{Contours: [][]fonttest.Point{{
				fonttest.On(0, 0), fonttest.Off(250, 500), fonttest.On(500, 0),
			}}, Advance: 550},
			{Advance: 250},
			{Contours: [][]fonttest.Point{
				{fonttest.On(0, 0), fonttest.On(0, 100), fonttest.On(100, 100), fonttest.On(100, 0)},
				{fonttest.On(200, 0), fonttest.On(200, 100), fonttest.On(300, 100), fonttest.On(300, 0)},
			}, Advance: 900},
		},
		CMap: map[rune]uint16{
			'A': uint16(gidSquare),
			'Q': uint16(gidArch),
			' ': uint16(gidSpace),
			'B': uint16(gidTwoBoxes),
		},
		Ascender:  800,
		Descender: -200,
		LineGap:   90,
		Names: []fonttest.Name{
			fonttest.WindowsName(uint16(NameFamily), 0x0409, "Test Sans"),
			fonttest.WindowsName(uint16(NamePostScript), 0x0409, "TestSans-Regular"),
		},
		OS2: &fonttest.OS2{
			Version:       4,
			AvgCharWidth:  520,
			TypoAscender:  750,
			TypoDescender: -250,
			TypoLineGap:   100,
			XHeight:       500,
			CapHeight:     700,
		},
	}
}

// variableFont returns testFont with a weight and a width axis.
func variableFont() *fonttest.Font {
	f := testFont()
	f.Axes = []fonttest.Axis{
		{Tag: "wght", Min: 100, Default: 400, Max: 900},
		{Tag: "wdth", Min: 50, Default: 100, Max: 200},
	}
	return f
}

func resolve(t *testing.T, f *fonttest.Font) *Font {
	t.Helper()
	ft := Resolve(f.Bytes(), 0)
	if !ft.IsValid() {
		t.Fatalf("Resolve() of synthetic font is invalid: %v", ft.Err())
	}
	return ft
}

func approxEqual(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

// event is one recorded PathRecorder call.
type event struct {
	Op   string
	Args []float32
}

// eventRecorder records PathRecorder calls verbatim.
type eventRecorder struct {
	events []event
}

func (r *eventRecorder) MoveTo(x, y float32) {
	r.events = append(r.events, event{"move", []float32{x, y}})
}

func (r *eventRecorder) LineTo(x, y float32) {
	r.events = append(r.events, event{"line", []float32{x, y}})
}

func (r *eventRecorder) QuadTo(cx, cy, x, y float32) {
	r.events = append(r.events, event{"quad", []float32{cx, cy, x, y}})
}

func (r *eventRecorder) CurveTo(cx0, cy0, cx1, cy1, x, y float32) {
	r.events = append(r.events, event{"curve", []float32{cx0, cy0, cx1, cy1, x, y}})
}

func (r *eventRecorder) Close() {
	r.events = append(r.events, event{Op: "close"})
}
