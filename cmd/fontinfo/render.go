package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/gogpu/typeface"
)

// glyphPadding is the margin around a rendered glyph, in pixels.
const glyphPadding = 2

// rasterRecorder feeds outlines into a vector.Rasterizer, translated by
// (dx, dy).
type rasterRecorder struct {
	z      *vector.Rasterizer
	dx, dy float32
}

func (r *rasterRecorder) MoveTo(x, y float32) { r.z.MoveTo(x+r.dx, y+r.dy) }
func (r *rasterRecorder) LineTo(x, y float32) { r.z.LineTo(x+r.dx, y+r.dy) }

func (r *rasterRecorder) QuadTo(cx, cy, x, y float32) {
	r.z.QuadTo(cx+r.dx, cy+r.dy, x+r.dx, y+r.dy)
}

func (r *rasterRecorder) CurveTo(cx0, cy0, cx1, cy1, x, y float32) {
	r.z.CubeTo(cx0+r.dx, cy0+r.dy, cx1+r.dx, cy1+r.dy, x+r.dx, y+r.dy)
}

func (r *rasterRecorder) Close() { r.z.ClosePath() }

// rasterize renders the glyph for ch into an alpha mask sized to its
// control box.
func rasterize(f *typeface.Font, ch rune, size float32, coords typeface.NormalizedCoords) (*image.Alpha, error) {
	gid := f.GlyphForCodepoint(ch)
	var p typeface.Path
	if !f.Outline(gid, size, coords, &p) {
		return nil, fmt.Errorf("glyph %d (%q) has no outline", gid, ch)
	}

	b := p.Bounds()
	w := int(math.Ceil(float64(b.Max.X-b.Min.X))) + 2*glyphPadding
	h := int(math.Ceil(float64(b.Max.Y-b.Min.Y))) + 2*glyphPadding

	z := vector.NewRasterizer(w, h)
	p.Replay(&rasterRecorder{
		z:  z,
		dx: glyphPadding - b.Min.X,
		dy: glyphPadding - b.Min.Y,
	})

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst, nil
}

func renderGlyph(path string, f *typeface.Font, ch rune, size float32, coords typeface.NormalizedCoords) (err error) {
	img, err := rasterize(f, ch, size, coords)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(out, img)
}
