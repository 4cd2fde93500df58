package typeface

import (
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
)

// PathRecorder receives glyph outlines in the Y-down space of the
// destination canvas. Calls arrive synchronously and in contour order.
type PathRecorder interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(cx, cy, x, y float32)
	CurveTo(cx0, cy0, cx1, cy1, x, y float32)
	Close()
}

// Outline emits the outline of glyph gid, scaled to size and instanced at
// coords, to r.
//
// Every contour starts with MoveTo and ends with Close. The Y coordinate of
// each end point and quadratic control point is negated. For cubic
// segments only the first control point is negated; the second is passed
// through as stored.
//
// Outline returns false, without calling r, when the Font is invalid, gid
// is out of range, or the glyph has no vector outline. An empty glyph
// returns true without any call. r is not retained.
func (f *Font) Outline(gid GlyphID, size float32, coords NormalizedCoords, r PathRecorder) bool {
	ft := f.parsed()
	if ft == nil || r == nil {
		return false
	}
	if uint32(gid) >= uint32(f.numGlyphs) {
		return false
	}

	segments, err := f.segments(ft, gid, coords)
	if err != nil {
		Logger().Debug("typeface: outline unavailable", "glyph", gid, "err", err)
		return false
	}

	emitSegments(r, segments, f.scale(size))
	return true
}

// segments loads the outline of gid in font units, Y up.
func (f *Font) segments(ft *font.Font, gid GlyphID, coords NormalizedCoords) ([]ot.Segment, error) {
	var out []ot.Segment
	err := guard(func() error {
		face := font.NewFace(ft)
		face.SetCoords(coords.coords)
		outline, ok := face.GlyphDataOutline(uint16(gid))
		if !ok {
			return ErrNoOutline
		}
		out = outline.Segments
		return nil
	})
	return out, err
}

// emitSegments forwards segments to r, converting to Y-down output units.
func emitSegments(r PathRecorder, segments []ot.Segment, scale float32) {
	open := false
	for _, s := range segments {
		a := s.Args
		switch s.Op {
		case ot.SegmentOpMoveTo:
			if open {
				r.Close()
			}
			r.MoveTo(a[0].X*scale, -a[0].Y*scale)
			open = true
		case ot.SegmentOpLineTo:
			r.LineTo(a[0].X*scale, -a[0].Y*scale)
		case ot.SegmentOpQuadTo:
			r.QuadTo(a[0].X*scale, -a[0].Y*scale, a[1].X*scale, -a[1].Y*scale)
		case ot.SegmentOpCubeTo:
			r.CurveTo(a[0].X*scale, -a[0].Y*scale, a[1].X*scale, a[1].Y*scale, a[2].X*scale, -a[2].Y*scale)
		}
	}
	if open {
		r.Close()
	}
}
