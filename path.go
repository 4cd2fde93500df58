package typeface

import (
	"math"
	"strconv"
	"strings"
)

// Point is a position in output units, Y down.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// PathElement is a single element of a recorded [Path].
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current contour.
type Close struct{}

func (Close) isPathElement() {}

// Path is an in-memory [PathRecorder]. The zero value is an empty path
// ready to use.
type Path struct {
	elements []PathElement
}

var _ PathRecorder = (*Path)(nil)

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float32) {
	p.elements = append(p.elements, MoveTo{Point: Pt(x, y)})
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float32) {
	p.elements = append(p.elements, LineTo{Point: Pt(x, y)})
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float32) {
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
}

// CurveTo draws a cubic Bezier curve.
func (p *Path) CurveTo(cx0, cy0, cx1, cy1, x, y float32) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(cx0, cy0),
		Control2: Pt(cx1, cy1),
		Point:    Pt(x, y),
	})
}

// Close closes the current contour.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
}

// Reset removes all elements, keeping the allocated storage.
func (p *Path) Reset() {
	p.elements = p.elements[:0]
}

// Elements returns the recorded elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Len returns the number of recorded elements.
func (p *Path) Len() int {
	return len(p.elements)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Bounds returns the control box of the path: the bounds of every point,
// control points included. An empty path has zero bounds.
func (p *Path) Bounds() Rect {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	add := func(pt Point) {
		minX, minY = min(minX, pt.X), min(minY, pt.Y)
		maxX, maxY = max(maxX, pt.X), max(maxY, pt.Y)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	if minX > maxX {
		return Rect{}
	}
	return Rect{Min: Pt(minX, minY), Max: Pt(maxX, maxY)}
}

// Replay sends the recorded elements to r in order.
func (p *Path) Replay(r PathRecorder) {
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			r.MoveTo(e.Point.X, e.Point.Y)
		case LineTo:
			r.LineTo(e.Point.X, e.Point.Y)
		case QuadTo:
			r.QuadTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case CubicTo:
			r.CurveTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case Close:
			r.Close()
		}
	}
}

// String returns the path as SVG path data, for example "M0 0L10 0Z".
func (p *Path) String() string {
	var sb strings.Builder
	pt := func(pts ...Point) {
		for i, q := range pts {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatFloat(q.X))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(q.Y))
		}
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			sb.WriteByte('M')
			pt(e.Point)
		case LineTo:
			sb.WriteByte('L')
			pt(e.Point)
		case QuadTo:
			sb.WriteByte('Q')
			pt(e.Control, e.Point)
		case CubicTo:
			sb.WriteByte('C')
			pt(e.Control1, e.Control2, e.Point)
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func formatFloat(v float32) string {
	if v == 0 {
		// Avoid "-0" for negated zero coordinates.
		v = 0
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
