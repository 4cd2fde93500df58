// Package typeface adapts raw font binaries into typed, queryable fonts
// for a rendering engine.
//
// # Overview
//
// A font arrives as an opaque byte slice that may hold a single TrueType or
// OpenType font, or a collection of them. [Resolve] locates the table
// directory of one font and returns a [*Font] handle. The handle is either
// valid or uniformly invalid: every query on an invalid handle returns its
// documented zero value instead of failing.
//
// # Quick Start
//
//	import "github.com/gogpu/typeface"
//
//	f := typeface.Resolve(data, 0)
//	if !f.IsValid() {
//	    log.Printf("bad font: %v", f.Err())
//	}
//
//	// Pick a variable instance
//	coords := f.ResolveCoordinates(typeface.DesignCoordinate{
//	    Axis:  typeface.MustNewTag("wght"),
//	    Value: 700,
//	})
//
//	// Record the outline of 'A' at 32px
//	var p typeface.Path
//	f.Outline(f.GlyphForCodepoint('A'), 32, coords, &p)
//
//	// Font-wide metrics at the same size
//	m := f.Metrics(32, coords)
//
// # Coordinate System
//
// Fonts are designed in a Y-up space. Outlines are emitted to a
// [PathRecorder] in the Y-down space of the destination canvas: the Y of
// every end point and quadratic control point is negated. For cubic
// segments only the first control point is negated, matching the
// destination drawing API.
//
// [Metrics] keep the font's own sign convention: Top and Ascent are
// positive, Bottom and Descent are usually negative.
//
// # Parsing
//
// Binary parsing is delegated to github.com/go-text/typesetting. The data
// slice is borrowed, never copied: it must not be modified while a handle
// derived from it is in use.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to receive debug
// diagnostics about rejected fonts and failed outline extraction.
package typeface

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
