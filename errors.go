package typeface

import (
	"errors"
	"fmt"
)

// Sentinel errors reported through [Font.Err].
var (
	// ErrEmptyFontData is reported when the data slice is empty.
	ErrEmptyFontData = errors.New("typeface: empty font data")

	// ErrInvalidFont is reported when no table directory could be located.
	ErrInvalidFont = errors.New("typeface: unrecognized font data")

	// ErrIndexOutOfRange is reported when a collection has no member at
	// the requested index.
	ErrIndexOutOfRange = errors.New("typeface: collection index out of range")

	// ErrNoOutline is reported when a glyph has no vector outline.
	ErrNoOutline = errors.New("typeface: no outline for glyph")
)

// FontError describes why a font could not be resolved.
type FontError struct {
	// Index is the requested collection index.
	Index uint32

	// Err is the underlying cause. It wraps one of the sentinel errors.
	Err error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("typeface: font %d: %v", e.Index, e.Err)
}

func (e *FontError) Unwrap() error {
	return e.Err
}

// panicError carries a panic recovered from the parser.
type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("parser panic: %v", e.value)
}

// guard runs fn and converts a panic into an error. The underlying parser
// indexes raw offsets from the file and is not hardened against every
// malformed input.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return fn()
}
