// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every parse failure in this package,
// including malformed coordinates and malformed JSON documents.
var ErrParse = errors.New("parse error")

type (
	// ParseError is returned when a manifest document cannot be decoded.
	// It wraps ErrParse for errors.Is() compatibility.
	ParseError struct {
		// Document names what was being parsed (e.g. "version manifest index").
		Document string
		// Source identifies where the bytes came from, usually a file path or URL.
		Source string
		Cause  error
	}

	// CoordinateParseError is returned when a library coordinate does not split
	// into exactly three non-empty colon-delimited segments.
	CoordinateParseError struct {
		Coordinate string
		Segments   int
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s (%s): %v", e.Document, e.Source, e.Cause)
	}
	return fmt.Sprintf("parse %s: %v", e.Document, e.Cause)
}

// Unwrap returns ErrParse so errors.Is(err, ErrParse) holds. The decoder error is
// reachable through Cause.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Cause} }

// Error implements the error interface.
func (e *CoordinateParseError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: expected group:artifact:version, got %d segment(s)", e.Coordinate, e.Segments)
}

// Unwrap returns ErrParse for errors.Is() compatibility.
func (e *CoordinateParseError) Unwrap() error { return ErrParse }
