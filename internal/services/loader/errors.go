package loader

import (
	"errors"
	"fmt"
)

// ErrDocumentUnavailable is the common root of every load failure
var ErrDocumentUnavailable = errors.New("could not obtain permission document")

// expectedShape is shown next to the offending input in shape diagnostics
const expectedShape = `{"student1": [
        "view_grades",
        ...
    ]
...
}`

// ReadError reports that the source could not be opened or read
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrDocumentUnavailable, e.Err}
}

// ParseError reports text that is not well-formed JSON
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid JSON: %v", e.Err)
	}
	return fmt.Sprintf("invalid JSON at line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrDocumentUnavailable, e.Err}
}

// ShapeError reports well-formed JSON that is not a mapping of
// entity ids to lists of permission names
type ShapeError struct {
	Reason   string // What did not match (e.g., `entity "a": element 1 is number, want string`)
	Document string // Compact rendering of the offending input
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("JSON structure is invalid (%s), should be in the form of\n%s\nbut is\n%s",
		e.Reason, expectedShape, e.Document)
}

func (e *ShapeError) Unwrap() error {
	return ErrDocumentUnavailable
}

// Reason returns a short label for the failure kind, used in log fields
func Reason(err error) string {
	var readErr *ReadError
	var parseErr *ParseError
	var shapeErr *ShapeError

	switch {
	case errors.As(err, &readErr):
		return "read"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &shapeErr):
		return "shape"
	default:
		return "unknown"
	}
}
