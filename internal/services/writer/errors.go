package writer

import (
	"errors"
	"fmt"
)

// ErrWriteFailed is the common root of every write failure
var ErrWriteFailed = errors.New("could not write permission matrix")

// ErrIsDirectory is reported when the destination path names a directory
var ErrIsDirectory = errors.New("destination is a directory")

// Write operations reported in WriteError.Op
const (
	OpStat   = "stat"
	OpRemove = "remove"
	OpCreate = "create"
	OpAppend = "append"
)

// WriteError reports a failure on the destination file.
// A failed append may leave rows already written in place.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}
