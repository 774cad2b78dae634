package writer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/asakaida/permcsv/internal/entities"
	"github.com/asakaida/permcsv/internal/infrastructure/logger"
	"github.com/asakaida/permcsv/internal/services/transformer"
)

// Options controls the delimited output
type Options struct {
	Delimiter rune // Field separator (default ',')
	Quote     rune // Quote character (default '"')
	Overwrite bool // Replace an existing file instead of appending to it
}

// DefaultOptions returns comma-separated, double-quoted, overwrite mode
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
		Overwrite: true,
	}
}

// Result describes a completed write
type Result struct {
	Rows          int  // Data rows written
	HeaderWritten bool // False when rows were appended to an existing file
}

// Writer writes permission matrices to delimited text files
type Writer struct {
	fs   afero.Fs
	opts Options
	log  *logger.Logger
}

// NewWriter creates a new Writer on fs
func NewWriter(fs afero.Fs, opts Options, log *logger.Logger) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{
		fs:   fs,
		opts: opts,
		log:  log.WithComponent("writer"),
	}
}

// Write emits the header (when the destination is new) and one row per entity.
//
// Destination states:
//   - absent: created and given a header row
//   - present with Overwrite: removed, then handled as absent
//   - present without Overwrite: rows are appended, header untouched
//   - a directory: rejected with ErrIsDirectory
//
// The header of an existing file is not compared with schema.
func (w *Writer) Write(ctx context.Context, path string, schema entities.FieldSchema, doc *entities.PermissionDocument) (*Result, error) {
	log := w.log.WithContext(ctx)

	exists, err := w.destinationExists(path)
	if err != nil {
		return nil, err
	}

	switch {
	case exists && w.opts.Overwrite:
		if err := w.fs.Remove(path); err != nil {
			return nil, &WriteError{Op: OpRemove, Path: path, Err: err}
		}
		log.Debugf("removed existing output", map[string]interface{}{"path": path})
		exists = false
	case exists:
		log.WithField("path", path).Debug("appending below existing header")
	}

	result := &Result{}
	if !exists {
		if err := w.createWithHeader(path, schema); err != nil {
			return nil, err
		}
		result.HeaderWritten = true
	}

	rows, err := w.appendRows(path, schema, doc)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	log.Debugf("output written", map[string]interface{}{
		"path":   path,
		"rows":   rows,
		"header": result.HeaderWritten,
	})
	return result, nil
}

// destinationExists reports whether path is present. A directory is never a
// valid destination.
func (w *Writer) destinationExists(path string) (bool, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &WriteError{Op: OpStat, Path: path, Err: err}
	}
	if info.IsDir() {
		return false, &WriteError{Op: OpStat, Path: path, Err: ErrIsDirectory}
	}
	return true, nil
}

// createWithHeader creates path exclusively and writes the header row
func (w *Writer) createWithHeader(path string, schema entities.FieldSchema) (err error) {
	f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &WriteError{Op: OpCreate, Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Op: OpCreate, Path: path, Err: cerr}
		}
	}()

	enc := newRowEncoder(f, w.opts.Delimiter, w.opts.Quote)
	if err := enc.Write(schema.Header()); err != nil {
		return &WriteError{Op: OpCreate, Path: path, Err: err}
	}
	enc.Flush()
	if err := enc.Error(); err != nil {
		return &WriteError{Op: OpCreate, Path: path, Err: err}
	}
	return nil
}

// appendRows appends one row per entity to path
func (w *Writer) appendRows(path string, schema entities.FieldSchema, doc *entities.PermissionDocument) (n int, err error) {
	f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, &WriteError{Op: OpAppend, Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Op: OpAppend, Path: path, Err: cerr}
		}
	}()

	enc := newRowEncoder(f, w.opts.Delimiter, w.opts.Quote)
	for row := range transformer.Rows(doc, schema) {
		if err := enc.Write(row.Fields()); err != nil {
			return n, &WriteError{Op: OpAppend, Path: path, Err: fmt.Errorf("entity %q: %w", row.EntityID, err)}
		}
		n++
	}
	enc.Flush()
	if err := enc.Error(); err != nil {
		return n, &WriteError{Op: OpAppend, Path: path, Err: err}
	}
	return n, nil
}
