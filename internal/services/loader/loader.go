package loader

import (
	"context"
	"errors"

	"github.com/spf13/afero"

	"github.com/asakaida/permcsv/internal/entities"
	"github.com/asakaida/permcsv/internal/infrastructure/logger"
)

// Loader reads permission documents from files
type Loader struct {
	fs  afero.Fs
	log *logger.Logger
}

// NewLoader creates a new Loader reading from fs
func NewLoader(fs afero.Fs, log *logger.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		fs:  fs,
		log: log.WithComponent("loader"),
	}
}

// Load reads and validates the document at path.
// Every failure satisfies errors.Is(err, ErrDocumentUnavailable) and is
// logged with a reason field of read, parse or shape.
func (l *Loader) Load(ctx context.Context, path string) (*entities.PermissionDocument, error) {
	log := l.log.WithContext(ctx)

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		err = &ReadError{Path: path, Err: err}
		log.WithError(err).Errorf("could not read input", map[string]interface{}{
			"path":   path,
			"reason": Reason(err),
		})
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			log = log.WithField("line", parseErr.Line).WithField("column", parseErr.Column)
		}
		log.Errorf("could not decode input", map[string]interface{}{
			"path":   path,
			"reason": Reason(err),
		})
		return nil, err
	}

	log.Debugf("document loaded", map[string]interface{}{
		"path":     path,
		"entities": doc.Len(),
	})
	return doc, nil
}
