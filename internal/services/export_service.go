package services

import (
	"context"
	"errors"

	"github.com/asakaida/permcsv/internal/entities"
	"github.com/asakaida/permcsv/internal/infrastructure/logger"
	"github.com/asakaida/permcsv/internal/infrastructure/metrics"
	"github.com/asakaida/permcsv/internal/services/loader"
	"github.com/asakaida/permcsv/internal/services/transformer"
	"github.com/asakaida/permcsv/internal/services/writer"
)

// ExportServiceInterface defines the interface for permission matrix exports
type ExportServiceInterface interface {
	Export(ctx context.Context, inputPath string, outputPath string) (*ExportResult, error)
}

// ExportResult summarizes one export
type ExportResult struct {
	Entities int                 // Entities read from the input
	Rows     int                 // Data rows written
	Appended bool                // Rows were appended below an existing header
	Dropped  map[string][]string // Permissions per entity that no column matched
}

// ExportService runs the load, transform and write pipeline
type ExportService struct {
	loader  *loader.Loader
	writer  *writer.Writer
	schema  entities.FieldSchema
	metrics *metrics.Collector
	log     *logger.Logger
}

var _ ExportServiceInterface = (*ExportService)(nil)

// NewExportService creates a new ExportService
func NewExportService(
	l *loader.Loader,
	w *writer.Writer,
	schema entities.FieldSchema,
	collector *metrics.Collector,
	log *logger.Logger,
) *ExportService {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExportService{
		loader:  l,
		writer:  w,
		schema:  schema,
		metrics: collector,
		log:     log.WithComponent("export"),
	}
}

// Export converts the document at inputPath into a matrix at outputPath.
// Load failures wrap loader.ErrDocumentUnavailable and write failures wrap
// writer.ErrWriteFailed.
func (s *ExportService) Export(ctx context.Context, inputPath string, outputPath string) (*ExportResult, error) {
	log := s.log.WithContext(ctx)

	var doc *entities.PermissionDocument
	err := metrics.Track(s.metrics, metrics.StageLoad, func() error {
		var err error
		doc, err = s.loader.Load(ctx, inputPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddEntities(doc.Len())

	dropped := transformer.UnknownPermissions(doc, s.schema)
	for _, id := range doc.IDs() {
		perms, ok := dropped[id]
		if !ok {
			continue
		}
		s.metrics.AddDroppedPermissions(len(perms))
		log.Debugf("permissions not in schema", map[string]interface{}{
			"entity":      id,
			"permissions": perms,
		})
	}

	var written *writer.Result
	err = metrics.Track(s.metrics, metrics.StageWrite, func() error {
		var err error
		written, err = s.writer.Write(ctx, outputPath, s.schema, doc)
		return err
	})
	if err != nil {
		fields := map[string]interface{}{"path": outputPath}
		var writeErr *writer.WriteError
		if errors.As(err, &writeErr) {
			fields["op"] = writeErr.Op
		}
		log.WithError(err).Errorf("could not write output", fields)
		return nil, err
	}
	s.metrics.AddRows(written.Rows)

	fields := s.metrics.Snapshot().Fields()
	fields["input"] = inputPath
	fields["output"] = outputPath
	fields["appended"] = !written.HeaderWritten
	log.Infof("export complete", fields)

	return &ExportResult{
		Entities: doc.Len(),
		Rows:     written.Rows,
		Appended: !written.HeaderWritten,
		Dropped:  dropped,
	}, nil
}
