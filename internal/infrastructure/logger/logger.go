package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey string

const runIDKey ctxKey = "runID"

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// Logger wraps zerolog with the field conventions used by permcsv
type Logger struct {
	logger zerolog.Logger
}

// New creates a logger writing to w at the given level.
// format is either "console" (human readable) or "json".
func New(w io.Writer, level string, format string) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported log format %q: use %q or %q", format, FormatConsole, FormatJSON)
	}

	l := zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "permcsv").
		Logger()

	return &Logger{logger: l}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// ParseLevel converts a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// WithContext returns a logger carrying the run id stored in ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		return l
	}
	return &Logger{logger: l.logger.With().Str("run_id", runID).Logger()}
}

// WithComponent tags entries with the pipeline stage that produced them
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", component).Logger()}
}

// WithError adds an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

// WithField adds a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs at debug level with structured fields
func (l *Logger) Debugf(msg string, fields map[string]interface{}) {
	withFields(l.logger.Debug(), fields).Msg(msg)
}

// Infof logs at info level with structured fields
func (l *Logger) Infof(msg string, fields map[string]interface{}) {
	withFields(l.logger.Info(), fields).Msg(msg)
}

// Errorf logs at error level with structured fields
func (l *Logger) Errorf(msg string, fields map[string]interface{}) {
	withFields(l.logger.Error(), fields).Msg(msg)
}

func withFields(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

// NewRunID returns a fresh identifier for one invocation
func NewRunID() string {
	return uuid.NewString()
}

func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	value, ok := ctx.Value(runIDKey).(string)
	if !ok {
		return ""
	}

	return value
}
