package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/asakaida/permcsv/internal/entities"
	"github.com/asakaida/permcsv/internal/infrastructure/logger"
)

// EnvPrefix is prepended to every environment variable (e.g., PERMCSV_DELIMITER)
const EnvPrefix = "PERMCSV"

// Configuration keys
const (
	KeyDelimiter = "delimiter"
	KeyQuote     = "quote"
	KeyAppend    = "append"
	KeySchema    = "schema"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Config represents the application configuration
type Config struct {
	Output OutputConfig
	Schema SchemaConfig
	Log    LogConfig
}

// OutputConfig represents the delimited output settings
type OutputConfig struct {
	Delimiter rune
	Quote     rune
	Append    bool // Append to an existing file instead of replacing it
}

// SchemaConfig represents the column layout
type SchemaConfig struct {
	Path   string               // YAML file the fields were read from, empty for the default schema
	Fields entities.FieldSchema // Columns, id column first
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// InitConfig initializes v: defaults, PERMCSV_* environment variables,
// the optional config file and the command line flags, in increasing
// order of precedence
func InitConfig(v *viper.Viper, flags *pflag.FlagSet, configFile string) error {
	v.SetDefault(KeyDelimiter, ",")
	v.SetDefault(KeyQuote, `"`)
	v.SetDefault(KeyAppend, false)
	v.SetDefault(KeySchema, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logger.FormatConsole)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := resolveSchemaPath(v); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Environment variables take precedence over defaults and config file
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindings := map[string]string{
			KeyDelimiter: "delimiter",
			KeyQuote:     "quote",
			KeyAppend:    "append",
			KeySchema:    "schema",
			KeyLogLevel:  "log-level",
			KeyLogFormat: "log-format",
		}
		for key, name := range bindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	return nil
}

// resolveSchemaPath rewrites a relative schema path read from the config
// file so it is relative to the directory holding that file.
// Must run before environment variables and flags are attached.
func resolveSchemaPath(v *viper.Viper) error {
	if !v.InConfig(KeySchema) {
		return nil
	}
	path := v.GetString(KeySchema)
	if path == "" || filepath.IsAbs(path) {
		return nil
	}
	resolved := filepath.Join(filepath.Dir(v.ConfigFileUsed()), path)
	return v.MergeConfigMap(map[string]any{KeySchema: resolved})
}

// Load loads and validates configuration from v.
// The field schema file, if configured, is read from fs.
func Load(v *viper.Viper, fs afero.Fs) (*Config, error) {
	delimiter, err := parseChar(KeyDelimiter, v.GetString(KeyDelimiter))
	if err != nil {
		return nil, err
	}
	quote, err := parseChar(KeyQuote, v.GetString(KeyQuote))
	if err != nil {
		return nil, err
	}
	if delimiter == quote {
		return nil, fmt.Errorf("delimiter and quote must differ, both are %q", delimiter)
	}

	if _, err := logger.ParseLevel(v.GetString(KeyLogLevel)); err != nil {
		return nil, err
	}
	format := strings.ToLower(v.GetString(KeyLogFormat))
	if format != logger.FormatConsole && format != logger.FormatJSON {
		return nil, fmt.Errorf("unsupported log format %q: use %q or %q", format, logger.FormatConsole, logger.FormatJSON)
	}

	schemaPath := v.GetString(KeySchema)
	fields, err := LoadFieldSchema(fs, schemaPath)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Output: OutputConfig{
			Delimiter: delimiter,
			Quote:     quote,
			Append:    v.GetBool(KeyAppend),
		},
		Schema: SchemaConfig{
			Path:   schemaPath,
			Fields: fields,
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: format,
		},
	}

	return config, nil
}

// parseChar validates a single-character option. "tab" and `\t` mean a tab.
func parseChar(key, value string) (rune, error) {
	switch value {
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%s cannot be %q", key, value)
	}
	return r, nil
}
