// Package cli implements the permcsv command line.
//
// Usage:
//
//	permcsv [flags] <input>.json <output>.csv
//	permcsv [flags] -- <input>.json <output>.csv
//
// Paths starting with "-" must follow "--". Asking for help prints the
// usage and exits like any other wrong invocation.
//
// Exit codes:
//
//	0  success
//	1  wrong number of arguments, invalid option or help requested
//	2  input could not be read or validated
//	3  output could not be written
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asakaida/permcsv/internal/infrastructure/config"
	"github.com/asakaida/permcsv/internal/infrastructure/logger"
	"github.com/asakaida/permcsv/internal/infrastructure/metrics"
	"github.com/asakaida/permcsv/internal/services"
	"github.com/asakaida/permcsv/internal/services/loader"
	"github.com/asakaida/permcsv/internal/services/writer"
)

// Exit codes
const (
	ExitOK     = 0
	ExitUsage  = 1
	ExitInput  = 2
	ExitOutput = 3
)

// exitError carries the exit code chosen by the command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Run executes the command with args (without the program name) and
// returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	return run(context.Background(), afero.NewOsFs(), args, stdout, stderr)
}

func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newRootCommand(fs, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		if helpRequested(cmd) {
			return ExitUsage
		}
		return ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// Argument and flag errors are rejected before any I/O
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprint(stderr, cmd.UsageString())
	return ExitUsage
}

// helpRequested reports whether cobra answered -h/--help instead of running
func helpRequested(cmd *cobra.Command) bool {
	help, err := cmd.Flags().GetBool("help")
	return err == nil && help
}

func newRootCommand(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "permcsv <input>.json <output>.csv",
		Short: "Convert a JSON permission mapping into a CSV permission matrix",
		Long: `Convert a JSON mapping of entity names to permission lists into a CSV matrix.

Each row holds an entity followed by one 0/1 indicator per column of the
field schema. Permissions that no column matches are ignored.

Paths starting with "-" must be given after "--".`,
		Example:       "  permcsv in.json out.csv\n  permcsv --append --delimiter ';' in.json out.csv\n  permcsv -- -in.json out.csv",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, fs, configFile, args[0], args[1], stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.String("delimiter", ",", "field delimiter (a single character, or \"tab\")")
	flags.String("quote", `"`, "quote character")
	flags.Bool("append", false, "append rows to an existing output file instead of replacing it")
	flags.String("schema", "", "YAML file listing the output columns (default: grades/classes schema)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", logger.FormatConsole, "log format (console, json)")
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	return cmd
}

func runExport(cmd *cobra.Command, fs afero.Fs, configFile, inputPath, outputPath string, stderr io.Writer) error {
	v := viper.New()
	if err := config.InitConfig(v, cmd.Flags(), configFile); err != nil {
		return usageError(cmd, stderr, err)
	}
	cfg, err := config.Load(v, fs)
	if err != nil {
		return usageError(cmd, stderr, err)
	}

	log, err := logger.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return usageError(cmd, stderr, err)
	}

	ctx := logger.ContextWithRunID(cmd.Context(), logger.NewRunID())
	opts := writer.Options{
		Delimiter: cfg.Output.Delimiter,
		Quote:     cfg.Output.Quote,
		Overwrite: !cfg.Output.Append,
	}
	service := services.NewExportService(
		loader.NewLoader(fs, log),
		writer.NewWriter(fs, opts, log),
		cfg.Schema.Fields,
		metrics.NewCollector(),
		log,
	)

	return export(ctx, service, inputPath, outputPath, stderr)
}

// export runs service and maps its failure to an exit code
func export(ctx context.Context, service services.ExportServiceInterface, inputPath, outputPath string, stderr io.Writer) error {
	_, err := service.Export(ctx, inputPath, outputPath)
	if err == nil {
		return nil
	}

	fmt.Fprintln(stderr, err)
	switch {
	case errors.Is(err, loader.ErrDocumentUnavailable):
		fmt.Fprintln(stderr, "Errors when reading JSON file.")
		return &exitError{code: ExitInput, err: err}
	default:
		fmt.Fprintln(stderr, "Errors when writing to CSV file.")
		return &exitError{code: ExitOutput, err: err}
	}
}

func usageError(cmd *cobra.Command, stderr io.Writer, err error) error {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprint(stderr, cmd.UsageString())
	return &exitError{code: ExitUsage, err: err}
}
