package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	LogFile string

	// Env supplies flag defaults. Filled from .env and the environment by
	// NewRootCommand.
	Env Env

	// IDs generates trace IDs for JSON responses (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs IDGenerator

	logger  *slog.Logger
	logFile io.Closer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the filterql CLI. Flag
// defaults are read from ./.env and FILTERQL_* variables.
func NewRootCommand() *cobra.Command {
	env, envErr := ReadEnv(".env")
	return newRootCommand(&RootOptions{Env: env}, envErr)
}

func newRootCommand(opts *RootOptions, envErr error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filterql",
		Short: "filterql - Lucene-style queries to backend filters",
		Long: `Parse Lucene-style text queries against a field schema into a typed
filter tree, and render that tree for Lucene, SQL, MongoDB, Elasticsearch,
Qdrant or Weaviate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.configureLogging(cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to a rotated file instead of stderr")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewDateMathCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configureLogging sets up the command logger: debug with --verbose, info
// otherwise, on stderr or a lumberjack-rotated file.
func (o *RootOptions) configureLogging(stderr io.Writer) {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}

	w := stderr
	if o.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   o.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		o.logFile = lj
		w = lj
	}

	o.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) close() error {
	if o.logFile == nil {
		return nil
	}
	err := o.logFile.Close()
	o.logFile = nil
	return err
}

// Logger returns the command logger, discarding when logging was never
// configured.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// formatter builds the output formatter of a command invocation, stamping a
// fresh trace ID.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	ids := o.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   ids.NewID(),
	}
}
