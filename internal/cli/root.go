package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/config"
	"github.com/roach88/splice/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // journal path; empty disables journaling

	// Config is loaded from the environment before any subcommand runs.
	Config config.Config

	logger *slog.Logger
}

// Logger returns the command logger, or a discarding one when the root
// command did not run (subcommands built directly in tests).
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return logging.Discard()
	}
	return o.logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the splice CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "splice",
		Short: "splice - timeline editing engine",
		Long: `A timeline editing engine for non-linear video projects.

Edits are plain commands (add, remove, cut, trim, play, seek) applied to a
single project. With --db every edit is journaled to SQLite and can be
replayed to verify the project digest.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid environment", err)
			}
			opts.Config = cfg
			if !cmd.Flags().Changed("db") {
				opts.Database = cfg.DB
			}

			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), cfg.LogFormat, level)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite journal (default $SPLICE_DB)")

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func newLogger(w io.Writer, format, level string) *slog.Logger {
	return logging.WithComponent(logging.New(w, format, level), "cli")
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
