package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/api"
	"github.com/roach88/splice/internal/editor"
	"github.com/roach88/splice/internal/journal"
	"github.com/roach88/splice/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one editor over HTTP",
		Long: `Start an HTTP API around a single editor. With --db every edit is
journaled and can be verified later with "splice replay".

Examples:
  splice serve
  splice serve --addr 127.0.0.1:9000 --db ./splice.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default $SPLICE_ADDR or 127.0.0.1:8080)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := opts.Addr
	if addr == "" {
		addr = opts.Config.Addr
	}
	logger := opts.Logger()

	edOpts := []editor.Option{
		editor.WithLogger(logging.WithComponent(logger, "editor")),
		editor.WithProjectName(opts.Config.ProjectName),
	}
	if opts.Database != "" {
		j, err := journal.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()
		edOpts = append(edOpts, editor.WithJournal(j))
	}

	ed, err := editor.New(ctx, edOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start editor", err)
	}
	logging.WithSessionID(logger, ed.SessionID()).Info("editor ready", "journal", opts.Database)

	srv := api.NewServer(api.ServerConfig{
		Addr:      addr,
		Editor:    ed,
		Logger:    logging.WithComponent(logger, "api"),
		StartTime: time.Now(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitCommandError, "shutdown failed", err)
	}
	return nil
}
