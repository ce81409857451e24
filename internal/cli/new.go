package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/engine"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Output string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty project document",
		Long: `Create an empty project document with the given name.

The document is written to --output, or to stdout when no output is given.

Examples:
  splice new "Holiday Cut" -o holiday.json
  splice new Demo --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runNew(opts *NewOptions, name string, cmd *cobra.Command) error {
	eng := engine.New(engine.WithProjectName(name), engine.WithLogger(opts.Logger()))

	data, err := eng.ExportProject()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to export project", err)
	}

	p, digest, err := decodeDocument(data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest project", err)
	}

	return emitDocument(opts.RootOptions, cmd, DocumentResult{
		Name:   p.Name,
		Digest: digest,
		Output: opts.Output,
	}, data, "")
}
