package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/editor"
	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/journal"
	"github.com/roach88/splice/internal/model"
	"github.com/roach88/splice/internal/scenario"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Output string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <project.json> <script.yaml>",
		Short: "Apply an edit script to a project",
		Long: `Load a project document, apply the steps of an edit script in order and
write the resulting document.

A script is a YAML file with a single "steps" list. Each step has a kind
(add_clip, remove_clip, cut_clip, update_clip_range, play, pause, seek,
tick, new_project, load_project, close_project, mark_saved) and args.

With --db every edit is journaled under a new session.

Exit codes:
  0 - Script applied
  1 - Invalid project document or a step failed
  2 - Command error (unreadable file, invalid script, journal error)

Examples:
  splice apply demo.json trim.yaml -o demo.json
  splice apply demo.json trim.yaml --db ./splice.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runApply(opts *ApplyOptions, projectPath, scriptPath string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := readDocument(projectPath)
	if err != nil {
		return err
	}

	script, err := scenario.LoadScript(scriptPath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", scriptPath), err)
	}

	edOpts := []editor.Option{editor.WithLogger(opts.Logger())}
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

	if err := ed.LoadProject(ctx, data); err != nil {
		if model.IsDocumentError(err) {
			formatter.Error(ErrCodeInvalidDocument, err.Error(), projectPath)
			return WrapExitError(ExitFailure, "invalid project document", err)
		}
		return WrapExitError(ExitCommandError, "failed to journal load", err)
	}
	formatter.VerboseLog("Loaded %s (%d clip(s))", projectPath, ed.Snapshot().Project.Timeline.Len())

	for i, step := range script.Steps {
		if _, err := scenario.Execute(ctx, ed, step); err != nil {
			msg := fmt.Sprintf("steps[%d] (%s) failed", i, step.Kind)
			formatter.Error(ErrCodeScript, msg, err.Error())
			return WrapExitError(ExitFailure, msg, err)
		}
		formatter.VerboseLog("steps[%d] %s", i, step.Kind)
	}

	out, err := ed.ExportProject()
	if errors.Is(err, engine.ErrNoProject) {
		formatter.Error(ErrCodeNoProject, "script left no project open", scriptPath)
		return WrapExitError(ExitFailure, "script left no project open", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to export project", err)
	}

	snap := ed.Snapshot()
	sessionID := ""
	if opts.Database != "" {
		sessionID = ed.SessionID()
		formatter.VerboseLog("Journaled session %s", sessionID)
	}

	return emitDocument(opts.RootOptions, cmd, DocumentResult{
		Name:       snap.Project.Name,
		Clips:      snap.Project.Timeline.Len(),
		DurationMS: snap.Duration,
		Digest:     snap.Digest,
		Output:     opts.Output,
	}, out, sessionID)
}
