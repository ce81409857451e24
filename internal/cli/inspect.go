package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/model"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	At uint64
}

// ClipRow is one clip with its place on the global timeline.
type ClipRow struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	URL      string `json:"url"`
	InPoint  uint64 `json:"in_point"`
	OutPoint uint64 `json:"out_point"`
	StartMS  uint64 `json:"start_ms"`
	EndMS    uint64 `json:"end_ms"`
}

// InspectResult holds the inspection of one project document.
type InspectResult struct {
	Name       string               `json:"name"`
	CreatedAt  time.Time            `json:"created_at"`
	ModifiedAt time.Time            `json:"modified_at"`
	Clips      []ClipRow            `json:"clips"`
	DurationMS uint64               `json:"duration_ms"`
	Digest     string               `json:"digest"`
	AtMS       *uint64              `json:"at_ms,omitempty"`
	Playhead   *engine.PlayheadClip `json:"playhead,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <project.json>",
		Short: "Show clips, positions and duration of a project",
		Long: `Load a project document and list its clips with their global start and
end times. With --at, also resolve that global time onto a clip and its
source offset.

Examples:
  splice inspect demo.json
  splice inspect demo.json --at 1500 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.At, "at", 0, "global time in ms to resolve")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := readDocument(path)
	if err != nil {
		return err
	}

	p, digest, err := decodeDocument(data)
	if err != nil {
		formatter.Error(ErrCodeInvalidDocument, err.Error(), path)
		return WrapExitError(ExitFailure, "invalid project document", err)
	}

	eng := engine.New(engine.WithLogger(opts.Logger()))
	if err := eng.LoadProject(data); err != nil {
		return WrapExitError(ExitFailure, "invalid project document", err)
	}

	result := InspectResult{
		Name:       p.Name,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
		Clips:      clipRows(eng.Timeline()),
		DurationMS: eng.TotalDuration(),
		Digest:     digest,
	}
	if cmd.Flags().Changed("at") {
		at := opts.At
		result.AtMS = &at
		if ph, ok := eng.ClipAt(at); ok {
			result.Playhead = &ph
		}
	}

	if opts.Format == "json" {
		return encodeResponse(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	outputInspectText(cmd, result)
	return nil
}

func clipRows(t model.Timeline) []ClipRow {
	rows := make([]ClipRow, 0, t.Len())
	for i, c := range t.Clips {
		start := t.StartOf(i)
		rows = append(rows, ClipRow{
			Index:    i,
			ID:       c.ID,
			URL:      c.URL,
			InPoint:  c.InPoint,
			OutPoint: c.OutPoint,
			StartMS:  start,
			EndMS:    start + c.Duration(),
		})
	}
	return rows
}

func outputInspectText(cmd *cobra.Command, result InspectResult) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Project: %s\n", result.Name)
	fmt.Fprintf(w, "Modified: %s\n", result.ModifiedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %dms\n", result.DurationMS)
	fmt.Fprintf(w, "Digest: %s\n", result.Digest)
	fmt.Fprintln(w)

	if len(result.Clips) == 0 {
		fmt.Fprintln(w, "No clips.")
	}
	for _, c := range result.Clips {
		fmt.Fprintf(w, "%3d  %-24s [%d, %d)  at %d-%dms  %s\n",
			c.Index, c.ID, c.InPoint, c.OutPoint, c.StartMS, c.EndMS, c.URL)
	}

	if result.AtMS == nil {
		return
	}
	fmt.Fprintln(w)
	if result.Playhead == nil {
		fmt.Fprintf(w, "At %dms: no clip\n", *result.AtMS)
		return
	}
	fmt.Fprintf(w, "At %dms: clip %d (%s) source %dms\n",
		*result.AtMS, result.Playhead.Index, result.Playhead.Clip.ID, result.Playhead.SourceMS)
}
