package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/splice/internal/editor"
	"github.com/roach88/splice/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	SessionID string // optional - specific session only
	Latest    bool   // only the most recently started session
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string         `json:"session_id"`
	ProjectName   string         `json:"project_name"`
	Entries       int            `json:"entries"`
	LastSeq       int64          `json:"last_seq"`
	Kinds         map[string]int `json:"kinds,omitempty"`
	Digest        string         `json:"digest,omitempty"`
	Deterministic bool           `json:"deterministic"`
	Error         string         `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Replay every journaled session (or one, with --session or --latest) from
an empty engine, pinning the clock to each entry's recorded instant, and
compare the project digest after every entry with the recorded one.
A session whose sequence numbers have gaps fails without being replayed.

Exit codes:
  0 - All sessions replay to their recorded digests
  1 - A session diverged or could not be replayed
  2 - Command error (no journal, unknown session, etc.)

Examples:
  splice replay --db ./splice.db
  splice replay --db ./splice.db --session 0190c3c8-...
  splice replay --db ./splice.db --latest
  splice replay --db ./splice.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay specific session only")
	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "replay the most recent session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	if opts.Database == "" {
		return NewExitError(ExitCommandError, "a journal is required: pass --db or set SPLICE_DB")
	}
	if opts.Latest && opts.SessionID != "" {
		return NewExitError(ExitCommandError, "--session and --latest cannot be combined")
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var sessions []journal.Session
	if opts.SessionID != "" {
		s, err := j.Session(ctx, opts.SessionID)
		if errors.Is(err, journal.ErrSessionNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.SessionID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		sessions = []journal.Session{s}
	} else if opts.Latest {
		s, err := j.LatestSession(ctx)
		if err != nil && !errors.Is(err, journal.ErrSessionNotFound) {
			return WrapExitError(ExitCommandError, "failed to read latest session", err)
		}
		if err == nil {
			sessions = []journal.Session{s}
		}
	} else {
		sessions, err = j.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	if len(sessions) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Sessions:         []ReplaySessionResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in journal.")
		return nil
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}

	for _, s := range sessions {
		sr, err := replaySession(ctx, j, s)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", s.ID), err)
		}
		opts.Logger().Debug("session replayed",
			"session_id", s.ID,
			"entries", sr.Entries,
			"deterministic", sr.Deterministic,
		)

		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replaySession replays one session. A divergence or a bad entry is
// reported in the result; only cancellation is returned as an error.
func replaySession(ctx context.Context, j *journal.Journal, s journal.Session) (ReplaySessionResult, error) {
	sr := ReplaySessionResult{SessionID: s.ID, ProjectName: s.ProjectName}

	kinds, err := j.KindCounts(ctx, s.ID)
	if err != nil {
		return sr, err
	}
	sr.Kinds = kinds

	// Seqs start at 1 and are contiguous. Seek and play entries leave the
	// digest alone, so a deleted one is only visible as a gap.
	last, err := j.LastSeq(ctx, s.ID)
	if err != nil {
		return sr, err
	}
	sr.LastSeq = last
	total := 0
	for _, n := range kinds {
		total += n
	}
	if int64(total) != last {
		sr.Error = fmt.Sprintf("journal has gaps: last seq %d but %d entries", last, total)
		return sr, nil
	}

	res, err := editor.Replay(ctx, j, s.ID)
	sr.Entries = res.Entries
	sr.Digest = res.Digest
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sr, ctxErr
		}
		sr.Error = err.Error()
		return sr, nil
	}

	sr.Deterministic = true
	return sr, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeReplay,
			Message: "determinism verification failed",
		}
	}

	if err := encodeResponse(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s (%s)\n", status, s.SessionID, s.ProjectName)
		fmt.Fprintf(w, "  Entries: %d\n", s.Entries)
		if verbose {
			for _, kind := range slices.Sorted(maps.Keys(s.Kinds)) {
				fmt.Fprintf(w, "    %s: %d\n", kind, s.Kinds[kind])
			}
			if s.Digest != "" {
				fmt.Fprintf(w, "  Digest: %s\n", s.Digest)
			}
		}
		if s.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", s.Error)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
