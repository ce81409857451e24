package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/splice/internal/editor"
	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/journal"
	"github.com/roach88/splice/internal/testutil"
)

// Runner executes scenarios.
type Runner struct {
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a scenario with a discarded log.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return NewRunner().Run(ctx, s)
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory journal for isolation.
// An error is returned only when the run itself could not proceed;
// failed expectations are reported in Result.Errors.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	ed, err := editor.New(ctx,
		editor.WithClock(testutil.NewStepClock(testutil.Epoch, time.Second)),
		editor.WithIDGenerator(testutil.NewSequentialIDGenerator(s.Name)),
		editor.WithJournal(j),
		editor.WithProjectName(s.ProjectName),
		editor.WithLogger(r.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start editor: %w", err)
	}

	result := NewResult()
	for i, step := range s.Steps {
		args, err := Execute(ctx, ed, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Kind, err)
		}

		snap := ed.Snapshot()
		state := stateOf(snap)
		result.Trace = append(result.Trace, TraceEvent{
			Seq:   int64(i + 1),
			Kind:  step.Kind,
			Args:  args,
			State: state,
		})

		if step.Expect != nil {
			for _, msg := range matchExpect(*step.Expect, state) {
				result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Kind, msg))
			}
		}
	}

	result.Final = ed.Snapshot()

	entries, err := j.Entries(ctx, ed.SessionID())
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.JournalEntries = len(entries)

	for _, msg := range EvaluateAssertions(ed, result, s.Assertions) {
		result.AddError(msg)
	}

	replayed, err := editor.Replay(ctx, j, ed.SessionID())
	if err != nil {
		result.AddError(fmt.Sprintf("replay: %v", err))
	} else if replayed.Digest != result.Final.Digest {
		result.AddError(fmt.Sprintf("replay: final digest %q, live digest %q", replayed.Digest, result.Final.Digest))
	}

	r.logger.Info("scenario finished",
		"scenario", s.Name,
		"steps", len(s.Steps),
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

// Execute applies one step to ed and returns its normalized arguments.
// Lifecycle kinds go to the editor directly, everything else through the
// engine command codec.
func Execute(ctx context.Context, ed *editor.Editor, step Step) (map[string]any, error) {
	switch step.Kind {
	case StepNewProject:
		name, _ := step.Args["name"].(string)
		return map[string]any{"name": name}, ed.NewProject(ctx, name)
	case StepLoadProject:
		doc, _ := step.Args["document"].(string)
		if err := ed.LoadProject(ctx, []byte(doc)); err != nil {
			return nil, err
		}
		return map[string]any{}, nil
	case StepCloseProject:
		return map[string]any{}, ed.CloseProject(ctx)
	case StepMarkSaved:
		ed.MarkSaved()
		return map[string]any{}, nil
	}

	cmd, err := engine.DecodeCommand(step.Kind, step.Args)
	if err != nil {
		return nil, err
	}
	ev, err := ed.Apply(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Report the clip ID the editor generated, if any.
	if add, ok := cmd.(engine.AddClip); ok && add.Clip.ID == "" {
		idx := add.Index
		if idx < 0 || idx >= len(ev.Timeline.Clips) {
			idx = len(ev.Timeline.Clips) - 1
		}
		if idx >= 0 && add.Clip.InPoint < add.Clip.OutPoint {
			add.Clip.ID = ev.Timeline.Clips[idx].ID
		}
		cmd = add
	}

	_, args := engine.EncodeCommand(cmd)
	return args, nil
}
