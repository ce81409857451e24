package editor

import (
	"context"
	"fmt"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/journal"
)

// EntrySource reads the entries of a journal session.
// Implemented by *journal.Journal.
type EntrySource interface {
	Entries(ctx context.Context, sessionID string) ([]journal.Entry, error)
}

// ReplayMismatch reports the first entry whose recomputed digest differs
// from the recorded one.
type ReplayMismatch struct {
	SessionID string
	Seq       int64
	Kind      string
	Expected  string
	Actual    string
}

// Error implements the error interface.
func (e *ReplayMismatch) Error() string {
	return fmt.Sprintf("replay mismatch in session %s at seq %d (%s): expected digest %q, got %q",
		e.SessionID, e.Seq, e.Kind, e.Expected, e.Actual)
}

// ReplayResult summarizes a successful replay.
type ReplayResult struct {
	SessionID string   `json:"session_id"`
	Entries   int      `json:"entries"`
	Digest    string   `json:"digest"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Replay rebuilds a session from its journal entries.
//
// Each entry is applied with the engine clock pinned to the recorded
// instant, then the project digest is compared with the recorded digest.
// The first divergence stops the replay with a *ReplayMismatch.
func Replay(ctx context.Context, src EntrySource, sessionID string) (ReplayResult, error) {
	entries, err := src.Entries(ctx, sessionID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	pin := &pinnedClock{}
	eng := engine.New(engine.WithClock(pin))
	eng.CloseProject()

	result := ReplayResult{SessionID: sessionID}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("replay: %w", err)
		}

		pin.at = e.At
		if err := applyEntry(eng, e); err != nil {
			return result, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}

		actual, err := currentDigest(eng)
		if err != nil {
			return result, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		if actual != e.Digest {
			return result, &ReplayMismatch{
				SessionID: sessionID,
				Seq:       e.Seq,
				Kind:      e.Kind,
				Expected:  e.Digest,
				Actual:    actual,
			}
		}

		result.Entries++
		result.Digest = actual
	}

	result.Snapshot = snapshotOf(eng)
	return result, nil
}

func applyEntry(eng *engine.Engine, e journal.Entry) error {
	switch e.Kind {
	case journal.KindNewProject:
		name, _ := e.Args[journal.ArgName].(string)
		eng.NewProject(name)
		return nil
	case journal.KindLoadProject:
		doc, ok := e.Args[journal.ArgDocument].(string)
		if !ok {
			return fmt.Errorf("%s: missing %s", e.Kind, journal.ArgDocument)
		}
		return eng.LoadProject([]byte(doc))
	case journal.KindCloseProject:
		eng.CloseProject()
		return nil
	default:
		cmd, err := engine.DecodeCommand(e.Kind, e.Args)
		if err != nil {
			return err
		}
		eng.Handle(cmd)
		return nil
	}
}
