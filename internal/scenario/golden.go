package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/splice/internal/model"
)

// Snapshot returns the canonical JSON used for golden comparison: the
// scenario name, every trace event and the final project.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		ids := make([]any, len(ev.State.ClipIDs))
		for k, id := range ev.State.ClipIDs {
			ids[k] = id
		}
		trace[i] = map[string]any{
			"seq":  ev.Seq,
			"kind": ev.Kind,
			"args": ev.Args,
			"state": map[string]any{
				"clip_ids":    ids,
				"duration_ms": ev.State.DurationMS,
				"playback_ms": ev.State.PlaybackMS,
				"playing":     ev.State.Playing,
				"dirty":       ev.State.Dirty,
				"has_project": ev.State.HasProject,
			},
		}
	}

	snapshot := map[string]any{
		"scenario_name": name,
		"trace":         trace,
	}
	if result.Final.Project != nil {
		snapshot["project"] = *result.Final.Project
	}
	return model.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), s)
	if err != nil {
		return nil, err
	}

	data, err := Snapshot(s.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
	return result, nil
}
