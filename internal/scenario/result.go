package scenario

import "github.com/roach88/splice/internal/editor"

// StepState is the observable state after a step.
type StepState struct {
	ClipIDs    []string `json:"clip_ids"`
	DurationMS uint64   `json:"duration_ms"`
	PlaybackMS uint64   `json:"playback_ms"`
	Playing    bool     `json:"playing"`
	Dirty      bool     `json:"dirty"`
	HasProject bool     `json:"has_project"`
}

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq   int64          `json:"seq"`
	Kind  string         `json:"kind"`
	Args  map[string]any `json:"args"`
	State StepState      `json:"state"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held and replay
	// reproduced the final digest.
	Pass bool `json:"pass"`

	Trace  []TraceEvent    `json:"trace"`
	Errors []string        `json:"errors,omitempty"`
	Final  editor.Snapshot `json:"final"`

	// JournalEntries is the number of entries the session journaled.
	JournalEntries int `json:"journal_entries"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func stateOf(snap editor.Snapshot) StepState {
	st := StepState{
		ClipIDs:    []string{},
		DurationMS: snap.Duration,
		PlaybackMS: snap.Playback.TimeMS,
		Playing:    snap.Playback.IsPlaying,
		Dirty:      snap.Dirty,
		HasProject: snap.HasProject,
	}
	if snap.Project != nil {
		for _, c := range snap.Project.Timeline.Clips {
			st.ClipIDs = append(st.ClipIDs, c.ID)
		}
	}
	return st
}
