package editor

import (
	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/model"
)

// Snapshot is a consistent view of the editor taken under one lock.
type Snapshot struct {
	HasProject bool                 `json:"has_project"`
	Project    *model.Project       `json:"project,omitempty"`
	Duration   uint64               `json:"duration_ms"`
	Playback   model.PlaybackState  `json:"playback"`
	Playhead   *engine.PlayheadClip `json:"playhead,omitempty"`
	Dirty      bool                 `json:"dirty"`
	Path       *string              `json:"path,omitempty"`
	Digest     string               `json:"digest,omitempty"`
}

// Snapshot returns the project, playback, dirty flag, path and playhead.
func (ed *Editor) Snapshot() Snapshot {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return snapshotOf(ed.eng)
}

func snapshotOf(eng *engine.Engine) Snapshot {
	snap := Snapshot{
		Duration: eng.TotalDuration(),
		Playback: eng.Playback(),
		Dirty:    eng.HasUnsavedChanges(),
	}

	if s, ok := eng.Session().(engine.ActiveSession); ok {
		snap.HasProject = true
		snap.Project = &s.Project
		if d, err := model.ProjectDigest(s.Project); err == nil {
			snap.Digest = d
		}
	}
	if at, ok := eng.ClipAtPlayhead(); ok {
		snap.Playhead = &at
	}
	if path, ok := eng.CurrentFilePath(); ok {
		snap.Path = &path
	}
	return snap
}
