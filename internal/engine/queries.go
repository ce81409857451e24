package engine

import "github.com/roach88/splice/internal/model"

// Timeline returns a copy of the active timeline (empty with no project).
func (e *Engine) Timeline() model.Timeline {
	if p := e.active(); p != nil {
		return p.Timeline.Clone()
	}
	return model.Timeline{Clips: []model.Clip{}}
}

// ProjectName returns the active project's name.
func (e *Engine) ProjectName() (string, bool) {
	if p := e.active(); p != nil {
		return p.Name, true
	}
	return "", false
}

// ClipCount returns the number of clips on the timeline.
func (e *Engine) ClipCount() int {
	if p := e.active(); p != nil {
		return len(p.Timeline.Clips)
	}
	return 0
}

// Clip returns the clip at index.
func (e *Engine) Clip(index int) (model.Clip, bool) {
	p := e.active()
	if p == nil || !inRange(p, index) {
		return model.Clip{}, false
	}
	return p.Timeline.Clips[index], true
}

// ClipID returns the ID of the clip at index.
func (e *Engine) ClipID(index int) (string, bool) {
	c, ok := e.Clip(index)
	return c.ID, ok
}

// ClipURL returns the source locator of the clip at index.
func (e *Engine) ClipURL(index int) (string, bool) {
	c, ok := e.Clip(index)
	return c.URL, ok
}

// ClipInPoint returns the in point of the clip at index, or 0.
func (e *Engine) ClipInPoint(index int) uint64 {
	c, _ := e.Clip(index)
	return c.InPoint
}

// ClipOutPoint returns the out point of the clip at index, or 0.
func (e *Engine) ClipOutPoint(index int) uint64 {
	c, _ := e.Clip(index)
	return c.OutPoint
}

// TotalDuration returns the sum of clip durations.
func (e *Engine) TotalDuration() uint64 {
	if p := e.active(); p != nil {
		return p.Timeline.Duration()
	}
	return 0
}

// Playback returns the playback state.
func (e *Engine) Playback() model.PlaybackState {
	return e.playback
}

// PlaybackTime returns the global playhead position.
func (e *Engine) PlaybackTime() uint64 {
	return e.playback.TimeMS
}

// IsPlaying reports whether playback is running.
func (e *Engine) IsPlaying() bool {
	return e.playback.IsPlaying
}
