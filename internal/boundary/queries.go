package boundary

import "github.com/roach88/splice/internal/engine"

// Scalar queries return the zero value on an unknown handle.

// ClipCount returns the number of clips.
func (r *Registry) ClipCount(h EngineHandle) int {
	var n int
	_ = r.with(h, func(e *engine.Engine) { n = e.ClipCount() })
	return n
}

// ClipInPoint returns the in point of the clip at idx.
func (r *Registry) ClipInPoint(h EngineHandle, idx int) uint64 {
	var v uint64
	_ = r.with(h, func(e *engine.Engine) { v = e.ClipInPoint(idx) })
	return v
}

// ClipOutPoint returns the out point of the clip at idx.
func (r *Registry) ClipOutPoint(h EngineHandle, idx int) uint64 {
	var v uint64
	_ = r.with(h, func(e *engine.Engine) { v = e.ClipOutPoint(idx) })
	return v
}

// PlaybackTime returns the playhead position.
func (r *Registry) PlaybackTime(h EngineHandle) uint64 {
	var v uint64
	_ = r.with(h, func(e *engine.Engine) { v = e.PlaybackTime() })
	return v
}

// IsPlaying reports whether playback is running.
func (r *Registry) IsPlaying(h EngineHandle) bool {
	var v bool
	_ = r.with(h, func(e *engine.Engine) { v = e.IsPlaying() })
	return v
}

// HasUnsavedChanges reports the dirty flag.
func (r *Registry) HasUnsavedChanges(h EngineHandle) bool {
	var v bool
	_ = r.with(h, func(e *engine.Engine) { v = e.HasUnsavedChanges() })
	return v
}
