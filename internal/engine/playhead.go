package engine

import "github.com/roach88/splice/internal/model"

// PlayheadClip is the clip under a global time and the matching source offset.
type PlayheadClip struct {
	Index    int        `json:"index"`
	Clip     model.Clip `json:"clip"`
	SourceMS uint64     `json:"source_ms"` // InPoint + offset into the clip
}

// ClipAtPlayhead resolves the current playback time onto a clip.
// Returns false when the playhead is past the end, the timeline is empty or
// no project is active. That is an expected outcome, not an error.
func (e *Engine) ClipAtPlayhead() (PlayheadClip, bool) {
	return e.ClipAt(e.playback.TimeMS)
}

// ClipAt resolves an arbitrary global time onto a clip.
//
// Clips are walked in order accumulating their durations; the clip whose
// half-open span [start, start+duration) contains timeMS wins.
// O(n) in clip count with no cache.
func (e *Engine) ClipAt(timeMS uint64) (PlayheadClip, bool) {
	p := e.active()
	if p == nil {
		return PlayheadClip{}, false
	}
	return resolve(p.Timeline, timeMS)
}

func resolve(t model.Timeline, timeMS uint64) (PlayheadClip, bool) {
	var current uint64
	for i, clip := range t.Clips {
		dur := clip.Duration()
		if timeMS >= current && timeMS-current < dur {
			return PlayheadClip{
				Index:    i,
				Clip:     clip,
				SourceMS: clip.InPoint + (timeMS - current),
			}, true
		}
		current += dur
	}
	return PlayheadClip{}, false
}
