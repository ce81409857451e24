package model

import (
	"slices"
	"time"
)

// Clip is one trimmed reference to a media source.
//
// InPoint < OutPoint must hold whenever the clip is reachable from a
// Timeline. The type does not enforce it; every mutation site does.
type Clip struct {
	ID       string `json:"id"`        // Opaque unique identifier
	URL      string `json:"url"`       // file:// path or content identifier
	InPoint  uint64 `json:"in_point"`  // Source offset (ms)
	OutPoint uint64 `json:"out_point"` // Source offset (ms)
}

// Duration returns the clip's length on the timeline.
// Returns 0 for an inverted range rather than wrapping.
func (c Clip) Duration() uint64 {
	if c.OutPoint <= c.InPoint {
		return 0
	}
	return c.OutPoint - c.InPoint
}

// Contains reports whether a source position lies strictly inside the clip.
func (c Clip) Contains(position uint64) bool {
	return position > c.InPoint && position < c.OutPoint
}

// Timeline is an ordered, gapless sequence of clips.
type Timeline struct {
	Clips []Clip `json:"clips"`
}

// Len returns the number of clips.
func (t Timeline) Len() int {
	return len(t.Clips)
}

// Duration returns the sum of all clip durations.
// Recomputed on every call.
func (t Timeline) Duration() uint64 {
	var total uint64
	for _, c := range t.Clips {
		total += c.Duration()
	}
	return total
}

// StartOf returns the global start time of the clip at index i.
// Returns the total duration for an index past the end.
func (t Timeline) StartOf(i int) uint64 {
	var start uint64
	for j, c := range t.Clips {
		if j >= i {
			break
		}
		start += c.Duration()
	}
	return start
}

// Clone returns a deep copy. Clips are values, so a slice copy suffices.
func (t Timeline) Clone() Timeline {
	return Timeline{Clips: slices.Clone(t.Clips)}
}

// Project is one named editing session.
type Project struct {
	Name       string    `json:"name"`
	Timeline   Timeline  `json:"timeline"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// NewProject creates a project with an empty timeline.
// CreatedAt and ModifiedAt are stamped with the same instant.
func NewProject(name string, now time.Time) Project {
	if name == "" {
		name = DefaultProjectName
	}
	return Project{
		Name:       name,
		Timeline:   Timeline{Clips: []Clip{}},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Touch refreshes ModifiedAt. CreatedAt is never changed.
func (p *Project) Touch(now time.Time) {
	p.ModifiedAt = now
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	p.Timeline = p.Timeline.Clone()
	return p
}

// PlaybackState is the transport state. It is not part of the project document.
type PlaybackState struct {
	IsPlaying bool   `json:"is_playing"`
	TimeMS    uint64 `json:"time_ms"` // Global timeline time, not clip time
}
