package engine

import (
	"fmt"

	"github.com/roach88/splice/internal/model"
)

// Kind is the stable name of a command variant.
// Used by the codec, the journal and scenario files.
type Kind string

// Command kinds.
const (
	KindAddClip         Kind = "add_clip"
	KindRemoveClip      Kind = "remove_clip"
	KindCutClip         Kind = "cut_clip"
	KindUpdateClipRange Kind = "update_clip_range"
	KindPlay            Kind = "play"
	KindPause           Kind = "pause"
	KindSeek            Kind = "seek"
	KindTick            Kind = "tick"
)

// Kinds lists every command kind in declaration order.
var Kinds = []Kind{
	KindAddClip,
	KindRemoveClip,
	KindCutClip,
	KindUpdateClipRange,
	KindPlay,
	KindPause,
	KindSeek,
	KindTick,
}

// Command is a sealed interface over the closed set of engine commands.
// Only the types in this file implement it.
type Command interface {
	Kind() Kind
	command()
}

// AddClip inserts Clip at Index. An index past the end (or negative) appends.
type AddClip struct {
	Clip  model.Clip
	Index int
}

// RemoveClip removes the clip at Index. Out of range is a no-op.
type RemoveClip struct {
	Index int
}

// CutClip splits the clip at Index into two at Position.
//
// Position is SOURCE time, compared against the clip's in/out points, not
// global timeline time. Engine.ClipAt translates a global time into the
// (index, source position) pair this command expects.
type CutClip struct {
	Index    int
	Position uint64
}

// UpdateClipRange replaces the trim points of the clip at Index.
// Applied only when In < Out.
type UpdateClipRange struct {
	Index int
	In    uint64
	Out   uint64
}

// Play starts playback.
type Play struct{}

// Pause stops playback.
type Pause struct{}

// Seek moves the playhead, clamped to [0, total duration].
type Seek struct {
	Target uint64
}

// Tick advances the playhead by Delta while playing.
type Tick struct {
	Delta uint64
}

func (AddClip) Kind() Kind         { return KindAddClip }
func (RemoveClip) Kind() Kind      { return KindRemoveClip }
func (CutClip) Kind() Kind         { return KindCutClip }
func (UpdateClipRange) Kind() Kind { return KindUpdateClipRange }
func (Play) Kind() Kind            { return KindPlay }
func (Pause) Kind() Kind           { return KindPause }
func (Seek) Kind() Kind            { return KindSeek }
func (Tick) Kind() Kind            { return KindTick }

func (AddClip) command()         {}
func (RemoveClip) command()      {}
func (CutClip) command()         {}
func (UpdateClipRange) command() {}
func (Play) command()            {}
func (Pause) command()           {}
func (Seek) command()            {}
func (Tick) command()            {}

// Edits reports whether a command of this kind marks the project dirty.
// Everything except Tick does; Tick is passive time advancement.
func (k Kind) Edits() bool {
	return k != KindTick
}

// TimelineChanged is the event returned by Handle. It always carries the
// full post-command timeline, even when the command changed nothing.
type TimelineChanged struct {
	Timeline model.Timeline `json:"timeline"`
}

// SplitID derives the identifier of one half of a cut clip.
// Both halves share the same stamp so they sort together.
func SplitID(originalID string, stampMillis int64, half string) string {
	return fmt.Sprintf("%s-%d-%s", originalID, stampMillis, half)
}
