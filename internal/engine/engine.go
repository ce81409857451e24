package engine

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/splice/internal/model"
)

// Engine is the authoritative timeline state machine.
//
// Thread-safety model: none. An Engine must only be used by one goroutine
// at a time. Wrap it in editor.Editor to share it.
//
// INVARIANTS:
//   - Every clip reachable from the active timeline has InPoint < OutPoint
//   - Project and clip text is held in Unicode normalization form C
//   - Only Tick leaves the dirty flag and modified_at untouched
//   - Values returned to callers never alias engine state
type Engine struct {
	session  Session // NoSession or *ActiveSession
	filePath string
	hasPath  bool
	dirty    bool
	playback model.PlaybackState

	clock  Clock
	logger *slog.Logger
	name   string // name for the initial project
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithClock sets the clock used for project timestamps and split IDs.
// Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithProjectName sets the name of the project created by New.
// Default: model.DefaultProjectName.
func WithProjectName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// New creates an Engine holding a fresh, unsaved project.
// A new project is dirty until the caller saves it.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:   model.DefaultProjectName,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.NewProject(e.name)
	return e
}

// active returns the project being edited, or nil.
func (e *Engine) active() *model.Project {
	if s, ok := e.session.(*ActiveSession); ok {
		return &s.Project
	}
	return nil
}

// Session returns a copy of the current session.
func (e *Engine) Session() Session {
	if p := e.active(); p != nil {
		return ActiveSession{Project: p.Clone()}
	}
	return NoSession{}
}

// Handle applies a command and returns the resulting timeline.
//
// Handle never fails: invalid indices and ranges are ignored, indices past
// the end clamp to append, and seeks clamp to the total duration. With no
// active project it is a no-op returning an empty timeline.
func (e *Engine) Handle(cmd Command) TimelineChanged {
	p := e.active()
	if p == nil {
		e.logger.Debug("command ignored: no active project", "kind", kindOf(cmd))
		return TimelineChanged{Timeline: model.Timeline{Clips: []model.Clip{}}}
	}
	if cmd == nil {
		return TimelineChanged{Timeline: p.Timeline.Clone()}
	}

	now := e.clock.Now()

	switch c := cmd.(type) {
	case AddClip:
		e.addClip(p, c)
	case RemoveClip:
		e.removeClip(p, c)
	case CutClip:
		e.cutClip(p, c, now)
	case UpdateClipRange:
		e.updateClipRange(p, c)
	case Play:
		e.playback.IsPlaying = true
	case Pause:
		e.playback.IsPlaying = false
	case Seek:
		e.playback.TimeMS = min(c.Target, p.Timeline.Duration())
	case Tick:
		e.tick(p, c)
	}

	if cmd.Kind().Edits() {
		p.Touch(now)
		e.dirty = true
	}

	return TimelineChanged{Timeline: p.Timeline.Clone()}
}

func kindOf(cmd Command) Kind {
	if cmd == nil {
		return ""
	}
	return cmd.Kind()
}

func (e *Engine) addClip(p *model.Project, c AddClip) {
	if c.Clip.InPoint >= c.Clip.OutPoint {
		e.logger.Debug("add ignored: empty or inverted range",
			"clip_id", c.Clip.ID,
			"in_point", c.Clip.InPoint,
			"out_point", c.Clip.OutPoint,
		)
		return
	}

	clip := c.Clip.NFC()
	clips := p.Timeline.Clips
	if c.Index < 0 || c.Index > len(clips) {
		p.Timeline.Clips = append(clips, clip)
		return
	}
	p.Timeline.Clips = slices.Insert(clips, c.Index, clip)
}

func (e *Engine) removeClip(p *model.Project, c RemoveClip) {
	if !inRange(p, c.Index) {
		e.logger.Debug("remove ignored: index out of range", "index", c.Index, "len", p.Timeline.Len())
		return
	}
	p.Timeline.Clips = slices.Delete(p.Timeline.Clips, c.Index, c.Index+1)
}

func (e *Engine) cutClip(p *model.Project, c CutClip, now time.Time) {
	if !inRange(p, c.Index) {
		e.logger.Debug("cut ignored: index out of range", "index", c.Index, "len", p.Timeline.Len())
		return
	}

	orig := p.Timeline.Clips[c.Index]
	if !orig.Contains(c.Position) {
		e.logger.Debug("cut ignored: position outside clip",
			"clip_id", orig.ID,
			"position", c.Position,
			"in_point", orig.InPoint,
			"out_point", orig.OutPoint,
		)
		return
	}

	stamp := now.UnixMilli()
	first := model.Clip{
		ID:       SplitID(orig.ID, stamp, "A"),
		URL:      orig.URL,
		InPoint:  orig.InPoint,
		OutPoint: c.Position,
	}
	second := model.Clip{
		ID:       SplitID(orig.ID, stamp, "B"),
		URL:      orig.URL,
		InPoint:  c.Position,
		OutPoint: orig.OutPoint,
	}

	p.Timeline.Clips = slices.Replace(p.Timeline.Clips, c.Index, c.Index+1, first, second)
}

func (e *Engine) updateClipRange(p *model.Project, c UpdateClipRange) {
	if !inRange(p, c.Index) {
		e.logger.Debug("trim ignored: index out of range", "index", c.Index, "len", p.Timeline.Len())
		return
	}
	if c.In >= c.Out {
		e.logger.Debug("trim ignored: empty or inverted range", "index", c.Index, "in_point", c.In, "out_point", c.Out)
		return
	}

	clip := &p.Timeline.Clips[c.Index]
	clip.InPoint = c.In
	clip.OutPoint = c.Out
}

// tick advances playback. Reaching the end clamps and auto-stops.
func (e *Engine) tick(p *model.Project, c Tick) {
	if !e.playback.IsPlaying {
		return
	}

	total := p.Timeline.Duration()
	if e.playback.TimeMS >= total || c.Delta >= total-e.playback.TimeMS {
		e.playback.TimeMS = total
		e.playback.IsPlaying = false
		e.logger.Debug("playback reached end of timeline", "time_ms", total)
		return
	}
	e.playback.TimeMS += c.Delta
}

func inRange(p *model.Project, index int) bool {
	return index >= 0 && index < len(p.Timeline.Clips)
}

// NewProject replaces the session with a brand-new project.
// An empty name selects model.DefaultProjectName. The new project is
// unsaved (dirty), has no file path and starts with stopped playback at 0.
func (e *Engine) NewProject(name string) {
	e.session = &ActiveSession{Project: model.NewProject(name, e.clock.Now()).NFC()}
	e.filePath, e.hasPath = "", false
	e.dirty = true
	e.playback = model.PlaybackState{}
}

// CloseProject ends the session. Afterwards every query returns a zero
// value and every command is a no-op until NewProject or LoadProject.
func (e *Engine) CloseProject() {
	e.session = NoSession{}
	e.filePath, e.hasPath = "", false
	e.dirty = false
	e.playback = model.PlaybackState{}
}

// ExportProject serializes the active project to the interchange document.
func (e *Engine) ExportProject() ([]byte, error) {
	p := e.active()
	if p == nil {
		return nil, ErrNoProject
	}
	return model.MarshalProject(p.Clone())
}

// LoadProject replaces the session with a project decoded from data.
//
// On failure the error is returned and the engine is left exactly as it
// was. On success the project is clean (not dirty), has no file path until
// the caller sets one, and playback is reset.
func (e *Engine) LoadProject(data []byte) error {
	p, err := model.UnmarshalProject(data)
	if err != nil {
		e.logger.Debug("load rejected", "error", err)
		return fmt.Errorf("load project: %w", err)
	}

	e.session = &ActiveSession{Project: p.NFC()}
	e.filePath, e.hasPath = "", false
	e.dirty = false
	e.playback = model.PlaybackState{}
	return nil
}

// SetCurrentFilePath records where the caller saved or opened the project.
// The path is never validated or inferred.
func (e *Engine) SetCurrentFilePath(path string) {
	e.filePath, e.hasPath = path, true
}

// ClearCurrentFilePath forgets the file path.
func (e *Engine) ClearCurrentFilePath() {
	e.filePath, e.hasPath = "", false
}

// CurrentFilePath returns the file path, if one is set.
func (e *Engine) CurrentFilePath() (string, bool) {
	return e.filePath, e.hasPath
}

// MarkSaved clears the dirty flag.
func (e *Engine) MarkSaved() {
	e.dirty = false
}

// HasUnsavedChanges reports the dirty flag.
func (e *Engine) HasUnsavedChanges() bool {
	return e.dirty
}
