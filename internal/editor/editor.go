package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/journal"
	"github.com/roach88/splice/internal/model"
)

// ErrJournalBroken is returned for every edit after a journal append has
// failed. The session's remaining entries could never replay to the
// recorded digests, so nothing further is appended to it.
var ErrJournalBroken = errors.New("journal session broken")

// Editor serializes access to one engine and journals its edits.
//
// Thread-safety: all methods are safe for concurrent use.
type Editor struct {
	mu  sync.Mutex
	eng *engine.Engine
	pin *pinnedClock

	clock   engine.Clock
	journal *journal.Journal
	ids     IDGenerator
	logger  *slog.Logger
	name    string

	sessionID string
	seq       *engine.Sequence
	broken    error // first append failure; set once
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock sets the wall clock read once per edit. Default: engine.SystemClock.
func WithClock(c engine.Clock) Option {
	return func(ed *Editor) {
		ed.clock = c
	}
}

// WithJournal records every edit in j under a new session.
func WithJournal(j *journal.Journal) Option {
	return func(ed *Editor) {
		ed.journal = j
	}
}

// WithIDGenerator sets the generator for session and clip IDs.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(ed *Editor) {
		ed.ids = g
	}
}

// WithLogger sets the logger for the editor and its engine. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(ed *Editor) {
		ed.logger = l
	}
}

// WithProjectName sets the name of the initial project.
func WithProjectName(name string) Option {
	return func(ed *Editor) {
		ed.name = name
	}
}

// New creates an editor holding a fresh project.
//
// With a journal configured, New registers a session and records the
// initial project as its first entry.
func New(ctx context.Context, opts ...Option) (*Editor, error) {
	ed := &Editor{
		pin:    &pinnedClock{},
		clock:  engine.SystemClock{},
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:   model.DefaultProjectName,
		seq:    engine.NewSequence(),
	}
	for _, opt := range opts {
		opt(ed)
	}

	ed.sessionID = ed.ids.Generate()
	ed.logger = ed.logger.With("session_id", ed.sessionID)

	now := ed.clock.Now()
	ed.pin.at = now
	ed.eng = engine.New(
		engine.WithClock(ed.pin),
		engine.WithLogger(ed.logger),
		engine.WithProjectName(ed.name),
	)

	if ed.journal != nil {
		name, _ := ed.eng.ProjectName()
		err := ed.journal.BeginSession(ctx, journal.Session{
			ID:            ed.sessionID,
			ProjectName:   name,
			StartedAt:     now,
			EngineVersion: model.EngineVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("new editor: %w", err)
		}
		if err := ed.record(ctx, journal.KindNewProject, map[string]any{journal.ArgName: name}, now); err != nil {
			return nil, fmt.Errorf("new editor: %w", err)
		}
	}

	ed.logger.Info("editor started", "project", ed.name, "journaled", ed.journal != nil)
	return ed, nil
}

// SessionID returns the journal session identifier.
func (ed *Editor) SessionID() string {
	return ed.sessionID
}

// Apply runs a command against the engine.
//
// An AddClip with an empty clip ID is given a generated one before it is
// applied, so the journal holds the ID the engine actually used.
//
// The returned error reports only journal failures. The edit itself has
// already been applied when it is returned. After the first failure every
// later edit still applies but returns an error wrapping ErrJournalBroken.
func (ed *Editor) Apply(ctx context.Context, cmd engine.Command) (engine.TimelineChanged, error) {
	if add, ok := cmd.(engine.AddClip); ok && add.Clip.ID == "" {
		add.Clip.ID = ed.ids.Generate()
		cmd = add
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	now := ed.pinNow()
	ev := ed.eng.Handle(cmd)

	if cmd == nil || !cmd.Kind().Edits() {
		return ev, nil
	}

	kind, args := engine.EncodeCommand(cmd)
	if err := ed.record(ctx, string(kind), args, now); err != nil {
		return ev, fmt.Errorf("apply %s: %w", kind, err)
	}
	return ev, nil
}

// NewProject replaces the project with an empty one.
func (ed *Editor) NewProject(ctx context.Context, name string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	now := ed.pinNow()
	ed.eng.NewProject(name)

	actual, _ := ed.eng.ProjectName()
	ed.logger.Info("project created", "project", actual)
	return ed.record(ctx, journal.KindNewProject, map[string]any{journal.ArgName: actual}, now)
}

// LoadProject replaces the project with one decoded from data.
// On failure the engine is untouched and nothing is journaled.
func (ed *Editor) LoadProject(ctx context.Context, data []byte) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	now := ed.pinNow()
	if err := ed.eng.LoadProject(data); err != nil {
		return err
	}

	name, _ := ed.eng.ProjectName()
	ed.logger.Info("project loaded", "project", name, "clips", ed.eng.ClipCount())
	return ed.record(ctx, journal.KindLoadProject, map[string]any{journal.ArgDocument: string(data)}, now)
}

// CloseProject ends the engine session.
func (ed *Editor) CloseProject(ctx context.Context) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	now := ed.pinNow()
	ed.eng.CloseProject()
	ed.logger.Info("project closed")
	return ed.record(ctx, journal.KindCloseProject, map[string]any{}, now)
}

// ExportProject serializes the active project.
func (ed *Editor) ExportProject() ([]byte, error) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.eng.ExportProject()
}

// SetCurrentFilePath records the host's file path for the project.
func (ed *Editor) SetCurrentFilePath(path string) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.eng.SetCurrentFilePath(path)
}

// ClearCurrentFilePath forgets the file path.
func (ed *Editor) ClearCurrentFilePath() {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.eng.ClearCurrentFilePath()
}

// MarkSaved clears the dirty flag.
func (ed *Editor) MarkSaved() {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.eng.MarkSaved()
}

// Clip returns the clip at index.
func (ed *Editor) Clip(index int) (model.Clip, bool) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.eng.Clip(index)
}

// ClipAt resolves a global time onto a clip.
func (ed *Editor) ClipAt(timeMS uint64) (engine.PlayheadClip, bool) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.eng.ClipAt(timeMS)
}

// pinNow reads the wall clock and pins the engine clock to it.
// Caller must hold ed.mu.
func (ed *Editor) pinNow() time.Time {
	now := ed.clock.Now()
	ed.pin.at = now
	return now
}

// record appends an entry when a journal is configured.
// Caller must hold ed.mu.
func (ed *Editor) record(ctx context.Context, kind string, args map[string]any, at time.Time) error {
	if ed.journal == nil {
		return nil
	}
	if ed.broken != nil {
		return fmt.Errorf("record %s: %w: %w", kind, ErrJournalBroken, ed.broken)
	}

	digest, err := currentDigest(ed.eng)
	if err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}

	entry := journal.Entry{
		SessionID: ed.sessionID,
		Seq:       ed.seq.Next(),
		Kind:      kind,
		Args:      args,
		At:        at,
		Digest:    digest,
	}
	if err := ed.journal.Append(ctx, entry); err != nil {
		ed.broken = err
		ed.logger.Error("journal append failed; session no longer journaled",
			"seq", entry.Seq, "kind", kind, "error", err)
		return fmt.Errorf("record %s: %w", kind, err)
	}

	ed.logger.Debug("journaled", "seq", entry.Seq, "kind", kind, "digest", digest)
	return nil
}

// currentDigest returns the project digest, or "" with no active project.
func currentDigest(eng *engine.Engine) (string, error) {
	s, ok := eng.Session().(engine.ActiveSession)
	if !ok {
		return "", nil
	}
	return model.ProjectDigest(s.Project)
}
