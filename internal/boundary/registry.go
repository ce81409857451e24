package boundary

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/model"
)

var (
	// ErrUnknownHandle is returned for a handle that was never issued or
	// whose engine was freed.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrReleased is returned when a text handle is read or released after
	// it was already released.
	ErrReleased = errors.New("text handle already released")
)

// EngineHandle identifies an engine owned by a Registry.
type EngineHandle uint64

// TextHandle identifies a string owned by the host until released.
type TextHandle uint64

// PlaybackClipInfo describes the clip under the playhead.
// Release it with ReleaseClipInfo, which releases both texts.
type PlaybackClipInfo struct {
	ID           TextHandle
	URL          TextHandle
	TimeInClipMS uint64
}

// Registry owns engines and host-visible strings.
//
// Thread-safety: all methods are safe for concurrent use. Each engine is
// only touched under the registry mutex.
type Registry struct {
	mu       sync.Mutex
	next     uint64
	engines  map[EngineHandle]*engine.Engine
	texts    map[TextHandle]string
	released map[TextHandle]struct{}

	engineOpts []engine.Option
	logger     *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithEngineOptions sets options applied to every engine the registry creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(r *Registry) {
		r.engineOpts = append(r.engineOpts, opts...)
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		engines:  make(map[EngineHandle]*engine.Engine),
		texts:    make(map[TextHandle]string),
		released: make(map[TextHandle]struct{}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// nextID returns a fresh non-zero handle value. Caller must hold r.mu.
func (r *Registry) nextID() uint64 {
	r.next++
	return r.next
}

// NewEngine creates an engine holding a fresh untitled project.
func (r *Registry) NewEngine() EngineHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := EngineHandle(r.nextID())
	r.engines[h] = engine.New(r.engineOpts...)
	r.logger.Debug("engine created", "handle", uint64(h))
	return h
}

// FreeEngine destroys an engine. Outstanding text handles stay valid.
func (r *Registry) FreeEngine(h EngineHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[h]; !ok {
		return fmt.Errorf("free engine %d: %w", h, ErrUnknownHandle)
	}
	delete(r.engines, h)
	r.logger.Debug("engine freed", "handle", uint64(h))
	return nil
}

// with runs fn on the engine for h under the registry lock.
func (r *Registry) with(h EngineHandle, fn func(*engine.Engine)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engines[h]
	if !ok {
		return ErrUnknownHandle
	}
	fn(e)
	return nil
}

func (r *Registry) handle(h EngineHandle, cmd engine.Command) error {
	if err := r.with(h, func(e *engine.Engine) { e.Handle(cmd) }); err != nil {
		return fmt.Errorf("%s on engine %d: %w", cmd.Kind(), h, err)
	}
	return nil
}

// AddClip inserts a clip at idx (past the end or negative appends).
func (r *Registry) AddClip(h EngineHandle, id, url string, in, out uint64, idx int) error {
	return r.handle(h, engine.AddClip{
		Clip:  model.Clip{ID: id, URL: url, InPoint: in, OutPoint: out},
		Index: idx,
	})
}

// RemoveClip removes the clip at idx.
func (r *Registry) RemoveClip(h EngineHandle, idx int) error {
	return r.handle(h, engine.RemoveClip{Index: idx})
}

// CutClip splits the clip at idx at source position pos.
func (r *Registry) CutClip(h EngineHandle, idx int, pos uint64) error {
	return r.handle(h, engine.CutClip{Index: idx, Position: pos})
}

// UpdateClipRange retrims the clip at idx.
func (r *Registry) UpdateClipRange(h EngineHandle, idx int, in, out uint64) error {
	return r.handle(h, engine.UpdateClipRange{Index: idx, In: in, Out: out})
}

// Play starts playback.
func (r *Registry) Play(h EngineHandle) error {
	return r.handle(h, engine.Play{})
}

// Pause stops playback.
func (r *Registry) Pause(h EngineHandle) error {
	return r.handle(h, engine.Pause{})
}

// Seek moves the playhead.
func (r *Registry) Seek(h EngineHandle, t uint64) error {
	return r.handle(h, engine.Seek{Target: t})
}

// Tick advances playback by d milliseconds.
func (r *Registry) Tick(h EngineHandle, d uint64) error {
	return r.handle(h, engine.Tick{Delta: d})
}

// NewProject replaces the engine's project with an empty one.
func (r *Registry) NewProject(h EngineHandle, name string) error {
	return r.with(h, func(e *engine.Engine) { e.NewProject(name) })
}

// LoadProjectJSON loads a project document. Returns false on an unknown
// handle or a rejected document; the engine is then unchanged.
func (r *Registry) LoadProjectJSON(h EngineHandle, text string) bool {
	var loadErr error
	if err := r.with(h, func(e *engine.Engine) { loadErr = e.LoadProject([]byte(text)) }); err != nil {
		return false
	}
	if loadErr != nil {
		r.logger.Debug("load rejected", "handle", uint64(h), "error", loadErr)
		return false
	}
	return true
}

// SetCurrentFilePath records the host's file path.
func (r *Registry) SetCurrentFilePath(h EngineHandle, path string) error {
	return r.with(h, func(e *engine.Engine) { e.SetCurrentFilePath(path) })
}

// ClearCurrentFilePath forgets the file path.
func (r *Registry) ClearCurrentFilePath(h EngineHandle) error {
	return r.with(h, func(e *engine.Engine) { e.ClearCurrentFilePath() })
}

// MarkSaved clears the dirty flag.
func (r *Registry) MarkSaved(h EngineHandle) error {
	return r.with(h, func(e *engine.Engine) { e.MarkSaved() })
}
