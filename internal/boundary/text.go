package boundary

import (
	"fmt"

	"github.com/roach88/splice/internal/engine"
)

// Text-producing queries return (0, false) when the value is absent or the
// engine handle is unknown. A non-zero handle must be released exactly once.

// ClipID returns the ID of the clip at idx.
func (r *Registry) ClipID(h EngineHandle, idx int) (TextHandle, bool) {
	return r.textQuery(h, func(e *engine.Engine) (string, bool) { return e.ClipID(idx) })
}

// ClipURL returns the source locator of the clip at idx.
func (r *Registry) ClipURL(h EngineHandle, idx int) (TextHandle, bool) {
	return r.textQuery(h, func(e *engine.Engine) (string, bool) { return e.ClipURL(idx) })
}

// ProjectName returns the active project's name.
func (r *Registry) ProjectName(h EngineHandle) (TextHandle, bool) {
	return r.textQuery(h, (*engine.Engine).ProjectName)
}

// CurrentFilePath returns the file path, if set.
func (r *Registry) CurrentFilePath(h EngineHandle) (TextHandle, bool) {
	return r.textQuery(h, (*engine.Engine).CurrentFilePath)
}

// ProjectJSON returns the project document.
func (r *Registry) ProjectJSON(h EngineHandle) (TextHandle, bool) {
	return r.textQuery(h, func(e *engine.Engine) (string, bool) {
		data, err := e.ExportProject()
		if err != nil {
			return "", false
		}
		return string(data), true
	})
}

// CurrentPlaybackClip returns the clip under the playhead.
func (r *Registry) CurrentPlaybackClip(h EngineHandle) (PlaybackClipInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engines[h]
	if !ok {
		return PlaybackClipInfo{}, false
	}
	at, ok := e.ClipAtPlayhead()
	if !ok {
		return PlaybackClipInfo{}, false
	}

	return PlaybackClipInfo{
		ID:           r.allocText(at.Clip.ID),
		URL:          r.allocText(at.Clip.URL),
		TimeInClipMS: at.SourceMS,
	}, true
}

// Text reads a live text handle.
func (r *Registry) Text(th TextHandle) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.texts[th]; ok {
		return s, nil
	}
	return "", r.textErr("read", th)
}

// ReleaseText frees a text handle. A second release returns ErrReleased.
func (r *Registry) ReleaseText(th TextHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseLocked(th)
}

// ReleaseClipInfo releases both texts of info. Both are attempted even if
// the first fails; the first error is returned.
func (r *Registry) ReleaseClipInfo(info PlaybackClipInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errID := r.releaseLocked(info.ID)
	errURL := r.releaseLocked(info.URL)
	if errID != nil {
		return errID
	}
	return errURL
}

// Live returns the number of outstanding text handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

func (r *Registry) textQuery(h EngineHandle, get func(*engine.Engine) (string, bool)) (TextHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engines[h]
	if !ok {
		return 0, false
	}
	s, ok := get(e)
	if !ok {
		return 0, false
	}
	return r.allocText(s), true
}

// allocText stores s under a fresh handle. Caller must hold r.mu.
func (r *Registry) allocText(s string) TextHandle {
	th := TextHandle(r.nextID())
	r.texts[th] = s
	return th
}

// releaseLocked frees th. Caller must hold r.mu.
func (r *Registry) releaseLocked(th TextHandle) error {
	if _, ok := r.texts[th]; !ok {
		return r.textErr("release", th)
	}
	delete(r.texts, th)
	r.released[th] = struct{}{}
	return nil
}

// textErr distinguishes a released handle from one never issued.
// Caller must hold r.mu.
func (r *Registry) textErr(op string, th TextHandle) error {
	if _, ok := r.released[th]; ok {
		r.logger.Warn("text handle reused after release", "op", op, "handle", uint64(th))
		return fmt.Errorf("%s text %d: %w", op, th, ErrReleased)
	}
	return fmt.Errorf("%s text %d: %w", op, th, ErrUnknownHandle)
}
