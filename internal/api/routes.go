package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/model"
	"github.com/roach88/splice/internal/schema"
)

// maxBodyBytes bounds request bodies, including uploaded project documents.
const maxBodyBytes = 8 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Get("/timeline", timelineHandler(cfg))
	r.Get("/clips/{index}", clipHandler(cfg))
	r.Get("/playback", playbackHandler(cfg))
	r.Get("/playhead", playheadHandler(cfg))
	r.Post("/commands", commandHandler(cfg))

	r.Route("/project", func(r chi.Router) {
		r.Get("/", exportHandler(cfg))
		r.Put("/", loadHandler(cfg))
		r.Post("/new", newProjectHandler(cfg))
		r.Post("/saved", markSavedHandler(cfg))
		r.Put("/path", setPathHandler(cfg))
		r.Delete("/path", clearPathHandler(cfg))
		r.Get("/status", statusHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Version:   model.EngineVersion,
			UptimeS:   int64(time.Since(cfg.StartTime).Seconds()),
			SessionID: cfg.Editor.SessionID(),
		})
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Editor.Snapshot()
		resp := TimelineResponse{
			Timeline:   model.Timeline{Clips: []model.Clip{}},
			DurationMS: snap.Duration,
		}
		if snap.Project != nil {
			resp.Timeline = snap.Project.Timeline
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func clipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 {
			WriteError(w, http.StatusBadRequest, "index must be a non-negative integer", CodeInvalidIndex)
			return
		}

		clip, ok := cfg.Editor.Clip(index)
		if !ok {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("no clip at index %d", index), CodeClipNotFound)
			return
		}
		WriteJSON(w, http.StatusOK, clip)
	}
}

func playbackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Editor.Snapshot().Playback)
	}
}

// playheadHandler resolves ?at_ms= (default: the playhead) onto a clip.
func playheadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at := cfg.Editor.Snapshot().Playback.TimeMS
		if raw := r.URL.Query().Get("at_ms"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "at_ms must be a non-negative integer", CodeBadRequest)
				return
			}
			at = v
		}

		clip, ok := cfg.Editor.ClipAt(at)
		if !ok {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("no clip at %dms", at), CodeNoClip)
			return
		}
		WriteJSON(w, http.StatusOK, clip)
	}
}

func commandHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommandRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
			return
		}

		cmd, err := engine.DecodeCommand(req.Kind, req.Args)
		if err != nil {
			code := CodeInvalidCommand
			var ce *engine.CommandError
			if errors.As(err, &ce) {
				code = string(ce.Code)
			}
			WriteError(w, http.StatusBadRequest, err.Error(), code)
			return
		}

		ev, err := cfg.Editor.Apply(r.Context(), cmd)
		if err != nil {
			cfg.Logger.Error("journal append failed", "kind", req.Kind, "error", err, "request_id", requestID(r))
			WriteError(w, http.StatusInternalServerError, "command applied but not journaled", CodeJournal)
			return
		}
		WriteJSON(w, http.StatusOK, ev)
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := cfg.Editor.ExportProject()
		if errors.Is(err, engine.ErrNoProject) {
			WriteError(w, http.StatusNotFound, "no active project", CodeNoProject)
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to export project", CodeInternal)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// loadHandler validates the document against the schema before handing it
// to the engine, so a rejected upload leaves the project untouched.
func loadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read body", CodeBadRequest)
			return
		}
		data = bytes.TrimSpace(data)

		if err := schema.ValidateDocument(data); err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeInvalidDocument)
			return
		}
		if err := cfg.Editor.LoadProject(r.Context(), data); err != nil {
			if model.IsDocumentError(err) {
				WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeInvalidDocument)
				return
			}
			cfg.Logger.Error("journal append failed", "kind", "load_project", "error", err, "request_id", requestID(r))
			WriteError(w, http.StatusInternalServerError, "project loaded but not journaled", CodeJournal)
			return
		}
		WriteJSON(w, http.StatusOK, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}

func newProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewProjectRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				WriteError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
				return
			}
		}

		if err := cfg.Editor.NewProject(r.Context(), req.Name); err != nil {
			cfg.Logger.Error("journal append failed", "kind", "new_project", "error", err, "request_id", requestID(r))
			WriteError(w, http.StatusInternalServerError, "project created but not journaled", CodeJournal)
			return
		}
		WriteJSON(w, http.StatusCreated, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}

func markSavedHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Editor.MarkSaved()
		WriteJSON(w, http.StatusOK, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}

func setPathHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PathRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
			return
		}

		cfg.Editor.SetCurrentFilePath(req.Path)
		WriteJSON(w, http.StatusOK, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}

func clearPathHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Editor.ClearCurrentFilePath()
		WriteJSON(w, http.StatusOK, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, StatusFromSnapshot(cfg.Editor.Snapshot()))
	}
}
