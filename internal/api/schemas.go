package api

import (
	"github.com/roach88/splice/internal/editor"
	"github.com/roach88/splice/internal/model"
)

// Error codes.
const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInvalidCommand  = "INVALID_COMMAND"
	CodeInvalidIndex    = "INVALID_INDEX"
	CodeClipNotFound    = "CLIP_NOT_FOUND"
	CodeNoClip          = "NO_CLIP_AT_TIME"
	CodeNoProject       = "NO_PROJECT"
	CodeInvalidDocument = "INVALID_DOCUMENT"
	CodeJournal         = "JOURNAL_ERROR"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	UptimeS   int64  `json:"uptime_s"`
	SessionID string `json:"session_id"`
}

type TimelineResponse struct {
	Timeline   model.Timeline `json:"timeline"`
	DurationMS uint64         `json:"duration_ms"`
}

type CommandRequest struct {
	Kind string         `json:"kind"`
	Args map[string]any `json:"args"`
}

type NewProjectRequest struct {
	Name string `json:"name"`
}

type PathRequest struct {
	Path string `json:"path"`
}

// StatusResponse summarizes the project without its clips.
type StatusResponse struct {
	HasProject bool    `json:"has_project"`
	Name       string  `json:"name,omitempty"`
	Dirty      bool    `json:"dirty"`
	Path       *string `json:"path,omitempty"`
	ClipCount  int     `json:"clip_count"`
	DurationMS uint64  `json:"duration_ms"`
	Digest     string  `json:"digest,omitempty"`
}

func StatusFromSnapshot(s editor.Snapshot) StatusResponse {
	resp := StatusResponse{
		HasProject: s.HasProject,
		Dirty:      s.Dirty,
		Path:       s.Path,
		DurationMS: s.Duration,
		Digest:     s.Digest,
	}
	if s.Project != nil {
		resp.Name = s.Project.Name
		resp.ClipCount = s.Project.Timeline.Len()
	}
	return resp
}
