package journal

import "time"

// Session describes one editor session.
type Session struct {
	ID            string    `json:"id"`
	ProjectName   string    `json:"project_name"`
	StartedAt     time.Time `json:"started_at"`
	EngineVersion string    `json:"engine_version"`
}

// Entry is one journaled command.
//
// Kind is an engine command kind or one of the lifecycle kinds below.
// Digest is the project digest after the command was applied, or empty
// when the command left no active project.
type Entry struct {
	SessionID string         `json:"session_id"`
	Seq       int64          `json:"seq"`
	Kind      string         `json:"kind"`
	Args      map[string]any `json:"args"`
	At        time.Time      `json:"at"`
	Digest    string         `json:"digest"`
}

// Lifecycle entry kinds. These sit alongside engine command kinds.
const (
	KindNewProject   = "new_project"
	KindLoadProject  = "load_project"
	KindCloseProject = "close_project"
)

// Lifecycle argument names.
const (
	ArgName     = "name"
	ArgDocument = "document"
)
