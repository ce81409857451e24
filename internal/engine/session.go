package engine

import "github.com/roach88/splice/internal/model"

// Session is the engine's tri-state "is there a project" value.
// Callers type-switch on NoSession and ActiveSession:
//
//	switch s := eng.Session().(type) {
//	case engine.ActiveSession:
//	    render(s.Project)
//	case engine.NoSession:
//	    showEmptyState()
//	}
type Session interface {
	session()
}

// NoSession means no project is loaded. Queries return zero values and
// commands are no-ops.
type NoSession struct{}

// ActiveSession holds the project being edited.
type ActiveSession struct {
	Project model.Project
}

func (NoSession) session()     {}
func (ActiveSession) session() {}
