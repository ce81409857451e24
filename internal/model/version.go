package model

// Version constants for the interchange document and engine.
const (
	// DocumentVersion is the project document schema version.
	DocumentVersion = "1"

	// EngineVersion is the splice engine version.
	EngineVersion = "0.1.0"
)

// DefaultProjectName is used when a project is created without a name.
const DefaultProjectName = "Untitled Project"
