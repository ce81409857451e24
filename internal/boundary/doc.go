// Package boundary exposes engines to a foreign host through opaque handles.
//
// A host never holds Go pointers. It holds an EngineHandle for each engine
// and a TextHandle for each string the registry produced. Text handles are
// owned by the host and must be released exactly once; the registry reports
// double release and use-after-release as errors instead of corrupting
// memory, and Live counts what is still outstanding so leaks are testable.
//
// Handles are never reused. Zero is never issued and means "absent".
package boundary
