// Package editor shares one timeline engine between goroutines and records
// its history.
//
// An Editor owns an engine.Engine behind a mutex. Every edit is applied with
// the engine clock pinned to a single instant read from the wall clock, so
// the instant stored in the journal is exactly the instant the engine used
// for split IDs and modified_at. Replaying the journal with the clock pinned
// to each recorded instant therefore rebuilds a byte-identical project, which
// Replay checks entry by entry against the recorded digests.
//
// Tick is passive time advancement and is never journaled. Path bookkeeping
// (file path, saved flag) is host state and is not journaled either.
package editor
