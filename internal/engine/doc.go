// Package engine implements the splice timeline state engine.
//
// The engine owns one editing session (an active project, or none), a dirty
// flag, the externally tracked file path and the playback state. Callers
// submit Command values through Handle and read back the full timeline.
//
// ARCHITECTURE:
//
// Single-Threaded, Synchronous, Reactive:
// The engine never initiates calls outward, never blocks and performs no
// I/O. Every method is called-and-returns. It holds no locks: the caller
// serializes access (see internal/editor for the locking facade).
//
// Command Processing:
//  1. Caller submits a Command (closed set of variants)
//  2. Handle() applies it to the active project, clamping or ignoring
//     invalid input rather than failing
//  3. Every command except Tick marks the project dirty and refreshes
//     modified_at, even when nothing changed
//  4. A TimelineChanged event carrying a copy of the full timeline is returned
//
// Playhead Resolution:
// The global playback time is mapped onto a clip by a linear scan over the
// magnetic timeline. There is no cache; timelines are small.
//
// Ownership:
// Engine owns its Project; Project owns its Timeline; Timeline owns its
// Clips by value. Everything handed out is a copy.
package engine
