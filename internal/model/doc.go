// Package model provides the timeline data model for splice.
//
// This package contains record types and their codecs only. All other
// internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - All times are uint64 milliseconds, never floats
//   - A clip's timeline position is implicit (magnetic timeline): it is the
//     sum of the durations of every preceding clip
//   - Derived values such as total duration are recomputed, never cached
//   - All JSON tags use snake_case
//   - Ownership is tree-shaped: Project owns Timeline owns Clips by value
package model
