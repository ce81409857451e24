// Package journal provides SQLite-backed durable history of editor sessions.
//
// A journal is an append-only log with:
//   - Sessions: one row per editor session (UUIDv7 id, project name, start time)
//   - Entries: one row per journaled command, keyed by (session_id, seq)
//
// # Ordering
//
// Entries are ordered by seq, a logical counter owned by the editor, never by
// wall time. The recorded wall time (at) is the instant the engine used for
// that command, so replay can pin its clock and reproduce split IDs and
// modified_at exactly.
//
// # Storage Format
//
// Args are stored as canonical JSON (model.MarshalCanonical) and read back
// with json.Number so large millisecond values survive the round trip.
// Strings are kept exactly as the host sent them.
// Timestamps are stored as RFC 3339 UTC text with nanoseconds.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Entries must reference an existing session
package journal
