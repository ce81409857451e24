package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID is not in the journal.
var ErrSessionNotFound = errors.New("session not found")

// Session returns a single session by ID.
func (j *Journal) Session(ctx context.Context, id string) (Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, project_name, started_at, engine_version
		FROM sessions
		WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return s, err
}

// ListSessions returns every session ordered by start time, then ID.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, project_name, started_at, engine_version
		FROM sessions
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestSession returns the most recently started session.
func (j *Journal) LatestSession(ctx context.Context) (Session, error) {
	sessions, err := j.ListSessions(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrSessionNotFound
	}
	return sessions[len(sessions)-1], nil
}

// Entries returns every entry of a session ordered by seq.
// Returns an empty slice (not nil) when the session has no entries.
func (j *Journal) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, args, at, digest
		FROM entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// LastSeq returns the highest seq recorded for a session, or 0.
func (j *Journal) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM entries WHERE session_id = ?
	`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq.Int64, nil
}

// KindCounts returns how many entries of each kind a session holds.
func (j *Journal) KindCounts(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM entries
		WHERE session_id = ?
		GROUP BY kind
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query kind counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var s Session
	var startedAt string
	if err := r.Scan(&s.ID, &s.ProjectName, &startedAt, &s.EngineVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}

	t, err := parseTime(startedAt)
	if err != nil {
		return Session{}, fmt.Errorf("scan session %s: %w", s.ID, err)
	}
	s.StartedAt = t
	return s, nil
}

func scanEntry(r rowScanner) (Entry, error) {
	var e Entry
	var argsJSON, at string
	if err := r.Scan(&e.SessionID, &e.Seq, &e.Kind, &argsJSON, &at, &e.Digest); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry %d: %w", e.Seq, err)
	}
	e.Args = args

	t, err := parseTime(at)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry %d: %w", e.Seq, err)
	}
	e.At = t
	return e, nil
}
