package journal

import (
	"context"
	"fmt"
)

// BeginSession records a new session.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-registering a session
// is silently ignored.
func (j *Journal) BeginSession(ctx context.Context, s Session) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project_name, started_at, engine_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		s.ID,
		s.ProjectName,
		formatTime(s.StartedAt),
		s.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// Append inserts an entry into the journal.
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency - a duplicate
// write of the same (session, seq) is silently ignored.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (j *Journal) Append(ctx context.Context, e Entry) error {
	argsJSON, err := marshalArgs(e.Args)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO entries (session_id, seq, kind, args, at, digest)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		e.SessionID,
		e.Seq,
		e.Kind,
		argsJSON,
		formatTime(e.At),
		e.Digest,
	)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}
