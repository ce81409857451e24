package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// createTestJournal opens a journal in a temporary directory.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func createTestSession(id string, offset time.Duration) Session {
	return Session{
		ID:            id,
		ProjectName:   "Untitled Project",
		StartedAt:     epoch.Add(offset),
		EngineVersion: "0.1.0",
	}
}

func createTestEntry(sessionID string, seq int64, kind string, args map[string]any) Entry {
	return Entry{
		SessionID: sessionID,
		Seq:       seq,
		Kind:      kind,
		Args:      args,
		At:        epoch.Add(time.Duration(seq) * time.Millisecond),
		Digest:    "digest",
	}
}
