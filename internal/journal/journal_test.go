package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.BeginSession(ctx, createTestSession("s1", 0)))
	require.NoError(t, j1.Close())

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "open %d", i)
		require.NoError(t, j.Close())
	}

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	sessions, err := j2.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestOpen_Pragmas(t *testing.T) {
	j := createTestJournal(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
		"user_version": strconv.Itoa(SchemaVersion()),
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := j.pragma(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestClose_NilDB(t *testing.T) {
	var j Journal
	assert.NoError(t, j.Close())
}

func TestBeginSession_Idempotent(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))
	dup := createTestSession("s1", time.Hour)
	dup.ProjectName = "Other"
	require.NoError(t, j.BeginSession(ctx, dup))

	got, err := j.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Project", got.ProjectName)
	assert.Equal(t, epoch, got.StartedAt)
}

func TestSession_NotFound(t *testing.T) {
	j := createTestJournal(t)

	_, err := j.Session(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_Ordered(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	empty, err := j.ListSessions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, j.BeginSession(ctx, createTestSession("late", 2*time.Hour)))
	require.NoError(t, j.BeginSession(ctx, createTestSession("early", 0)))
	require.NoError(t, j.BeginSession(ctx, createTestSession("middle", time.Hour)))

	sessions, err := j.ListSessions(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"early", "middle", "late"}, ids)

	latest, err := j.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", latest.ID)
}

func TestLatestSession_Empty(t *testing.T) {
	j := createTestJournal(t)

	_, err := j.LatestSession(context.Background())

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAppend_RoundTrip(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))

	in := createTestEntry("s1", 1, "cut_clip", map[string]any{
		"index":    1,
		"position": uint64(18446744073709551615),
	})
	in.At = epoch.Add(1500 * time.Microsecond)
	require.NoError(t, j.Append(ctx, in))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "cut_clip", got.Kind)
	assert.Equal(t, in.At, got.At)
	assert.Equal(t, "digest", got.Digest)
	assert.Equal(t, json.Number("1"), got.Args["index"])
	assert.Equal(t, json.Number("18446744073709551615"), got.Args["position"])
}

func TestAppend_NilArgs(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))

	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "play", nil)))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{}, entries[0].Args)
}

func TestAppend_IdempotentOnSeq(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))

	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "play", nil)))
	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "pause", nil)))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "play", entries[0].Kind)
}

func TestAppend_RequiresSession(t *testing.T) {
	j := createTestJournal(t)

	err := j.Append(context.Background(), createTestEntry("ghost", 1, "play", nil))

	assert.Error(t, err, "foreign key must reject entries without a session")
}

func TestAppend_RejectsUnencodableArgs(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))

	err := j.Append(ctx, createTestEntry("s1", 1, "seek", map[string]any{"target_ms": 1.5}))

	assert.Error(t, err)
}

func TestEntries_OrderedBySeq(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))
	require.NoError(t, j.BeginSession(ctx, createTestSession("s2", time.Minute)))

	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, j.Append(ctx, createTestEntry("s1", seq, "play", nil)))
	}
	require.NoError(t, j.Append(ctx, createTestEntry("s2", 1, "pause", nil)))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}

	none, err := j.Entries(ctx, "unknown")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLastSeq(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))

	seq, err := j.LastSeq(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "play", nil)))
	require.NoError(t, j.Append(ctx, createTestEntry("s1", 7, "pause", nil)))

	seq, err = j.LastSeq(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

func TestOpen_InMemory(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))
	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "play", nil)))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestKindCounts(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, createTestSession("s1", 0)))
	require.NoError(t, j.BeginSession(ctx, createTestSession("s2", time.Second)))

	require.NoError(t, j.Append(ctx, createTestEntry("s1", 1, "new_project", nil)))
	require.NoError(t, j.Append(ctx, createTestEntry("s1", 2, "add_clip", nil)))
	require.NoError(t, j.Append(ctx, createTestEntry("s1", 3, "add_clip", nil)))
	require.NoError(t, j.Append(ctx, createTestEntry("s2", 1, "play", nil)))

	counts, err := j.KindCounts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"new_project": 1, "add_clip": 2}, counts)

	counts, err = j.KindCounts(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, counts)
}
