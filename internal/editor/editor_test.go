package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/engine"
	"github.com/roach88/splice/internal/journal"
	"github.com/roach88/splice/internal/model"
	"github.com/roach88/splice/internal/testutil"
)

func setupTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// setupTestEditor creates a journaled editor on a clock stepping 1s per edit.
func setupTestEditor(t *testing.T, j *journal.Journal) *Editor {
	t.Helper()
	ed, err := New(context.Background(),
		WithClock(testutil.NewStepClock(testutil.Epoch, time.Second)),
		WithIDGenerator(testutil.NewSequentialIDGenerator("id")),
		WithJournal(j),
	)
	require.NoError(t, err)
	return ed
}

func addClip(id string, in, out uint64) engine.AddClip {
	return engine.AddClip{
		Clip:  model.Clip{ID: id, URL: "file:///media/" + id + ".mp4", InPoint: in, OutPoint: out},
		Index: -1,
	}
}

func TestNew_WithoutJournal(t *testing.T) {
	ed, err := New(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(ed.SessionID())
	assert.NoError(t, err, "default session IDs are UUIDs")

	snap := ed.Snapshot()
	assert.True(t, snap.HasProject)
	assert.Equal(t, model.DefaultProjectName, snap.Project.Name)
	assert.True(t, snap.Dirty)
}

func TestNew_RecordsSession(t *testing.T) {
	j := setupTestJournal(t)
	ed := setupTestEditor(t, j)
	ctx := context.Background()

	s, err := j.Session(ctx, ed.SessionID())
	require.NoError(t, err)
	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, model.DefaultProjectName, s.ProjectName)
	assert.Equal(t, testutil.Epoch, s.StartedAt)
	assert.Equal(t, model.EngineVersion, s.EngineVersion)

	entries, err := j.Entries(ctx, ed.SessionID())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.KindNewProject, entries[0].Kind)
	assert.Equal(t, model.DefaultProjectName, entries[0].Args[journal.ArgName])
}

func TestApply_JournalsEditsButNotTicks(t *testing.T) {
	j := setupTestJournal(t)
	ed := setupTestEditor(t, j)
	ctx := context.Background()

	for _, cmd := range []engine.Command{
		addClip("a", 0, 1000),
		engine.Play{},
		engine.Tick{Delta: 100},
		engine.Tick{Delta: 100},
		engine.Pause{},
	} {
		_, err := ed.Apply(ctx, cmd)
		require.NoError(t, err)
	}

	entries, err := j.Entries(ctx, ed.SessionID())
	require.NoError(t, err)

	kinds := make([]string, 0, len(entries))
	for i, e := range entries {
		kinds = append(kinds, e.Kind)
		assert.Equal(t, int64(i+1), e.Seq)
		assert.NotEmpty(t, e.Digest)
	}
	assert.Equal(t, []string{"new_project", "add_clip", "play", "pause"}, kinds)
	assert.Equal(t, uint64(200), ed.Snapshot().Playback.TimeMS)
}

func TestApply_DigestMatchesSnapshot(t *testing.T) {
	j := setupTestJournal(t)
	ed := setupTestEditor(t, j)
	ctx := context.Background()

	_, err := ed.Apply(ctx, addClip("a", 0, 500))
	require.NoError(t, err)

	entries, err := j.Entries(ctx, ed.SessionID())
	require.NoError(t, err)
	last := entries[len(entries)-1]

	snap := ed.Snapshot()
	assert.Equal(t, snap.Digest, last.Digest)
	assert.Equal(t, snap.Project.ModifiedAt, last.At, "journaled instant is the instant the engine used")
}

func TestApply_GeneratesMissingClipID(t *testing.T) {
	ed := setupTestEditor(t, nil)

	ev, err := ed.Apply(context.Background(), addClip("", 0, 100))

	require.NoError(t, err)
	require.Len(t, ev.Timeline.Clips, 1)
	assert.Equal(t, "id-2", ev.Timeline.Clips[0].ID)
}

func TestApply_NilCommand(t *testing.T) {
	ed := setupTestEditor(t, setupTestJournal(t))

	ev, err := ed.Apply(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, ev.Timeline.Clips)
}

func TestLoadProject_FailureNotJournaled(t *testing.T) {
	j := setupTestJournal(t)
	ed := setupTestEditor(t, j)
	ctx := context.Background()

	err := ed.LoadProject(ctx, []byte(`not json`))
	require.Error(t, err)
	assert.True(t, model.IsDocumentError(err))

	entries, err := j.Entries(ctx, ed.SessionID())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBookkeeping(t *testing.T) {
	ed := setupTestEditor(t, nil)

	ed.SetCurrentFilePath("/tmp/p.json")
	ed.MarkSaved()
	snap := ed.Snapshot()
	require.NotNil(t, snap.Path)
	assert.Equal(t, "/tmp/p.json", *snap.Path)
	assert.False(t, snap.Dirty)

	ed.ClearCurrentFilePath()
	assert.Nil(t, ed.Snapshot().Path)
}

func TestSnapshot_Playhead(t *testing.T) {
	ed := setupTestEditor(t, nil)
	ctx := context.Background()

	_, _ = ed.Apply(ctx, addClip("a", 0, 200))
	_, _ = ed.Apply(ctx, addClip("b", 200, 500))
	_, _ = ed.Apply(ctx, engine.Seek{Target: 250})

	snap := ed.Snapshot()
	require.NotNil(t, snap.Playhead)
	assert.Equal(t, 1, snap.Playhead.Index)
	assert.Equal(t, uint64(250), snap.Playhead.SourceMS)
	assert.Equal(t, uint64(500), snap.Duration)

	at, ok := ed.ClipAt(100)
	require.True(t, ok)
	assert.Equal(t, "a", at.Clip.ID)

	c, ok := ed.Clip(1)
	require.True(t, ok)
	assert.Equal(t, "b", c.ID)
}

func TestCloseProject(t *testing.T) {
	ed := setupTestEditor(t, setupTestJournal(t))
	ctx := context.Background()

	require.NoError(t, ed.CloseProject(ctx))

	snap := ed.Snapshot()
	assert.False(t, snap.HasProject)
	assert.Nil(t, snap.Project)
	assert.Empty(t, snap.Digest)

	_, err := ed.ExportProject()
	assert.ErrorIs(t, err, engine.ErrNoProject)
}

func TestApply_Concurrent(t *testing.T) {
	ed := setupTestEditor(t, setupTestJournal(t))
	ctx := context.Background()

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := ed.Apply(ctx, addClip(fmt.Sprintf("w%d-%d", w, i), 0, 10))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	snap := ed.Snapshot()
	assert.Len(t, snap.Project.Timeline.Clips, workers*perWorker)
}

func TestApply_AppendFailureStopsJournaling(t *testing.T) {
	j := setupTestJournal(t)
	ed := setupTestEditor(t, j)
	ctx := context.Background()

	_, err := ed.Apply(ctx, addClip("a", 0, 100))
	require.NoError(t, err)

	require.NoError(t, j.Close())

	_, err = ed.Apply(ctx, addClip("b", 0, 100))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrJournalBroken, "first failure reports the append error")

	_, err = ed.Apply(ctx, addClip("c", 0, 100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJournalBroken)

	err = ed.NewProject(ctx, "Next")
	assert.ErrorIs(t, err, ErrJournalBroken)

	snap := ed.Snapshot()
	require.NotNil(t, snap.Project)
	assert.Equal(t, "Next", snap.Project.Name, "edits still apply to the engine")
}
