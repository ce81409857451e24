package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/model"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SPLICE_DB", "")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

type response[T any] struct {
	Status    string    `json:"status"`
	Data      T         `json:"data"`
	Error     *CLIError `json:"error"`
	SessionID string    `json:"session_id"`
}

func decodeResponse[T any](t *testing.T, out string) response[T] {
	t.Helper()
	var resp response[T]
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// writeProject writes a two-clip project: c1 covers 0-200ms of the
// timeline, c2 covers 200-500ms from source 1000-1300ms.
func writeProject(t *testing.T, dir string) string {
	t.Helper()
	p := model.NewProject("Demo", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	p.Timeline.Clips = []model.Clip{
		{ID: "c1", URL: "file:///media/a.mp4", InPoint: 0, OutPoint: 200},
		{ID: "c2", URL: "file:///media/b.mp4", InPoint: 1000, OutPoint: 1300},
	}
	data, err := model.MarshalProject(p)
	require.NoError(t, err)
	return writeFile(t, dir, "demo.json", string(data))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const invalidProject = `{
  "name": "Bad",
  "timeline": {"clips": [{"id": "x", "url": "u", "in_point": 9, "out_point": 3}]},
  "created_at": "2026-01-02T03:04:05Z",
  "modified_at": "2026-01-02T03:04:05Z"
}`
