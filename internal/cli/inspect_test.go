package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Text(t *testing.T) {
	path := writeProject(t, t.TempDir())

	out, err := runCLI(t, "inspect", path, "--at", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "Project: Demo")
	assert.Contains(t, out, "Duration: 500ms")
	assert.Contains(t, out, "at 200-500ms")
	assert.Contains(t, out, "At 250ms: clip 1 (c2) source 1050ms")
}

func TestInspect_JSON(t *testing.T) {
	path := writeProject(t, t.TempDir())

	out, err := runCLI(t, "inspect", path, "--at", "250", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[InspectResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Demo", resp.Data.Name)
	assert.Equal(t, uint64(500), resp.Data.DurationMS)
	assert.Len(t, resp.Data.Digest, 64)

	require.Len(t, resp.Data.Clips, 2)
	assert.Equal(t, ClipRow{
		Index: 1, ID: "c2", URL: "file:///media/b.mp4",
		InPoint: 1000, OutPoint: 1300, StartMS: 200, EndMS: 500,
	}, resp.Data.Clips[1])

	require.NotNil(t, resp.Data.Playhead)
	assert.Equal(t, 1, resp.Data.Playhead.Index)
	assert.Equal(t, uint64(1050), resp.Data.Playhead.SourceMS)
}

func TestInspect_AtPastEnd(t *testing.T) {
	path := writeProject(t, t.TempDir())

	out, err := runCLI(t, "inspect", path, "--at", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "At 500ms: no clip")
}

func TestInspect_WithoutAt(t *testing.T) {
	path := writeProject(t, t.TempDir())

	out, err := runCLI(t, "inspect", path, "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[InspectResult](t, out)
	assert.Nil(t, resp.Data.AtMS)
	assert.Nil(t, resp.Data.Playhead)
}

func TestInspect_InvalidDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", invalidProject)

	_, err := runCLI(t, "inspect", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
