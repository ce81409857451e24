package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir_Testdata(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")

	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "cut_and_play", scenarios[0].Name)
	assert.Equal(t, "trim_remove_close", scenarios[1].Name)
}

func TestParse_Minimal(t *testing.T) {
	s, err := Parse([]byte(`
name: minimal
description: one play
steps:
  - kind: play
`))

	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Steps, 1)
	assert.Nil(t, s.Steps[0].Expect)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: d\nstep: []\n",
			wantErr: "field step not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{kind: play}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nsteps: [{kind: play}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\nsteps: []\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown kind",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: explode}]\n",
			wantErr: "steps[0]",
		},
		{
			name:    "missing arg",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: seek}]\n",
			wantErr: "target_ms",
		},
		{
			name:    "negative index",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: remove_clip, args: {index: -1}}]\n",
			wantErr: "index",
		},
		{
			name:    "load without document",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: load_project}]\n",
			wantErr: "document",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: play}]\nassertions: [{type: vibes}]\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "state without expect",
			yaml:    "name: x\ndescription: d\nsteps: [{kind: play}]\nassertions: [{type: state}]\n",
			wantErr: "expect is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("name: x\n"), 0o644))

	_, err := LoadDir(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}
