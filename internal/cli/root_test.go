package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "splice", cmd.Use)
	assert.Contains(t, cmd.Long, "timeline")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"new", "apply", "inspect", "validate", "replay", "test", "serve"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command   string
		flag      string
		shorthand string
	}{
		{"new", "output", "o"},
		{"apply", "output", "o"},
		{"inspect", "at", ""},
		{"replay", "session", ""},
		{"test", "filter", ""},
		{"test", "update", ""},
		{"test", "golden", ""},
		{"serve", "addr", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := NewRootCommand().Find([]string{tt.command})
			require.NoError(t, err)

			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := runCLI(t, "new", "Demo", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestDatabaseFromEnvironment(t *testing.T) {
	t.Setenv("SPLICE_DB", filepath.Join(t.TempDir(), "env.db"))

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"replay"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No sessions found")
}

func TestLogger_DefaultsToDiscard(t *testing.T) {
	opts := &RootOptions{}
	assert.NotNil(t, opts.Logger())
}
