package sitebuild

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRunsInDirectory(t *testing.T) {
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}
	dir := t.TempDir()
	var out bytes.Buffer
	b := Builder{Command: "pwd", Stdout: &out}
	require.NoError(t, b.Run(t.Context(), dir))

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuilderDisabled(t *testing.T) {
	tests := []struct {
		name string
		b    Builder
		skip string
	}{
		{name: "no command", b: Builder{}},
		{name: "env skip", b: Builder{Command: "dumpsite-no-such-builder"}, skip: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(SkipEnv, tt.skip)
			assert.False(t, tt.b.Enabled())
			require.NoError(t, tt.b.Run(t.Context(), t.TempDir()))
		})
	}
}

func TestBuilderMissingBinary(t *testing.T) {
	t.Setenv(SkipEnv, "")
	err := Builder{Command: "dumpsite-no-such-builder"}.Run(t.Context(), t.TempDir())
	require.Error(t, err)
}
