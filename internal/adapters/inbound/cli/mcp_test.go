package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServe_MissingWorkspace(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := run(t, "mcp", "serve", "--path", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace path")
}

func TestMCPServe_WorkspaceIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "mod.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	_, err := run(t, "mcp", "serve", "--path", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestMCPServe_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pydoclens.yaml"), []byte("tool: \"\"\n"), 0o644))

	_, err := run(t, "mcp", "serve", "--path", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting session")
}
