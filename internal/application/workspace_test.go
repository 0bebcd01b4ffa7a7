package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pydoclens/pydoclens/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	root, err := application.ResolveWorkspaceRoot(dir, fakeGit{root: "/somewhere/else"})
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestResolveWorkspaceRoot_MissingPath(t *testing.T) {
	_, err := application.ResolveWorkspaceRoot(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestResolveWorkspaceRoot_FileIsNotAWorkspace(t *testing.T) {
	f := filepath.Join(t.TempDir(), "mod.py")
	require.NoError(t, os.WriteFile(f, []byte("x = 1\n"), 0o644))
	_, err := application.ResolveWorkspaceRoot(f, nil)
	assert.Error(t, err)
}

func TestResolveWorkspaceRoot_GitWorktree(t *testing.T) {
	root, err := application.ResolveWorkspaceRoot("", fakeGit{root: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, "/repo", root)
}

func TestResolveWorkspaceRoot_FallsBackToCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, err := application.ResolveWorkspaceRoot("", fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, cwd, root)

	root, err = application.ResolveWorkspaceRoot("", nil)
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
}
