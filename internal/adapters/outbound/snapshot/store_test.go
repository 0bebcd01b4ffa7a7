package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/snapshot"
	"github.com/pydoclens/pydoclens/internal/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := snapshot.New()
	root := t.TempDir()

	sets := []domain.AnnotationSet{{
		Target: "/a/b.py",
		Annotations: []domain.Annotation{{
			Range:    domain.Range{StartLine: 9, EndLine: 11, EndColumn: 80},
			Message:  "missing return doc",
			Severity: domain.SeverityError,
		}},
	}}
	require.NoError(t, store.Save(root, sets))

	loaded, err := store.Load(root)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, root, loaded.WorkspaceRoot)
	assert.Equal(t, sets, loaded.Sets)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestStore_SaveNilWritesEmptyList(t *testing.T) {
	store := snapshot.New()
	root := t.TempDir()
	require.NoError(t, store.Save(root, nil))

	loaded, err := store.Load(root)
	require.NoError(t, err)
	assert.NotNil(t, loaded.Sets)
	assert.Empty(t, loaded.Sets)
}

func TestStore_LoadNonExistent(t *testing.T) {
	loaded, err := snapshot.New().Load(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Invalidate(t *testing.T) {
	store := snapshot.New()
	root := t.TempDir()
	require.NoError(t, store.Save(root, nil))
	require.NoError(t, store.Invalidate(root))

	loaded, err := store.Load(root)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// a second invalidate is a no-op
	assert.NoError(t, store.Invalidate(root))
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	store := snapshot.New()
	root := t.TempDir()

	dir := filepath.Join(root, ".pydoclens")
	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err), "state directory should not exist before save")

	require.NoError(t, store.Save(root, nil))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join(dir, "diagnostics.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}
