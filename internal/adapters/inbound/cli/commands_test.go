package cli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/config"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/snapshot"
	"github.com/pydoclens/pydoclens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCommand(t *testing.T) {
	root := workspace(t, fakeTool(t, passingJSON))
	out, err := run(t, "probe", "--path", root)
	require.NoError(t, err)
	assert.Contains(t, out, "pydoctest")

	root = workspace(t, filepath.Join(t.TempDir(), "missing"))
	_, err = run(t, "probe", "--path", root)
	assert.ErrorIs(t, err, domain.ErrToolMissing)
}

func TestProbeCommand_InterpreterMissing(t *testing.T) {
	root := workspace(t, fakeTool(t, passingJSON))
	out, err := run(t, "probe", "--path", root, "--interpreter", filepath.Join(t.TempDir(), "python"), "--json")
	assert.ErrorIs(t, err, domain.ErrInterpreterMissing)
	assert.Contains(t, out, `"interpreter_found": false`)
}

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := run(t, "init", tmpDir, "--interpreter", ".venv/bin/python")
	require.NoError(t, err)
	assert.Contains(t, out, "Created .pydoclens.yaml")

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, ".venv/bin/python", cfg.PythonInterpreterPath)
	assert.Equal(t, domain.DefaultConfig().Exclude, cfg.Exclude)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".pydoclens.yaml"), []byte("existing"), 0644))

	_, err := run(t, "init", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".pydoclens.yaml"), []byte("old"), 0644))

	_, err := run(t, "init", tmpDir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".pydoclens.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "working_directory:")
	assert.Contains(t, string(data), "# python_interpreter_path:")
}

func TestDiagnosticsCommand(t *testing.T) {
	root := t.TempDir()

	_, err := run(t, "diagnostics", "--path", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no diagnostics saved")

	target := filepath.Join(root, "pkg", "mod.py")
	require.NoError(t, snapshot.New().Save(root, []domain.AnnotationSet{{
		Target: target,
		Annotations: []domain.Annotation{{
			Range:    domain.Range{StartLine: 6, EndLine: 6, StartColumn: 4, EndColumn: 80},
			Message:  "Missing return type",
			Severity: domain.SeverityError,
		}},
	}}))

	out, err := run(t, "diagnostics", "--path", root, "--plain")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("pkg", "mod.py")+":7:5: error: Missing return type\n", out)

	out, err = run(t, "diagnostics", "--path", root, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"workspace_root"`)
}

func TestDiagnosticsCommand_Clear(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, snapshot.New().Save(root, nil))

	out, err := run(t, "diagnostics", "--path", root, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared saved diagnostics")

	snap, err := snapshot.New().Load(root)
	require.NoError(t, err)
	assert.Nil(t, snap)

	_, err = run(t, "diagnostics", "--path", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no diagnostics saved")

	// clearing twice is fine
	_, err = run(t, "diagnostics", "--path", root, "--clear")
	assert.NoError(t, err)
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := run(t, "history", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No run history found.")
}
