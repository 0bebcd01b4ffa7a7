package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "github.com/pydoclens/pydoclens/internal/adapters/outbound/config"
	"github.com/pydoclens/pydoclens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, appconfig.FileName), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
working_directory: src
python_interpreter_path: /usr/bin/python3
timeout: 30s
debounce: 1s
include:
  - "pkg/**/*.py"
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.WorkingDirectory)
	assert.Equal(t, "/usr/bin/python3", cfg.PythonInterpreterPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, []string{"pkg/**/*.py"}, cfg.Include)

	// untouched keys keep their defaults
	assert.Equal(t, "pydoctest", cfg.Tool)
	assert.Equal(t, "pydoctest.main", cfg.ToolModule)
	assert.Equal(t, domain.DefaultConfig().Exclude, cfg.Exclude)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .pydoclens.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `tool: ""`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .pydoclens.yaml")
}

func TestYAMLLoader_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
working_directory: src
python_interpreter_path: python3
`)

	loader := appconfig.WithOverrides(appconfig.Overrides{
		WorkingDirectory:      "lib",
		PythonInterpreterPath: "/opt/py/bin/python",
	})
	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "lib", cfg.WorkingDirectory)
	assert.Equal(t, "/opt/py/bin/python", cfg.PythonInterpreterPath)
}

func TestYAMLLoader_EmptyOverridesKeepFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `working_directory: src`)

	cfg, err := appconfig.WithOverrides(appconfig.Overrides{}).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.WorkingDirectory)
}

func TestYAMLLoader_CamelCaseKeys(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
workingDirectory: src
pythonInterpreterPath: /usr/bin/python3
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.WorkingDirectory)
	assert.Equal(t, "/usr/bin/python3", cfg.PythonInterpreterPath)
}

func TestYAMLLoader_SnakeCaseWinsOverCamelCase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
workingDirectory: camel
working_directory: snake
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "snake", cfg.WorkingDirectory)
}
