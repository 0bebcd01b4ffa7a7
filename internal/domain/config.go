package domain

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultTool       = "pydoctest"
	DefaultToolModule = "pydoctest.main"
	DefaultTimeout    = 2 * time.Minute
	DefaultDebounce   = 200 * time.Millisecond
)

// Config holds project-level configuration loaded from .pydoclens.yaml.
type Config struct {
	WorkingDirectory      string        `yaml:"working_directory"       json:"working_directory"`
	PythonInterpreterPath string        `yaml:"python_interpreter_path" json:"python_interpreter_path,omitempty"`
	Tool                  string        `yaml:"tool"                    json:"tool"`
	ToolModule            string        `yaml:"tool_module"             json:"tool_module"`
	Timeout               time.Duration `yaml:"timeout"                 json:"timeout"`
	Include               []string      `yaml:"include"                 json:"include,omitempty"`
	Exclude               []string      `yaml:"exclude"                 json:"exclude,omitempty"`
	Debounce              time.Duration `yaml:"debounce"                json:"debounce"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		WorkingDirectory: ".",
		Tool:             DefaultTool,
		ToolModule:       DefaultToolModule,
		Timeout:          DefaultTimeout,
		Include:          []string{"**/*.py"},
		Exclude: []string{
			".git/**", ".venv/**", "venv/**", "**/__pycache__/**", ".pydoclens/**",
		},
		Debounce: DefaultDebounce,
	}
}

// HasInterpreter reports whether invocations go through a Python interpreter.
func (c Config) HasInterpreter() bool { return c.PythonInterpreterPath != "" }

// ResolveWorkingDirectory joins WorkingDirectory onto the workspace root
// unless it is already absolute.
func (c Config) ResolveWorkingDirectory(workspaceRoot string) string {
	wd := c.WorkingDirectory
	if wd == "" {
		wd = "."
	}
	if filepath.IsAbs(wd) {
		return filepath.Clean(wd)
	}
	return filepath.Join(workspaceRoot, wd)
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if c.Tool == "" {
		return fmt.Errorf("tool must not be empty")
	}
	if c.HasInterpreter() && c.ToolModule == "" {
		return fmt.Errorf("tool_module must not be empty when python_interpreter_path is set")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", c.Timeout)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative (got %s)", c.Debounce)
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}
