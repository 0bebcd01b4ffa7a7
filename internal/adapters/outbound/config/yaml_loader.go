package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pydoclens/pydoclens/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = ".pydoclens.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .pydoclens.yaml.
type YAMLLoader struct {
	overrides Overrides
}

// Overrides are values supplied on the command line. Non-empty fields win
// over the file.
type Overrides struct {
	WorkingDirectory      string
	PythonInterpreterPath string
}

// aliases are the camelCase spellings editor settings use for the two
// path keys. The snake_case keys win when both are present.
type aliases struct {
	WorkingDirectory      *string `yaml:"workingDirectory"`
	PythonInterpreterPath *string `yaml:"pythonInterpreterPath"`
}

func (a aliases) apply(cfg *domain.Config) {
	if a.WorkingDirectory != nil {
		cfg.WorkingDirectory = *a.WorkingDirectory
	}
	if a.PythonInterpreterPath != nil {
		cfg.PythonInterpreterPath = *a.PythonInterpreterPath
	}
}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// WithOverrides returns a loader that applies o after reading the file.
func WithOverrides(o Overrides) *YAMLLoader { return &YAMLLoader{overrides: o} }

// Load reads .pydoclens.yaml from workspaceRoot. Keys absent from the file
// keep their defaults; a missing file yields DefaultConfig.
func (l *YAMLLoader) Load(workspaceRoot string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(workspaceRoot, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		var alt aliases
		if err := yaml.Unmarshal(data, &alt); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		alt.apply(&cfg)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	}

	if l.overrides.WorkingDirectory != "" {
		cfg.WorkingDirectory = l.overrides.WorkingDirectory
	}
	if l.overrides.PythonInterpreterPath != "" {
		cfg.PythonInterpreterPath = l.overrides.PythonInterpreterPath
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}
