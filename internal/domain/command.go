package domain

import (
	"strings"
	"time"
)

const (
	reporterFlag = "--reporter"
	reporterJSON = "json"
	fileFlag     = "--file"
	helpFlag     = "-h"

	// ToolBanner is what pydoctest prints at the top of its help text.
	ToolBanner = "usage: pydoctest"
	// InterpreterBanner is deliberately loose: python's usage line may
	// include the full interpreter path.
	InterpreterBanner = "usage: "
)

// Command is an argv-form invocation. No shell is involved.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// RunOutput is what a finished process left behind.
type RunOutput struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// ScopeKind selects between single-file and whole-workspace analysis.
type ScopeKind string

const (
	ScopeFile      ScopeKind = "file"
	ScopeWorkspace ScopeKind = "workspace"
)

type Scope struct {
	Kind ScopeKind `json:"kind"`
	Path string    `json:"path,omitempty"`
}

func FileScope(path string) Scope { return Scope{Kind: ScopeFile, Path: path} }

func WorkspaceScope() Scope { return Scope{Kind: ScopeWorkspace} }

// toolInvocation is the executable plus leading args that start pydoctest.
func toolInvocation(cfg Config) Command {
	if cfg.HasInterpreter() {
		return Command{Name: cfg.PythonInterpreterPath, Args: []string{"-m", cfg.ToolModule}}
	}
	return Command{Name: cfg.Tool}
}

// BuildCommand returns the pydoctest invocation for scope. A workspace
// scope omits --file so the tool discovers modules under its cwd.
func BuildCommand(cfg Config, scope Scope) Command {
	cmd := toolInvocation(cfg)
	cmd.Args = append(cmd.Args, reporterFlag, reporterJSON)
	if scope.Kind == ScopeFile && scope.Path != "" {
		cmd.Args = append(cmd.Args, fileFlag, scope.Path)
	}
	return cmd
}

// ToolHelpCommand asks pydoctest for its usage text.
func ToolHelpCommand(cfg Config) Command {
	cmd := toolInvocation(cfg)
	cmd.Args = append(cmd.Args, helpFlag)
	return cmd
}

// InterpreterHelpCommand asks the configured interpreter for its usage text.
func InterpreterHelpCommand(cfg Config) Command {
	return Command{Name: cfg.PythonInterpreterPath, Args: []string{helpFlag}}
}
