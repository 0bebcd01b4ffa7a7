package domain

import (
	"context"
	"time"
)

// ProcessRunner executes a command in dir and captures its output. A
// non-zero exit is reported through RunOutput.ExitCode, not as an error.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command, dir string) (*RunOutput, error)
}

// ConfigLoader loads project configuration from a workspace root.
type ConfigLoader interface {
	Load(workspaceRoot string) (Config, error)
}

// DiagnosticsSurface is where annotation sets end up. It owns its copy of
// whatever it is given.
type DiagnosticsSurface interface {
	Set(target string, annotations []Annotation)
	Delete(target string)
	Clear()
}

// RunHistory records one entry per analysis run.
type RunHistory interface {
	Append(workspaceRoot string, entry RunEntry) error
	Load(workspaceRoot string) ([]RunEntry, error)
}

// GitInfo answers questions about the repository enclosing a path.
type GitInfo interface {
	WorktreeRoot(path string) (string, error)
	CommitHash(path string) (string, error)
}

// RunEntry is a single line of run history.
type RunEntry struct {
	ID          string      `json:"id"`
	Time        time.Time   `json:"time"`
	Trigger     TriggerKind `json:"trigger"`
	Scope       Scope       `json:"scope"`
	Status      string      `json:"status"`
	ExitCode    int         `json:"exit_code"`
	Files       int         `json:"files"`
	Annotations int         `json:"annotations"`
	DurationMS  int64       `json:"duration_ms"`
	CommitHash  string      `json:"commit_hash,omitempty"`
	Error       string      `json:"error,omitempty"`
}
