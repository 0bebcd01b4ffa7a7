package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pydoclens/pydoclens/internal/domain"
)

// WaitDelay is how long Run keeps waiting for output after the context
// stops the process. Wrappers that fork (shell scripts, poetry run) leave
// children holding the pipes; after this delay the pipes are closed anyway.
const WaitDelay = time.Second

// Runner implements domain.ProcessRunner with os/exec. Commands are started
// directly, never through a shell.
type Runner struct {
	// Env is appended to the parent environment of every child.
	Env []string
}

// New creates a Runner that inherits the parent environment.
func New() *Runner {
	return &Runner{}
}

// Error is returned when a process could not be started or was stopped by
// its context. Output holds whatever was captured before that happened.
type Error struct {
	Command domain.Command
	Dir     string
	Output  *domain.RunOutput
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("running %q in %s: %v", e.Command.String(), e.Dir, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Run executes cmd in dir with an empty stdin and captures stdout and
// stderr separately. A non-zero exit status is not an error: pydoctest exits
// non-zero whenever validation fails, and the report is still on stdout.
func (r *Runner) Run(ctx context.Context, cmd domain.Command, dir string) (*domain.RunOutput, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = dir
	c.WaitDelay = WaitDelay
	if len(r.Env) > 0 {
		c.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	out := &domain.RunOutput{
		Stdout:   text(stdout.Bytes()),
		Stderr:   text(stderr.Bytes()),
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		out.ExitCode = c.ProcessState.ExitCode()
	}

	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, &Error{Command: cmd, Dir: dir, Output: out, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, &Error{Command: cmd, Dir: dir, Output: out, Err: err}
}

func text(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
