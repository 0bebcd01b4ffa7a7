package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/config"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/gitinfo"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/history"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/runner"
	"github.com/pydoclens/pydoclens/internal/application"
	"github.com/pydoclens/pydoclens/internal/domain"
)

// sessionFlags are shared by every command that runs pydoctest.
type sessionFlags struct {
	path        string
	workingDir  string
	interpreter string
	noHistory   bool
}

func (f *sessionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "path", "", "Workspace root (defaults to the enclosing git worktree or the current directory)")
	cmd.Flags().StringVar(&f.workingDir, "working-dir", "", "Directory pydoctest runs in, relative to the workspace root")
	cmd.Flags().StringVar(&f.interpreter, "interpreter", "", "Python interpreter used to run pydoctest as a module")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record runs in .pydoclens/history")
}

// workspaceRoot resolves --path the same way the session does.
func (f *sessionFlags) workspaceRoot() (string, error) {
	return application.ResolveWorkspaceRoot(f.path, gitinfo.New())
}

// open wires a session onto surface.
func (f *sessionFlags) open(logger *slog.Logger, surface domain.DiagnosticsSurface) (*application.Session, error) {
	git := gitinfo.New()
	root, err := application.ResolveWorkspaceRoot(f.path, git)
	if err != nil {
		return nil, err
	}

	deps := application.SessionDeps{
		Runner:  runner.New(),
		Surface: surface,
		Loader: config.WithOverrides(config.Overrides{
			WorkingDirectory:      f.workingDir,
			PythonInterpreterPath: f.interpreter,
		}),
		Git:           git,
		Logger:        logger,
		WorkspaceRoot: root,
	}
	if !f.noHistory {
		deps.History = history.New()
	}

	s, err := application.NewSession(deps)
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	logger.Debug("session ready", "workspace_root", root, "working_directory", s.WorkingDirectory())
	return s, nil
}
