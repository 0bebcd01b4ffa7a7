package application

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pydoclens/pydoclens/internal/domain"
)

// ResolveWorkspaceRoot picks the workspace root: an explicit path wins,
// then the git worktree enclosing the current directory, then the current
// directory itself. git may be nil.
func ResolveWorkspaceRoot(path string, git domain.GitInfo) (string, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolving workspace path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace path: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path %s is not a directory", abs)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if git != nil {
		if root, err := git.WorktreeRoot(cwd); err == nil && root != "" {
			return root, nil
		}
	}
	return cwd, nil
}
