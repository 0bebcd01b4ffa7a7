package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pydoclens/pydoclens/internal/domain"
)

// Snapshot is the persisted state of a diagnostics surface.
type Snapshot struct {
	WorkspaceRoot string                 `json:"workspace_root"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Sets          []domain.AnnotationSet `json:"sets"`
}

// Store persists diagnostics snapshots under <root>/.pydoclens.
type Store struct{}

// New creates a new file-based snapshot store.
func New() *Store {
	return &Store{}
}

// Load reads the snapshot for workspaceRoot. Returns (nil, nil) if none exists.
func (s *Store) Load(workspaceRoot string) (*Snapshot, error) {
	data, err := os.ReadFile(snapshotPath(workspaceRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing written yet is not an error
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes sets for workspaceRoot, creating directories as needed. The
// file is replaced atomically so readers never see a partial write.
func (s *Store) Save(workspaceRoot string, sets []domain.AnnotationSet) error {
	if err := os.MkdirAll(stateDir(workspaceRoot), 0755); err != nil {
		return err
	}

	if sets == nil {
		sets = []domain.AnnotationSet{}
	}
	data, err := json.MarshalIndent(Snapshot{
		WorkspaceRoot: workspaceRoot,
		UpdatedAt:     time.Now().UTC(),
		Sets:          sets,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := snapshotPath(workspaceRoot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, snapshotPath(workspaceRoot))
}

// Invalidate removes the snapshot file for workspaceRoot.
func (s *Store) Invalidate(workspaceRoot string) error {
	if err := os.Remove(snapshotPath(workspaceRoot)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func stateDir(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".pydoclens")
}

func snapshotPath(workspaceRoot string) string {
	return filepath.Join(stateDir(workspaceRoot), "diagnostics.json")
}
