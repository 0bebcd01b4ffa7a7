package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pydoclens/pydoclens/internal/domain"
)

const historyFile = ".pydoclens/history/runs.json"

// MaxEntries bounds the history file; older runs are dropped first.
const MaxEntries = 500

// FileHistory implements domain.RunHistory using JSON file storage.
type FileHistory struct {
	mu sync.Mutex
}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Append(workspaceRoot string, entry domain.RunEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.Load(workspaceRoot)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	fp := filepath.Join(workspaceRoot, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

func (h *FileHistory) Load(workspaceRoot string) ([]domain.RunEntry, error) {
	fp := filepath.Join(workspaceRoot, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Last returns at most n of the most recent entries, oldest first.
func Last(entries []domain.RunEntry, n int) []domain.RunEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
