package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/pydoclens/pydoclens/internal/domain"
)

type call struct {
	cmd domain.Command
	dir string
}

type response struct {
	out *domain.RunOutput
	err error
}

// fakeRunner answers commands by their string form. Unknown commands fail
// as if the binary did not exist.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]response
	calls     []call
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]response)}
}

func (f *fakeRunner) on(cmd string, stdout string) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = response{out: &domain.RunOutput{Stdout: stdout}}
	return f
}

func (f *fakeRunner) reply(cmd string, out domain.RunOutput) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = response{out: &out}
	return f
}

func (f *fakeRunner) fail(cmd string, err error) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd] = response{out: &domain.RunOutput{}, err: err}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, cmd domain.Command, dir string) (*domain.RunOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{cmd: cmd, dir: dir})
	if err := ctx.Err(); err != nil {
		return &domain.RunOutput{}, err
	}
	r, ok := f.responses[cmd.String()]
	if !ok {
		return nil, errors.New("executable file not found in $PATH")
	}
	cp := *r.out
	return &cp, r.err
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.cmd.String())
	}
	return out
}

type staticLoader struct {
	mu  sync.Mutex
	cfg domain.Config
	err error
}

func (l *staticLoader) Load(string) (domain.Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg, l.err
}

func (l *staticLoader) set(cfg domain.Config) {
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

type memHistory struct {
	mu      sync.Mutex
	entries []domain.RunEntry
}

func (h *memHistory) Append(_ string, e domain.RunEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *memHistory) Load(string) ([]domain.RunEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.RunEntry(nil), h.entries...), nil
}

type fakeGit struct{ root, hash string }

func (g fakeGit) WorktreeRoot(string) (string, error) {
	if g.root == "" {
		return "", errors.New("not a git repository")
	}
	return g.root, nil
}

func (g fakeGit) CommitHash(string) (string, error) { return g.hash, nil }
