package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pydoclens/pydoclens/internal/domain"
	"github.com/pydoclens/pydoclens/internal/domain/diagnose"
	"github.com/pydoclens/pydoclens/internal/logging"
)

// SessionDeps are the collaborators a Session works with. History and Git
// are optional.
type SessionDeps struct {
	Runner        domain.ProcessRunner
	Surface       domain.DiagnosticsSurface
	Loader        domain.ConfigLoader
	History       domain.RunHistory
	Git           domain.GitInfo
	Logger        *slog.Logger
	WorkspaceRoot string
}

// Analysis is the outcome of one successful pydoctest run.
type Analysis struct {
	RunID    string                 `json:"run_id"`
	Scope    domain.Scope           `json:"scope"`
	Status   domain.Status          `json:"-"`
	ExitCode int                    `json:"exit_code"`
	Sets     []domain.AnnotationSet `json:"sets"`
	Duration time.Duration          `json:"-"`
}

// MarshalJSON writes the status by name and the duration in milliseconds.
func (a Analysis) MarshalJSON() ([]byte, error) {
	type plain Analysis
	p := plain(a)
	if p.Sets == nil {
		p.Sets = []domain.AnnotationSet{}
	}
	return json.Marshal(struct {
		plain
		Status      string `json:"status"`
		Annotations int    `json:"annotations"`
		DurationMS  int64  `json:"duration_ms"`
	}{p, a.Status.String(), diagnose.Count(a.Sets), a.Duration.Milliseconds()})
}

// Annotations returns the total number of annotations across all sets.
func (a *Analysis) Annotations() int {
	if a == nil {
		return 0
	}
	return diagnose.Count(a.Sets)
}

// Session owns the configuration and decides when pydoctest runs and what
// happens to the diagnostics surface afterwards.
type Session struct {
	runner  domain.ProcessRunner
	prober  *Prober
	surface domain.DiagnosticsSurface
	loader  domain.ConfigLoader
	history domain.RunHistory
	git     domain.GitInfo
	logger  *slog.Logger
	root    string

	mu  sync.RWMutex
	cfg domain.Config
}

// NewSession loads the configuration for the workspace root and returns a
// session ready to Start.
func NewSession(deps SessionDeps) (*Session, error) {
	if deps.Runner == nil || deps.Surface == nil || deps.Loader == nil {
		return nil, errors.New("session needs a runner, a diagnostics surface and a config loader")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Session{
		runner:  deps.Runner,
		prober:  NewProber(deps.Runner, logger),
		surface: deps.Surface,
		loader:  deps.Loader,
		history: deps.History,
		git:     deps.Git,
		logger:  logger,
		root:    filepath.Clean(deps.WorkspaceRoot),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the configuration currently in effect.
func (s *Session) Config() domain.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Session) WorkspaceRoot() string { return s.root }

// WorkingDirectory is where pydoctest runs.
func (s *Session) WorkingDirectory() string {
	return s.Config().ResolveWorkingDirectory(s.root)
}

// Reload re-reads the configuration. On error the previous configuration
// stays in effect.
func (s *Session) Reload() error {
	cfg, err := s.loader.Load(s.root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Debug("config loaded",
		"working_directory", cfg.WorkingDirectory,
		"interpreter", cfg.PythonInterpreterPath,
		"timeout", cfg.Timeout)
	return nil
}

// Probe checks interpreter and tool availability with the current config.
func (s *Session) Probe(ctx context.Context) domain.ProbeReport {
	return s.prober.Probe(ctx, s.Config())
}

// Start probes the toolchain and, when everything is available, analyses
// each active file and then the whole workspace. A failed probe returns
// domain.ErrInterpreterMissing or domain.ErrToolMissing and leaves the
// surface untouched. Individual analysis failures are logged only.
func (s *Session) Start(ctx context.Context, active ...string) error {
	report := s.Probe(ctx)
	if err := report.Err(); err != nil {
		if errors.Is(err, domain.ErrInterpreterMissing) {
			return fmt.Errorf("%w: %s", err, report.Interpreter)
		}
		return fmt.Errorf("%w: %s", err, report.ToolCommand)
	}

	for _, path := range active {
		if _, err := s.analyzeFile(ctx, domain.Trigger{Kind: domain.TriggerFocus, Path: path}); err != nil {
			s.logger.Error("analysis failed", "path", path, "error", err)
		}
	}
	if _, err := s.analyzeWorkspace(ctx, domain.TriggerStartup); err != nil {
		s.logger.Error("analysis failed", "scope", domain.ScopeWorkspace, "error", err)
	}
	return nil
}

// AnalyzeFile runs pydoctest on a single file and replaces that file's
// diagnostics. Files without a .py suffix are ignored and yield nil.
func (s *Session) AnalyzeFile(ctx context.Context, path string) (*Analysis, error) {
	return s.analyzeFile(ctx, domain.Trigger{Kind: domain.TriggerCommand, Path: path})
}

// AnalyzeWorkspace runs pydoctest over the working directory and replaces
// every diagnostic on the surface.
func (s *Session) AnalyzeWorkspace(ctx context.Context) (*Analysis, error) {
	return s.analyzeWorkspace(ctx, domain.TriggerCommand)
}

// Handle reacts to a single trigger.
func (s *Session) Handle(ctx context.Context, t domain.Trigger) error {
	switch t.Kind {
	case domain.TriggerStartup:
		return s.Start(ctx)
	case domain.TriggerFocus, domain.TriggerSave:
		_, err := s.analyzeFile(ctx, t)
		return err
	case domain.TriggerConfig:
		if err := s.Reload(); err != nil {
			return err
		}
		_, err := s.analyzeWorkspace(ctx, t.Kind)
		return err
	case domain.TriggerCommand:
		if t.Path != "" {
			_, err := s.analyzeFile(ctx, t)
			return err
		}
		_, err := s.analyzeWorkspace(ctx, t.Kind)
		return err
	default:
		return fmt.Errorf("unknown trigger %q", t.Kind)
	}
}

// Subscribe registers the session on every trigger kind of q and returns
// a function that removes all of those subscriptions.
func (s *Session) Subscribe(q *EventQueue) (unsubscribe func()) {
	handler := func(ctx context.Context, t domain.Trigger) {
		if err := s.Handle(ctx, t); err != nil {
			s.logger.Error("analysis failed", "trigger", t.Kind, "path", t.Path, "error", err)
		}
	}
	kinds := []domain.TriggerKind{
		domain.TriggerStartup, domain.TriggerFocus, domain.TriggerSave,
		domain.TriggerConfig, domain.TriggerCommand,
	}
	unsubs := make([]func(), 0, len(kinds))
	for _, k := range kinds {
		unsubs = append(unsubs, q.Subscribe(k, handler))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (s *Session) analyzeFile(ctx context.Context, t domain.Trigger) (*Analysis, error) {
	if !strings.HasSuffix(t.Path, ".py") {
		s.logger.Debug("skipping non-python file", "path", t.Path)
		return nil, nil
	}
	path := s.absolute(s.root, t.Path)
	a, err := s.run(ctx, t.Kind, domain.FileScope(path))
	if err != nil {
		return nil, err
	}
	s.surface.Delete(path)
	for _, set := range a.Sets {
		s.surface.Set(set.Target, set.Annotations)
	}
	return a, nil
}

func (s *Session) analyzeWorkspace(ctx context.Context, kind domain.TriggerKind) (*Analysis, error) {
	a, err := s.run(ctx, kind, domain.WorkspaceScope())
	if err != nil {
		return nil, err
	}
	s.surface.Clear()
	for _, set := range a.Sets {
		s.surface.Set(set.Target, set.Annotations)
	}
	return a, nil
}

// run invokes pydoctest for scope and maps its report. It never touches
// the surface.
func (s *Session) run(ctx context.Context, kind domain.TriggerKind, scope domain.Scope) (*Analysis, error) {
	cfg := s.Config()
	dir := cfg.ResolveWorkingDirectory(s.root)
	cmd := domain.BuildCommand(cfg, scope)

	id := uuid.NewString()
	logger := s.logger.With("run_id", id, "scope", scope.Kind)
	if scope.Path != "" {
		logger = logger.With("path", scope.Path)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	entry := domain.RunEntry{ID: id, Time: time.Now().UTC(), Trigger: kind, Scope: scope}
	logger.Debug("running pydoctest", "command", cmd.String(), "dir", dir)

	out, err := s.runner.Run(ctx, cmd, dir)
	if out != nil {
		entry.ExitCode = out.ExitCode
		entry.DurationMS = out.Duration.Milliseconds()
		if out.Stderr != "" {
			logger.Debug("pydoctest stderr", "stderr", out.Stderr)
		}
	}
	if err != nil {
		err = fmt.Errorf("running %s: %w", cmd.Name, err)
		s.record(logger, entry, err)
		return nil, err
	}

	report, err := domain.ParseReport([]byte(out.Stdout))
	if err != nil {
		err = fmt.Errorf("reading pydoctest output: %w", err)
		s.record(logger, entry, err)
		return nil, err
	}

	sets := diagnose.Map(report)
	for i := range sets {
		sets[i].Target = s.absolute(dir, sets[i].Target)
	}

	a := &Analysis{
		RunID:    id,
		Scope:    scope,
		Status:   report.Status,
		ExitCode: out.ExitCode,
		Sets:     sets,
		Duration: out.Duration,
	}
	entry.Status = report.Status.String()
	entry.Files = len(sets)
	entry.Annotations = a.Annotations()
	s.record(logger, entry, nil)

	logger.Info("analysis finished",
		"status", report.Status.String(),
		"files", len(sets),
		"annotations", a.Annotations(),
		"duration", out.Duration)
	if scope.Kind == domain.ScopeWorkspace && report.Failed() {
		logger.Debug("pydoctest report", "json", out.Stdout)
	}
	return a, nil
}

func (s *Session) record(logger *slog.Logger, entry domain.RunEntry, runErr error) {
	if runErr != nil {
		entry.Status = "ERROR"
		entry.Error = runErr.Error()
	}
	if s.history == nil {
		return
	}
	if s.git != nil {
		if hash, err := s.git.CommitHash(s.root); err == nil {
			entry.CommitHash = hash
		}
	}
	if err := s.history.Append(s.root, entry); err != nil {
		logger.Warn("could not record run", "error", err)
	}
}

// absolute resolves path against base and cleans it so surface keys from
// reports match the keys used for per-file clearing.
func (s *Session) absolute(base, path string) string {
	if path == "" {
		return path
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}
