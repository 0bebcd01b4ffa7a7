package application

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/pydoclens/pydoclens/internal/domain"
)

// Prober checks that the configured interpreter and pydoctest can be
// launched. Identical probes running at the same time share one process,
// which is bounded by Config.Timeout rather than by any one caller's context.
type Prober struct {
	runner domain.ProcessRunner
	logger *slog.Logger
	group  singleflight.Group
}

func NewProber(runner domain.ProcessRunner, logger *slog.Logger) *Prober {
	return &Prober{runner: runner, logger: logger}
}

// ToolExists reports whether pydoctest answers -h with its usage banner.
func (p *Prober) ToolExists(ctx context.Context, cfg domain.Config) bool {
	return p.banner(ctx, cfg, domain.ToolHelpCommand(cfg), domain.ToolBanner)
}

// InterpreterExists reports whether the configured interpreter answers -h
// with a usage line. It is false when no interpreter is configured.
func (p *Prober) InterpreterExists(ctx context.Context, cfg domain.Config) bool {
	if !cfg.HasInterpreter() {
		return false
	}
	return p.banner(ctx, cfg, domain.InterpreterHelpCommand(cfg), domain.InterpreterBanner)
}

// Probe runs the interpreter check (when one is configured) followed by
// the tool check. The tool is not probed once the interpreter is missing.
func (p *Prober) Probe(ctx context.Context, cfg domain.Config) domain.ProbeReport {
	report := domain.ProbeReport{
		Interpreter: cfg.PythonInterpreterPath,
		ToolCommand: domain.ToolHelpCommand(cfg).String(),
	}
	if cfg.HasInterpreter() {
		report.InterpreterChecked = true
		report.InterpreterFound = p.InterpreterExists(ctx, cfg)
		if !report.InterpreterFound {
			return report
		}
	}
	report.ToolFound = p.ToolExists(ctx, cfg)
	return report
}

func (p *Prober) banner(ctx context.Context, cfg domain.Config, cmd domain.Command, want string) bool {
	ch := p.group.DoChan(cmd.String(), func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, cfg.Timeout)
			defer cancel()
		}

		out, err := p.runner.Run(runCtx, cmd, "")
		if err != nil {
			p.logger.Debug("probe failed", "command", cmd.String(), "error", err)
			return false, nil
		}
		found := strings.Contains(out.Stdout+out.Stderr, want)
		p.logger.Debug("probe finished", "command", cmd.String(), "found", found)
		return found, nil
	})

	select {
	case res := <-ch:
		return res.Val.(bool)
	case <-ctx.Done():
		return false
	}
}
