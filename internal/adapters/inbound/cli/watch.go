package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/config"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/snapshot"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/tui"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/watcher"
	"github.com/pydoclens/pydoclens/internal/application"
	"github.com/pydoclens/pydoclens/internal/domain"
)

const clearScreen = "\033[H\033[2J"

func newWatchCmd() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "watch [file.py...]",
		Short: "Re-run pydoctest whenever Python files or the config change",
		Long: "Analyse the workspace, then keep watching it. Saving a .py file re-checks that file; " +
			"editing .pydoclens.yaml reloads the configuration and re-checks everything. " +
			"Files given as arguments are checked first, like files open in an editor.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			surface := diagnostics.New()
			pub := &publisher{surface: surface, store: snapshot.New(), out: cmd.OutOrStdout(), logger: logger}
			surface.OnChange(pub.markDirty)

			session, err := flags.open(logger, surface)
			if err != nil {
				return err
			}
			root := session.WorkspaceRoot()
			pub.root = root

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			active := make([]string, 0, len(args))
			for _, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", a, err)
				}
				active = append(active, abs)
			}
			if err := session.Start(ctx, active...); err != nil {
				return fmt.Errorf("watch failed: %w", err)
			}
			pub.markDirty()
			pub.publish()

			queue := application.NewEventQueue(application.DefaultQueueSize, logger)
			unsubscribe := session.Subscribe(queue)
			defer unsubscribe()
			for _, kind := range []domain.TriggerKind{domain.TriggerSave, domain.TriggerConfig} {
				// Subscribed after the session, so it runs once the analysis is done.
				defer queue.Subscribe(kind, func(context.Context, domain.Trigger) { pub.publish() })()
			}

			cfg := session.Config()
			w, err := watcher.New(root, triggersFor(root, queue), watcher.Options{
				Include:  cfg.Include,
				Exclude:  cfg.Exclude,
				Always:   []string{config.FileName},
				Debounce: cfg.Debounce,
				OnError: func(err error) {
					logger.Warn("watcher error", "error", err)
				},
			})
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return queue.Run(gctx)
			})
			g.Go(func() error {
				if err := w.Start(gctx); err != nil {
					return fmt.Errorf("starting watcher: %w", err)
				}
				logger.Info("watching for changes", "root", root)
				<-gctx.Done()
				w.Stop()
				return nil
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

// publisher redraws the diagnostics and saves the snapshot, but only when
// the surface changed since the last publish.
type publisher struct {
	dirty   atomic.Bool
	surface *diagnostics.Collection
	store   *snapshot.Store
	out     io.Writer
	root    string
	logger  *slog.Logger
}

func (p *publisher) markDirty() { p.dirty.Store(true) }

func (p *publisher) publish() {
	if !p.dirty.Swap(false) {
		return
	}
	sets := p.surface.Snapshot()
	redraw(p.out, tui.RenderDiagnostics(sets, p.root))
	if err := p.store.Save(p.root, sets); err != nil {
		p.logger.Warn("could not save diagnostics snapshot", "error", err)
	}
}

// triggersFor turns file changes into session triggers. A change to the
// config file wins over everything else in the same batch.
func triggersFor(root string, queue *application.EventQueue) watcher.Handler {
	configPath := filepath.Join(root, config.FileName)
	return func(changes []watcher.Change) {
		for _, c := range changes {
			if c.Path == configPath {
				queue.Publish(domain.Trigger{Kind: domain.TriggerConfig})
				return
			}
		}
		for _, c := range changes {
			if c.Op == watcher.OpRemove || c.Op == watcher.OpRename {
				continue
			}
			if strings.HasSuffix(c.Path, ".py") {
				queue.Publish(domain.Trigger{Kind: domain.TriggerSave, Path: c.Path})
			}
		}
	}
}

// redraw clears the screen first when out is a terminal.
func redraw(out io.Writer, text string) {
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprint(out, clearScreen)
	}
	fmt.Fprint(out, text)
}
