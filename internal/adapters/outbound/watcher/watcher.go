package watcher

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change seen for a path.
type Op int

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one debounced file event. Path is absolute.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives a batch of changes, at most one per path.
type Handler func(changes []Change)

// Options configures a Watcher. Include and Exclude are doublestar patterns
// matched against slash-separated paths relative to the root. Always lists
// relative paths reported regardless of Include (e.g. the config file).
type Options struct {
	Include    []string
	Exclude    []string
	Always     []string
	Debounce   time.Duration
	BufferSize int
	// OnError is called for watcher errors that do not stop watching.
	OnError func(error)
}

// Watcher watches a directory tree and hands debounced batches of matching
// changes to a handler. The handler always runs on one goroutine.
type Watcher struct {
	root    string
	fsw     *fsnotify.Watcher
	handler Handler
	opts    Options

	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// New creates a watcher for root. Call Start to begin watching.
func New(root string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:    root,
		fsw:     fsw,
		handler: handler,
		opts:    opts,
		changes: make(chan Change, opts.BufferSize),
		done:    make(chan struct{}),
	}, nil
}

// Start registers every non-excluded directory and spawns the event and
// debounce goroutines. Both exit on Stop or when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching reports whether Start has run and Stop has not.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// Matches reports whether an absolute file path would be delivered to the
// handler.
func (w *Watcher) Matches(abs string) bool {
	rel, ok := w.rel(abs)
	if !ok {
		return false
	}
	for _, p := range w.opts.Always {
		if rel == filepath.ToSlash(p) {
			return true
		}
	}
	if w.excluded(rel) {
		return false
	}
	for _, p := range w.opts.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) rel(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) excluded(rel string) bool {
	for _, p := range w.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// excludedDir treats a directory as excluded when anything inside it would be.
func (w *Watcher) excludedDir(rel string) bool {
	if rel == "." {
		return false
	}
	return w.excluded(rel) || w.excluded(path.Join(rel, "_"))
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(p); ok && w.excludedDir(rel) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}
			if event.Op == fsnotify.Chmod || !w.Matches(event.Name) {
				continue
			}

			change := Change{Path: event.Name, Op: convertOp(event.Op), Time: time.Now()}
			select {
			case w.changes <- change:
			default:
				// buffer full; the debouncer is behind and a later event
				// for the same file will still arrive
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.opts.OnError != nil {
				w.opts.OnError(err)
			}
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpWrite
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			if deduped := dedupe(batch); len(deduped) > 0 && w.handler != nil {
				w.handler(deduped)
			}
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.Debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// dedupe keeps the latest change per path, in first-seen order.
func dedupe(changes []Change) []Change {
	seen := make(map[string]int)
	result := make([]Change, 0, len(changes))
	for _, c := range changes {
		if idx, ok := seen[c.Path]; ok {
			result[idx] = c
			continue
		}
		seen[c.Path] = len(result)
		result = append(result, c)
	}
	return result
}
