package diagnostics

import (
	"sort"
	"sync"

	"github.com/pydoclens/pydoclens/internal/domain"
)

// Collection is an in-memory domain.DiagnosticsSurface keyed by file. It
// copies everything it is given and hands out copies, so callers never
// share slices with it.
type Collection struct {
	mu       sync.RWMutex
	items    map[string][]domain.Annotation
	onChange []func()
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{items: make(map[string][]domain.Annotation)}
}

// OnChange registers fn to run after every mutation. fn runs on the
// mutating goroutine with no lock held.
func (c *Collection) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// Set replaces the annotations for target. An empty slice is kept as an
// explicit "no problems" entry.
func (c *Collection) Set(target string, annotations []domain.Annotation) {
	cp := make([]domain.Annotation, len(annotations))
	copy(cp, annotations)

	c.mu.Lock()
	c.items[target] = cp
	c.mu.Unlock()
	c.notify()
}

// Delete removes target. Other files are untouched.
func (c *Collection) Delete(target string) {
	c.mu.Lock()
	delete(c.items, target)
	c.mu.Unlock()
	c.notify()
}

// Clear removes every target.
func (c *Collection) Clear() {
	c.mu.Lock()
	c.items = make(map[string][]domain.Annotation)
	c.mu.Unlock()
	c.notify()
}

// Get returns a copy of target's annotations and whether it is present.
func (c *Collection) Get(target string) ([]domain.Annotation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	anns, ok := c.items[target]
	if !ok {
		return nil, false
	}
	cp := make([]domain.Annotation, len(anns))
	copy(cp, anns)
	return cp, true
}

// Snapshot returns every entry sorted by target.
func (c *Collection) Snapshot() []domain.AnnotationSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sets := make([]domain.AnnotationSet, 0, len(c.items))
	for target, anns := range c.items {
		cp := make([]domain.Annotation, len(anns))
		copy(cp, anns)
		sets = append(sets, domain.AnnotationSet{Target: target, Annotations: cp})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Target < sets[j].Target })
	return sets
}

// Len returns the number of targets currently held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection) notify() {
	c.mu.RLock()
	fns := append([]func(){}, c.onChange...)
	c.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
