package application

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/pydoclens/pydoclens/internal/domain"
	"github.com/pydoclens/pydoclens/internal/logging"
)

// DefaultQueueSize bounds how many triggers may wait for dispatch.
const DefaultQueueSize = 64

// TriggerHandler reacts to one trigger. It runs on the queue goroutine.
type TriggerHandler func(ctx context.Context, t domain.Trigger)

type subscription struct {
	id      int
	handler TriggerHandler
}

// EventQueue delivers triggers to subscribers one at a time, in publish
// order. Handlers for a kind run in subscription order.
type EventQueue struct {
	mu     sync.Mutex
	subs   map[domain.TriggerKind][]subscription
	nextID int

	queue   chan domain.Trigger
	logger  *slog.Logger
	dropped atomic.Int64
	warn    rate.Sometimes
}

func NewEventQueue(size int, logger *slog.Logger) *EventQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &EventQueue{
		subs:   make(map[domain.TriggerKind][]subscription),
		queue:  make(chan domain.Trigger, size),
		logger: logger,
		warn:   rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

// Subscribe adds handler for kind. Calling the returned function removes
// it; later calls are no-ops.
func (q *EventQueue) Subscribe(kind domain.TriggerKind, handler TriggerHandler) (unsubscribe func()) {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.subs[kind] = append(q.subs[kind], subscription{id: id, handler: handler})
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			list := q.subs[kind]
			for i, s := range list {
				if s.id == id {
					q.subs[kind] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish enqueues t without blocking. It returns false when the queue is
// full and the trigger was dropped. Drop warnings are logged at most once
// every few seconds.
func (q *EventQueue) Publish(t domain.Trigger) bool {
	select {
	case q.queue <- t:
		return true
	default:
		n := q.dropped.Add(1)
		q.warn.Do(func() {
			q.logger.Warn("event queue full, dropping trigger",
				"trigger", t.Kind, "path", t.Path, "dropped_total", n)
		})
		return false
	}
}

// Dropped returns how many triggers Publish has discarded.
func (q *EventQueue) Dropped() int64 { return q.dropped.Load() }

// Run dispatches queued triggers until ctx is done and returns ctx.Err().
func (q *EventQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-q.queue:
			q.dispatch(ctx, t)
		}
	}
}

func (q *EventQueue) dispatch(ctx context.Context, t domain.Trigger) {
	q.mu.Lock()
	handlers := make([]TriggerHandler, 0, len(q.subs[t.Kind]))
	for _, s := range q.subs[t.Kind] {
		handlers = append(handlers, s.handler)
	}
	q.mu.Unlock()

	if len(handlers) == 0 {
		q.logger.Debug("no subscribers for trigger", "trigger", t.Kind)
		return
	}
	for _, h := range handlers {
		h(ctx, t)
	}
}
