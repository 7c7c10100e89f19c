// internal/logging/async.go
package logging

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async handler.
type Option func(*queue)

// WithBufferSize sets the record buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(q *queue) {
		if n > 0 {
			q.size = n
		}
	}
}

type entry struct {
	h   slog.Handler
	rec slog.Record
}

// queue is shared by an Async handler and every handler derived from it.
type queue struct {
	size    int
	ch      chan entry
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	once    sync.Once
}

// Async hands records to a background goroutine. Handle never blocks:
// when the buffer is full the record is dropped and counted.
type Async struct {
	inner slog.Handler
	q     *queue
}

// NewAsync wraps inner. The drain goroutine starts immediately.
func NewAsync(inner slog.Handler, opts ...Option) *Async {
	q := &queue{size: defaultBufferSize}
	for _, opt := range opts {
		opt(q)
	}
	q.ch = make(chan entry, q.size)
	q.done = make(chan struct{})
	go q.drain()
	return &Async{inner: inner, q: q}
}

func (a *Async) Enabled(ctx context.Context, level slog.Level) bool {
	return a.inner.Enabled(ctx, level)
}

func (a *Async) Handle(_ context.Context, r slog.Record) error {
	a.q.mu.RLock()
	defer a.q.mu.RUnlock()

	if a.q.closed {
		a.q.dropped.Add(1)
		return nil
	}
	select {
	case a.q.ch <- entry{h: a.inner, rec: r.Clone()}:
	default:
		a.q.dropped.Add(1)
	}
	return nil
}

func (a *Async) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Async{inner: a.inner.WithAttrs(attrs), q: a.q}
}

func (a *Async) WithGroup(name string) slog.Handler {
	return &Async{inner: a.inner.WithGroup(name), q: a.q}
}

// Dropped returns how many records were lost to a full buffer.
func (a *Async) Dropped() int64 {
	return a.q.dropped.Load()
}

// Close stops accepting records and waits (bounded) for the buffer to drain.
func (a *Async) Close() error {
	a.q.once.Do(func() {
		a.q.mu.Lock()
		a.q.closed = true
		close(a.q.ch)
		a.q.mu.Unlock()

		select {
		case <-a.q.done:
		case <-time.After(defaultDrainTimeout):
		}
	})
	return nil
}

func (q *queue) drain() {
	defer close(q.done)
	for e := range q.ch {
		_ = e.h.Handle(context.Background(), e.rec)
	}
}
