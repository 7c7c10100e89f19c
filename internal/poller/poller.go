// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Target   string
	Interval time.Duration
}

// Poller is a dumb, clock-driven fetcher.
// What a cycle means is decided by the FetchFunc, not here.
type Poller[T any] struct {
	cfg   Config
	fetch FetchFunc[T]
	kick  chan struct{}
}

// New creates a poller with immutable config.
func New[T any](cfg Config, fetch FetchFunc[T]) (*Poller[T], error) {
	if cfg.Target == "" {
		return nil, errors.New("poller: target required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if fetch == nil {
		return nil, errors.New("poller: fetch func required")
	}
	return &Poller[T]{
		cfg:   cfg,
		fetch: fetch,
		kick:  make(chan struct{}, 1),
	}, nil
}

// Target returns the configured target name.
func (p *Poller[T]) Target() string { return p.cfg.Target }

// PollOnce performs exactly one poll cycle.
// All-or-nothing: on error the value is discarded.
func (p *Poller[T]) PollOnce(ctx context.Context) PollResult[T] {
	res := PollResult[T]{
		Target: p.cfg.Target,
		At:     time.Now(),
	}

	v, err := p.fetch(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	res.Value = v
	return res
}

// Kick asks for an early cycle. Never blocks; kicks issued while one is
// already pending collapse into one.
func (p *Poller[T]) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}
