// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately, then on every tick or kick, and emits each
// PollResult on out. One goroutine per target. No overlap. No retries.
func (p *Poller[T]) Run(ctx context.Context, out chan<- PollResult[T]) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	if !p.emit(ctx, out) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.kick:
			ticker.Reset(p.cfg.Interval)
		}
		if !p.emit(ctx, out) {
			return
		}
	}
}

func (p *Poller[T]) emit(ctx context.Context, out chan<- PollResult[T]) bool {
	res := p.PollOnce(ctx)
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
