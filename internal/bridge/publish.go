// internal/bridge/publish.go
package bridge

import (
	"context"
	"time"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

// pending holds at most one undelivered document per target.
// A newer document replaces an older one that was never picked up.
// Single producer (the target's consumer), single reader (its publisher).
type pending struct {
	ch      chan writer.Document
	timeout time.Duration
}

func newPending(timeout time.Duration) *pending {
	return &pending{ch: make(chan writer.Document, 1), timeout: timeout}
}

// put never blocks.
func (p *pending) put(doc writer.Document) {
	for {
		select {
		case p.ch <- doc:
			return
		default:
		}
		select {
		case <-p.ch:
		default:
		}
	}
}

// publish delivers documents until ctx is done. Each delivery is bounded
// by the target interval so a stuck sink costs at most one cycle.
func (b *Bridge) publish(ctx context.Context, p *pending) {
	for {
		select {
		case <-ctx.Done():
			return
		case doc := <-p.ch:
			b.persist(ctx, doc, p.timeout)
		}
	}
}

func (b *Bridge) persist(ctx context.Context, doc writer.Document, timeout time.Duration) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := b.out.Persist(ctx, doc); err != nil {
		b.log.Error("persist failed", "kind", string(doc.Kind), "err", err)
	}
}
