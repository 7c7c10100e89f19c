// internal/bridge/cycle.go
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/poller"
	"github.com/tamzrod/openpad-bridge/internal/provider"
	"github.com/tamzrod/openpad-bridge/internal/status"
	"github.com/tamzrod/openpad-bridge/internal/transform"
	"github.com/tamzrod/openpad-bridge/internal/writer"
)

// ------------------------------------------------------------
// STATUS
// ------------------------------------------------------------

func (b *Bridge) fetchStatus(ctx context.Context) (status.Snapshot, error) {
	raw, err := b.stat.FetchStatus(ctx)
	if err != nil {
		return status.Snapshot{}, err
	}

	// disk is best effort: a failed report degrades to {}
	disk, err := b.stat.FetchDisk(ctx)
	if err != nil {
		b.log.Debug("disk report unavailable", "err", err)
		disk = ""
	}

	return transform.Status(raw, disk, b.now(), b.msgs.HasCredential()), nil
}

func (b *Bridge) handleStatus(res poller.PollResult[status.Snapshot]) {
	if res.Err != nil {
		kind := provider.KindOf(res.Err).String()
		b.health.Failure(TargetStatus, kind, res.Err, b.now())
		b.log.Warn("status poll failed", "kind", kind, "err", res.Err)
		return
	}
	b.health.Success(TargetStatus, b.now())

	b.store.SetStatus(res.Value)
	cur := b.store.Get().Status

	doc, err := writer.StatusDocument(cur)
	if err != nil {
		b.log.Error("status encode failed", "err", err)
		return
	}
	b.statusDocs.put(doc)

	n, ok := cur.Count(status.SectionSessions)
	if !ok {
		return
	}
	if b.lastSessions == nil || *b.lastSessions != n {
		b.log.Info("status updated", "sessions", n)
		b.lastSessions = &n
	}
}

// ------------------------------------------------------------
// MESSAGES
// ------------------------------------------------------------

// fetchMessages polls every channel. A channel that fails keeps its
// previous state; the cycle fails only when every channel failed.
//
// The fallback comes from the last aggregate this function produced, not
// from the store: after a Kick the next fetch may start before the
// consumer has stored the previous result.
func (b *Bridge) fetchMessages(ctx context.Context) (chat.Aggregate, error) {
	prev := b.lastAgg

	agg := chat.Aggregate{
		SourceID:  b.cfg.SourceID,
		UpdatedAt: b.now(),
		Channels:  make(map[string]chat.ChannelState, len(b.cfg.Channels)),
	}

	var errs []string
	for _, ch := range b.cfg.Channels {
		raw, err := b.msgs.FetchMessages(ctx, ch.ID, b.cfg.MessageLimit)
		if err != nil {
			if ctx.Err() != nil {
				return chat.Aggregate{}, ctx.Err()
			}
			kind := provider.KindOf(err).String()
			b.health.Failure(ChannelTarget(ch.Slug), kind, err, b.now())
			b.log.Warn("channel poll failed",
				"channel", ch.Slug,
				"kind", kind,
				"err", err,
			)
			errs = append(errs, fmt.Sprintf("channel=%s err=%v", ch.Slug, err))

			if old, ok := prev.Channels[ch.Slug]; ok {
				agg.Channels[ch.Slug] = old
			} else {
				agg.Channels[ch.Slug] = channelState(ch, []chat.Message{})
			}
			continue
		}

		b.health.Success(ChannelTarget(ch.Slug), b.now())
		agg.Channels[ch.Slug] = channelState(ch, transform.Messages(raw, b.cfg.Senders, b.cfg.AvatarBase))
	}

	if len(b.cfg.Channels) > 0 && len(errs) == len(b.cfg.Channels) {
		return chat.Aggregate{}, errors.New("bridge: every channel failed: " + strings.Join(errs, " | "))
	}
	b.lastAgg = agg
	return agg, nil
}

func channelState(ch Channel, msgs []chat.Message) chat.ChannelState {
	return chat.ChannelState{
		ChannelID:   ch.ID,
		DisplayName: ch.Name,
		Icon:        ch.Icon,
		Description: ch.Description,
		Messages:    msgs,
	}
}

func (b *Bridge) handleMessages(res poller.PollResult[chat.Aggregate]) {
	if res.Err != nil {
		kind := provider.KindOf(res.Err).String()
		b.health.Failure(TargetMessages, kind, res.Err, b.now())
		b.log.Warn("messages poll failed", "kind", kind, "err", res.Err)
		return
	}
	b.health.Success(TargetMessages, b.now())

	b.store.SetMessages(res.Value)

	doc, err := writer.MessagesDocument(res.Value)
	if err != nil {
		b.log.Error("messages encode failed", "err", err)
		return
	}
	b.messagesDocs.put(doc)

	for _, ch := range b.cfg.Channels {
		state, ok := res.Value.Channels[ch.Slug]
		if !ok {
			continue
		}
		n := len(state.Messages)
		if last, seen := b.channelCounts[ch.Slug]; !seen || last != n {
			b.log.Info("channel updated", "channel", ch.Slug, "messages", n)
			b.channelCounts[ch.Slug] = n
		}
	}
}

