// internal/bridge/bridge.go
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/health"
	"github.com/tamzrod/openpad-bridge/internal/poller"
	"github.com/tamzrod/openpad-bridge/internal/provider"
	"github.com/tamzrod/openpad-bridge/internal/snapshot"
	"github.com/tamzrod/openpad-bridge/internal/status"
	"github.com/tamzrod/openpad-bridge/internal/transform"
	"github.com/tamzrod/openpad-bridge/internal/writer"
)

const (
	TargetStatus   = "status"
	TargetMessages = "messages"

	DefaultStatusInterval   = 15 * time.Second
	DefaultMessagesInterval = 10 * time.Second
	DefaultMessageLimit     = 50
)

// StatusSource is the status half of the provider.
type StatusSource interface {
	FetchStatus(ctx context.Context) (provider.RawRecord, error)
	FetchDisk(ctx context.Context) (string, error)
}

// ChatSource is the read half of the message provider.
type ChatSource interface {
	FetchMessages(ctx context.Context, channelID string, limit int) ([]provider.RawMessage, error)
	HasCredential() bool
}

// Persister delivers rendered documents. *writer.Publisher satisfies it.
type Persister interface {
	Persist(ctx context.Context, doc writer.Document) error
}

// Channel is one polled channel.
type Channel struct {
	Slug        string
	ID          string
	Name        string
	Icon        string
	Description string
}

type Config struct {
	SourceID   string
	Channels   []Channel
	Senders    transform.SenderMapping
	AvatarBase string

	MessageLimit     int
	StatusInterval   time.Duration
	MessagesInterval time.Duration
}

// Bridge runs the status and messages targets. Each target has its own
// poller and consumer goroutine, so a slow target never delays the other.
type Bridge struct {
	cfg   Config
	store *snapshot.Store
	stat  StatusSource
	msgs  ChatSource
	out   Persister
	log   *slog.Logger
	now   func() time.Time

	statusPoller   *poller.Poller[status.Snapshot]
	messagesPoller *poller.Poller[chat.Aggregate]

	// latest-wins hand-off from consumers to publishers
	statusDocs   *pending
	messagesDocs *pending

	health *health.Tracker

	// owned by the messages poller goroutine
	lastAgg chat.Aggregate

	// owned by the consumer goroutines
	lastSessions  *int
	channelCounts map[string]int
}

func New(cfg Config, store *snapshot.Store, stat StatusSource, msgs ChatSource, out Persister, log *slog.Logger) (*Bridge, error) {
	if store == nil {
		return nil, errors.New("bridge: store required")
	}
	if stat == nil || msgs == nil {
		return nil, errors.New("bridge: status and message sources required")
	}
	if out == nil {
		return nil, errors.New("bridge: persister required")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = DefaultStatusInterval
	}
	if cfg.MessagesInterval <= 0 {
		cfg.MessagesInterval = DefaultMessagesInterval
	}
	if cfg.MessageLimit <= 0 {
		cfg.MessageLimit = DefaultMessageLimit
	}
	if cfg.AvatarBase == "" {
		cfg.AvatarBase = transform.DefaultAvatarBase
	}

	b := &Bridge{
		cfg:           cfg,
		store:         store,
		stat:          stat,
		msgs:          msgs,
		out:           out,
		log:           log.With("component", "bridge"),
		now:           time.Now,
		statusDocs:    newPending(cfg.StatusInterval),
		messagesDocs:  newPending(cfg.MessagesInterval),
		health:        health.NewTracker(),
		lastAgg:       chat.EmptyAggregate(cfg.SourceID),
		channelCounts: make(map[string]int),
	}

	b.health.Register(TargetStatus, cfg.StatusInterval)
	b.health.Register(TargetMessages, cfg.MessagesInterval)
	for _, ch := range cfg.Channels {
		b.health.Register(ChannelTarget(ch.Slug), cfg.MessagesInterval)
	}

	var err error
	b.statusPoller, err = poller.New(poller.Config{Target: TargetStatus, Interval: cfg.StatusInterval}, b.fetchStatus)
	if err != nil {
		return nil, err
	}
	b.messagesPoller, err = poller.New(poller.Config{Target: TargetMessages, Interval: cfg.MessagesInterval}, b.fetchMessages)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Health exposes per-target health for readers such as /healthz.
func (b *Bridge) Health() *health.Tracker { return b.health }

// ChannelTarget names the health target of one channel.
func ChannelTarget(slug string) string { return TargetMessages + "/" + slug }

// RefreshMessages asks the messages poller for an early cycle.
// Never blocks; repeated calls collapse into one cycle.
func (b *Bridge) RefreshMessages() {
	b.messagesPoller.Kick()
}

// Run blocks until ctx is cancelled.
// Consumers never wait on sinks: delivery happens on a publisher
// goroutine per target.
func (b *Bridge) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	statusOut := make(chan poller.PollResult[status.Snapshot])
	messagesOut := make(chan poller.PollResult[chat.Aggregate])

	// ---- producers ----
	g.Go(func() error {
		b.statusPoller.Run(ctx, statusOut)
		return nil
	})
	g.Go(func() error {
		b.messagesPoller.Run(ctx, messagesOut)
		return nil
	})

	// ---- consumers ----
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case res := <-statusOut:
				b.handleStatus(res)
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case res := <-messagesOut:
				b.handleMessages(res)
			}
		}
	})

	// ---- publishers ----
	g.Go(func() error {
		b.publish(ctx, b.statusDocs)
		return nil
	})
	g.Go(func() error {
		b.publish(ctx, b.messagesDocs)
		return nil
	})

	return g.Wait()
}
