// internal/writer/redis/redis.go
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

const DefaultPrefix = "openpad"

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// Client is the subset of *goredis.Client the sink uses.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
	Close() error
}

// Writer stores the latest document under {prefix}:{kind} and announces
// the kind on {prefix}:updates.
type Writer struct {
	rdb    Client
	prefix string
}

func New(cfg Config) *Writer {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	return NewWithClient(rdb, cfg.Prefix)
}

func NewWithClient(rdb Client, prefix string) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Writer{rdb: rdb, prefix: prefix}
}

func (w *Writer) Write(ctx context.Context, doc writer.Document) error {
	key := fmt.Sprintf("%s:%s", w.prefix, doc.Kind)
	if err := w.rdb.Set(ctx, key, doc.Body, 0).Err(); err != nil {
		return fmt.Errorf("redis writer: set %s: %w", key, err)
	}
	channel := w.prefix + ":updates"
	if err := w.rdb.Publish(ctx, channel, string(doc.Kind)).Err(); err != nil {
		return fmt.Errorf("redis writer: publish %s: %w", channel, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.rdb.Close()
}
