// internal/writer/mqtt/mqtt.go
package mqtt

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

const (
	DefaultTopicPrefix = "openpad"
	DefaultClientID    = "openpad-bridge"
	DefaultTimeout     = 5 * time.Second
)

type Config struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// Client is the subset of paho.Client the sink uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Writer publishes each document retained on {prefix}/{kind}, so a
// subscriber that connects late still gets the latest value.
type Writer struct {
	cli     Client
	prefix  string
	qos     byte
	timeout time.Duration
}

// New connects in the background; the client keeps reconnecting on its own.
func New(cfg Config) *Writer {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	cli := paho.NewClient(opts)
	cli.Connect()

	return NewWithClient(cli, cfg)
}

func NewWithClient(cli Client, cfg Config) *Writer {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Writer{
		cli:     cli,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
	}
}

func (w *Writer) Topic(kind writer.Kind) string {
	return w.prefix + "/" + string(kind)
}

func (w *Writer) Write(ctx context.Context, doc writer.Document) error {
	topic := w.Topic(doc.Kind)
	tok := w.cli.Publish(topic, w.qos, true, doc.Body)

	timeout := w.timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d < timeout {
			timeout = d
		}
	}

	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt writer: publish %s: timeout after %s", topic, timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt writer: publish %s: %w", topic, err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.cli.Disconnect(250)
	return nil
}
