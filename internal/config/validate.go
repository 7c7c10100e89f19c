// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// CHANNELS
	// ------------------------------------------------------------

	if len(cfg.Bridge.Channels) == 0 {
		return fmt.Errorf("bridge.channels: at least one channel required")
	}

	slugs := make(map[string]struct{}, len(cfg.Bridge.Channels))
	ids := make(map[string]string, len(cfg.Bridge.Channels))

	for i, ch := range cfg.Bridge.Channels {
		if ch.Slug == "" {
			return fmt.Errorf("bridge.channels[%d]: slug required", i)
		}
		if ch.ID == "" {
			return fmt.Errorf("channel %q: id required", ch.Slug)
		}
		if _, dup := slugs[ch.Slug]; dup {
			return fmt.Errorf("channel %q: duplicate slug", ch.Slug)
		}
		slugs[ch.Slug] = struct{}{}

		if owner, dup := ids[ch.ID]; dup {
			return fmt.Errorf("channel %q: id %s already used by channel %q", ch.Slug, ch.ID, owner)
		}
		ids[ch.ID] = ch.Slug
	}

	if d := cfg.Bridge.DefaultChannel; d != "" {
		if _, ok := slugs[d]; !ok {
			return fmt.Errorf("bridge.default_channel %q: not a configured channel", d)
		}
	}

	// ------------------------------------------------------------
	// SENDERS
	// ------------------------------------------------------------

	for i, s := range cfg.Bridge.Senders {
		if s.Name == "" || s.ID == "" {
			return fmt.Errorf("bridge.senders[%d]: name and id required", i)
		}
	}

	// ------------------------------------------------------------
	// NUMBERS (0 means default)
	// ------------------------------------------------------------

	nonNegative := map[string]int{
		"poll.status_interval_ms":             cfg.Poll.StatusIntervalMs,
		"poll.messages_interval_ms":           cfg.Poll.MessagesIntervalMs,
		"provider.openclaw.status_timeout_ms": cfg.Provider.OpenClaw.StatusTimeoutMs,
		"provider.openclaw.disk_timeout_ms":   cfg.Provider.OpenClaw.DiskTimeoutMs,
		"provider.discord.timeout_ms":         cfg.Provider.Discord.TimeoutMs,
		"provider.discord.message_limit":      cfg.Provider.Discord.MessageLimit,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s: must be >= 0", name)
		}
	}
	if cfg.Provider.Discord.MessageLimit > 100 {
		return fmt.Errorf("provider.discord.message_limit: must be <= 100")
	}

	// ------------------------------------------------------------
	// API
	// ------------------------------------------------------------

	if cfg.API.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.API.Listen); err != nil {
			return fmt.Errorf("api.listen %q: %w", cfg.API.Listen, err)
		}
	}

	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q: must be text or json", cfg.Logging.Format)
	}

	// ------------------------------------------------------------
	// OPTIONAL SINKS
	// ------------------------------------------------------------

	out := cfg.Output
	if out.Redis != nil && out.Redis.Addr == "" {
		return fmt.Errorf("output.redis: addr required")
	}
	if out.S3 != nil && (out.S3.Endpoint == "" || out.S3.Bucket == "") {
		return fmt.Errorf("output.s3: endpoint and bucket required")
	}
	if out.MQTT != nil {
		if out.MQTT.Broker == "" {
			return fmt.Errorf("output.mqtt: broker required")
		}
		if out.MQTT.QoS > 2 {
			return fmt.Errorf("output.mqtt: qos must be 0, 1 or 2")
		}
	}
	if out.Kafka != nil && (len(out.Kafka.Brokers) == 0 || out.Kafka.Topic == "") {
		return fmt.Errorf("output.kafka: brokers and topic required")
	}
	if out.Influx != nil && (out.Influx.URL == "" || out.Influx.Bucket == "") {
		return fmt.Errorf("output.influx: url and bucket required")
	}

	return nil
}
