// internal/config/normalize.go
package config

import "strings"

const (
	DefaultListen             = "0.0.0.0:5181"
	DefaultOutputDir          = "public/data"
	DefaultStatusFile         = "status.json"
	DefaultMessagesFile       = "discord-messages.json"
	DefaultStatusIntervalMs   = 15000
	DefaultMessagesIntervalMs = 10000
	DefaultMessageLimit       = 50
	DefaultTokenEnv           = "DISCORD_BOT_TOKEN"
	DefaultDisplayName        = "Arnar 👑"
	DefaultSender             = "arnar"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge
	if b.DefaultChannel == "" && len(b.Channels) > 0 {
		b.DefaultChannel = b.Channels[0].Slug
	}
	if b.DefaultSender == "" {
		b.DefaultSender = DefaultSender
	}
	if b.DefaultDisplayName == "" {
		b.DefaultDisplayName = DefaultDisplayName
	}
	for i := range b.Channels {
		ch := &b.Channels[i]
		if ch.Name == "" {
			ch.Name = ch.Slug
		}
		if ch.RouteEnv == "" {
			ch.RouteEnv = RouteEnvFor(ch.Slug)
		}
	}

	// ---- provider ----
	d := &cfg.Provider.Discord
	if d.TokenEnv == "" {
		d.TokenEnv = DefaultTokenEnv
	}
	if d.MessageLimit == 0 {
		d.MessageLimit = DefaultMessageLimit
	}

	// ---- poll ----
	if cfg.Poll.StatusIntervalMs == 0 {
		cfg.Poll.StatusIntervalMs = DefaultStatusIntervalMs
	}
	if cfg.Poll.MessagesIntervalMs == 0 {
		cfg.Poll.MessagesIntervalMs = DefaultMessagesIntervalMs
	}

	// ---- output ----
	o := &cfg.Output
	if o.Dir == "" {
		o.Dir = DefaultOutputDir
	}
	if o.StatusFile == "" {
		o.StatusFile = DefaultStatusFile
	}
	if o.MessagesFile == "" {
		o.MessagesFile = DefaultMessagesFile
	}

	// ---- api / logging ----
	if cfg.API.Listen == "" {
		cfg.API.Listen = DefaultListen
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// RouteEnvFor returns the default webhook env var for a channel slug.
func RouteEnvFor(slug string) string {
	up := strings.ToUpper(slug)
	up = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, up)
	return "DISCORD_WEBHOOK_" + up
}
