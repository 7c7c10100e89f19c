// cmd/bridge/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/openpad-bridge/internal/api"
	"github.com/tamzrod/openpad-bridge/internal/bridge"
	"github.com/tamzrod/openpad-bridge/internal/config"
	"github.com/tamzrod/openpad-bridge/internal/logging"
	"github.com/tamzrod/openpad-bridge/internal/provider/discord"
	"github.com/tamzrod/openpad-bridge/internal/provider/openclaw"
	"github.com/tamzrod/openpad-bridge/internal/snapshot"
	"github.com/tamzrod/openpad-bridge/internal/transform"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: bridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	config.ApplyEnvOverrides(cfg, os.LookupEnv)

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)
	config.ResolveSecrets(cfg, os.LookupEnv)

	logger, logs := logging.New(cfg.Logging.Format, logging.ParseLevel(cfg.Logging.Level))
	defer logs.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bridge stopped", "err", err)
		logs.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Providers
	// --------------------

	oc := cfg.Provider.OpenClaw
	statusClient, err := openclaw.New(openclaw.Config{
		StatusCommand: oc.StatusCommand,
		DiskCommand:   oc.DiskCommand,
		StatusTimeout: ms(oc.StatusTimeoutMs),
		DiskTimeout:   ms(oc.DiskTimeoutMs),
	}, nil)
	if err != nil {
		return err
	}

	dc := cfg.Provider.Discord
	chatClient, err := discord.New(discord.Config{
		BaseURL:   dc.APIBase,
		Token:     cfg.Secrets.BotToken,
		UserAgent: dc.UserAgent,
		Timeout:   ms(dc.TimeoutMs),
		Routes:    cfg.Secrets.Routes,
	})
	if err != nil {
		return err
	}

	// --------------------
	// Store + sinks
	// --------------------

	store := snapshot.New(cfg.Bridge.SourceID)

	pub, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("sink close failed", "err", err)
		}
	}()

	// --------------------
	// Bridge
	// --------------------

	senders := make([]transform.Sender, 0, len(cfg.Bridge.Senders))
	for _, s := range cfg.Bridge.Senders {
		senders = append(senders, transform.Sender{Name: s.Name, ID: s.ID})
	}

	channels := make([]bridge.Channel, 0, len(cfg.Bridge.Channels))
	slugs := make([]string, 0, len(cfg.Bridge.Channels))
	for _, ch := range cfg.Bridge.Channels {
		channels = append(channels, bridge.Channel{
			Slug:        ch.Slug,
			ID:          ch.ID,
			Name:        ch.Name,
			Icon:        ch.Icon,
			Description: ch.Description,
		})
		slugs = append(slugs, ch.Slug)
	}

	b, err := bridge.New(bridge.Config{
		SourceID:         cfg.Bridge.SourceID,
		Channels:         channels,
		Senders:          transform.NewSenderMapping(senders, cfg.Bridge.DefaultSender),
		AvatarBase:       cfg.Bridge.AvatarBase,
		MessageLimit:     dc.MessageLimit,
		StatusInterval:   ms(cfg.Poll.StatusIntervalMs),
		MessagesInterval: ms(cfg.Poll.MessagesIntervalMs),
	}, store, statusClient, chatClient, pub, logger)
	if err != nil {
		return err
	}

	// --------------------
	// API
	// --------------------

	srv := api.NewServer(store, chatClient, b, api.SendOptions{
		Channels:           slugs,
		DefaultChannel:     cfg.Bridge.DefaultChannel,
		DefaultDisplayName: cfg.Bridge.DefaultDisplayName,
	}, api.ServerOptions{
		Addr:   cfg.API.Listen,
		Logger: logger,
		Health: b.Health(),
	})

	ln, err := net.Listen("tcp", cfg.API.Listen)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}

	banner(logger, cfg, pub.Sinks(), chatClient.HasCredential())

	// --------------------
	// Run until signalled
	// --------------------

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.Run(gctx)
	})
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return stopServer(srv, logger)
	})

	return g.Wait()
}

func banner(logger *slog.Logger, cfg *config.Config, sinks []string, credential bool) {
	names := make([]string, 0, len(cfg.Bridge.Channels))
	for _, ch := range cfg.Bridge.Channels {
		names = append(names, "#"+ch.Name)
	}
	logger.Info("openpad bridge starting",
		"channels", strings.Join(names, ", "),
		"status_every", ms(cfg.Poll.StatusIntervalMs).String(),
		"messages_every", ms(cfg.Poll.MessagesIntervalMs).String(),
		"listen", cfg.API.Listen,
		"sinks", strings.Join(sinks, ","),
		"bot_token", credential,
		"routes", len(cfg.Secrets.Routes),
	)
	if !credential {
		logger.Warn("no bot token; channel polling will fail until one is set",
			"env", cfg.Provider.Discord.TokenEnv)
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
