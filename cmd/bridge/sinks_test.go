// cmd/bridge/sinks_test.go
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/tamzrod/openpad-bridge/internal/config"
	"github.com/tamzrod/openpad-bridge/internal/status"
	"github.com/tamzrod/openpad-bridge/internal/writer"
)

func TestBuildPublisher_FileOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Bridge: config.BridgeConfig{
			Channels: []config.ChannelConfig{{Slug: "adalras", ID: "1"}},
		},
		Output: config.OutputConfig{
			Dir:           filepath.Join(dir, "public", "data"),
			StatusMirrors: []string{filepath.Join(dir, "src", "data", "status-snapshot.json")},
		},
	}
	config.Normalize(cfg)

	pub, err := buildPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildPublisher err=%v", err)
	}
	defer pub.Close()

	if got := pub.Sinks(); len(got) != 1 || got[0] != "file" {
		t.Fatalf("sinks got=%v", got)
	}

	doc, err := writer.StatusDocument(status.Empty())
	if err != nil {
		t.Fatal(err)
	}
	if err := pub.Persist(context.Background(), doc); err != nil {
		t.Fatalf("Persist err=%v", err)
	}

	for _, p := range []string{
		filepath.Join(dir, "public", "data", "status.json"),
		filepath.Join(dir, "src", "data", "status-snapshot.json"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}
}
