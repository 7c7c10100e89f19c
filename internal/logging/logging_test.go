// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON_FlushesOnClose(t *testing.T) {
	var buf bytes.Buffer
	logger, a := NewWithWriter(&buf, "json", slog.LevelInfo)

	logger.With("component", "poller").Info("status updated", "sessions", 3)
	logger.Debug("hidden")
	a.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["msg"] != "status updated" || m["component"] != "poller" || m["sessions"] != float64(3) {
		t.Fatalf("unexpected record: %v", m)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, a := NewWithWriter(&buf, "text", slog.LevelDebug)

	logger.WithGroup("send").Debug("routed", "channel", "main")
	a.Close()

	out := buf.String()
	if !strings.Contains(out, "send.channel=main") {
		t.Fatalf("expected grouped text attr, got %q", out)
	}
}

// blockingHandler holds every record until release is closed.
type blockingHandler struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (h *blockingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *blockingHandler) Handle(context.Context, slog.Record) error {
	<-h.release
	h.mu.Lock()
	h.n++
	h.mu.Unlock()
	return nil
}

func (h *blockingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *blockingHandler) WithGroup(string) slog.Handler      { return h }

func TestAsync_DropsWhenFullWithoutBlocking(t *testing.T) {
	inner := &blockingHandler{release: make(chan struct{})}
	a := NewAsync(inner, WithBufferSize(1))
	logger := slog.New(a)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			logger.Info("burst")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("logging blocked on a stalled handler")
	}

	if a.Dropped() == 0 {
		t.Fatalf("expected dropped records")
	}

	close(inner.release)
	a.Close()

	inner.mu.Lock()
	defer inner.mu.Unlock()
	if int64(inner.n)+a.Dropped() != 50 {
		t.Fatalf("delivered=%d dropped=%d, want total 50", inner.n, a.Dropped())
	}
}

func TestAsync_HandleAfterCloseIsSafe(t *testing.T) {
	var buf bytes.Buffer
	logger, a := NewWithWriter(&buf, "text", slog.LevelInfo)
	a.Close()
	a.Close()

	logger.Info("late")
	if a.Dropped() != 1 {
		t.Fatalf("late record should be counted as dropped")
	}
}
