// internal/api/ws_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/snapshot"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

func readAggregate(t *testing.T, conn *websocket.Conn) chat.Aggregate {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ws read err=%v", err)
	}
	var agg chat.Aggregate
	if err := json.Unmarshal(b, &agg); err != nil {
		t.Fatalf("ws decode err=%v", err)
	}
	return agg
}

func TestWS_PushesOnConnectAndOnChange(t *testing.T) {
	store := snapshot.New("guild-1")
	s := NewServer(store, &fakeSender{}, nil, testSendOptions(), ServerOptions{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer conn.Close()

	first := readAggregate(t, conn)
	if first.SourceID != "guild-1" || len(first.Channels) != 0 {
		t.Fatalf("unexpected first push: %+v", first)
	}

	// a status-only change must not push messages again
	store.SetStatus(status.Empty())

	store.SetMessages(chat.Aggregate{
		SourceID:  "guild-1",
		UpdatedAt: time.Unix(1700000000, 0),
		Channels: map[string]chat.ChannelState{
			"adalras": {Messages: []chat.Message{{ID: "1", Text: "hi"}}},
		},
	})

	next := readAggregate(t, conn)
	if next.MessageCount("adalras") != 1 {
		t.Fatalf("expected pushed update, got %+v", next)
	}
}

func TestWS_StopClosesStream(t *testing.T) {
	store := snapshot.New("g")
	s := NewServer(store, &fakeSender{}, nil, testSendOptions(), ServerOptions{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer conn.Close()
	readAggregate(t, conn)

	_ = s.Stop(context.Background())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected stream to end after Stop")
	}
}
