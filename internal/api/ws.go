// internal/api/ws.go
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tamzrod/openpad-bridge/internal/chat"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// handleWS streams the channel aggregate: once on connect, then after every
// store change that touched messages.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed, "")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Debug("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// reader: only needed to notice the peer going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	var lastAt time.Time
	first := true

	for {
		changed := s.store.Changed()
		st := s.store.Get()

		if first || !st.Messages.UpdatedAt.Equal(lastAt) {
			if err := s.push(conn, st.Messages); err != nil {
				s.log.Debug("ws write failed", "err", err)
				return
			}
			first = false
			lastAt = st.Messages.UpdatedAt
		}

		select {
		case <-changed:
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-s.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (s *Server) push(conn *websocket.Conn, agg chat.Aggregate) error {
	body, err := chat.Encode(agg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, body)
}
