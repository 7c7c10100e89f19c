// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/health"
	"github.com/tamzrod/openpad-bridge/internal/provider"
	"github.com/tamzrod/openpad-bridge/internal/snapshot"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

const (
	DefaultAddress = "0.0.0.0:5181"

	maxSendBody = 64 << 10
)

// Sender delivers one outbound message. A missing route must fail with
// provider.KindNoRouteConfigured.
type Sender interface {
	SendMessage(ctx context.Context, channelSlug, text, displayName string) error
}

// Refresher asks the message poller for an early cycle.
type Refresher interface {
	RefreshMessages()
}

// SendOptions controls channel and name resolution for POST /send.
type SendOptions struct {
	Channels           []string // known slugs
	DefaultChannel     string
	DefaultDisplayName string
}

// ServerOptions configures the HTTP server.
// HealthSource reports per-target poll health.
type HealthSource interface {
	Snapshot(now time.Time) map[string]health.Target
}

type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	Logger            *slog.Logger

	// Health backs /healthz. Nil derives a coarse view from the store.
	Health HealthSource
}

type route struct {
	method string
	h      http.HandlerFunc
}

// Server hosts the bridge HTTP API.
type Server struct {
	http      *http.Server
	store     *snapshot.Store
	sender    Sender
	refresher Refresher
	send      SendOptions
	known     map[string]struct{}
	log       *slog.Logger
	opts      ServerOptions
	routes    map[string]route
	upgrader  websocket.Upgrader

	// cancelled by Stop; Shutdown does not track hijacked websocket conns
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer constructs a server reading from store. refresher may be nil.
// The server does not start listening until Start is called.
func NewServer(store *snapshot.Store, sender Sender, refresher Refresher, send SendOptions, opts ServerOptions) *Server {
	if store == nil {
		panic("api.NewServer: store is nil")
	}
	if sender == nil {
		panic("api.NewServer: sender is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 35 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	known := make(map[string]struct{}, len(send.Channels))
	for _, slug := range send.Channels {
		known[slug] = struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		store:     store,
		sender:    sender,
		refresher: refresher,
		send:      send,
		known:     known,
		log:       opts.Logger.With("component", "api"),
		opts:      opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}

	s.routes = map[string]route{
		"/messages": {http.MethodGet, s.handleMessages},
		"/status":   {http.MethodGet, s.handleStatus},
		"/healthz":  {http.MethodGet, s.handleHealthz},
		"/send":     {http.MethodPost, s.handleSend},
	}

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(opts.Logger.Handler(), slog.LevelWarn),
		BaseContext: func(net.Listener) context.Context {
			return context.Background()
		},
	}
	return s
}

// Handler returns the full middleware chain.
// /ws stays outside gzip: the upgrade needs the raw connection.
func (s *Server) Handler() http.Handler {
	compressed := gzhttp.GzipHandler(http.HandlerFunc(s.dispatch))

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			s.handleWS(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})

	return withRequestID(withAccessLog(withCORS(root), s.log))
}

// Start begins serving HTTP in a background goroutine.
// It returns immediately; use Stop for graceful shutdown.
func (s *Server) Start() {
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("ListenAndServe failed", "err", err)
		}
	}()
}

// Serve runs on an existing listener and blocks until the server stops.
func (s *Server) Serve(l net.Listener) error {
	if err := s.http.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	timeout := s.opts.ShutdownTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.routes[r.URL.Path]
	if !ok {
		writeError(w, http.StatusNotFound, ErrNotFound, "")
		return
	}
	if r.Method != rt.method {
		w.Header().Set("Allow", rt.method+", OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed, "")
		return
	}
	rt.h(w, r)
}

// ------------------------------------------------------------
// READ
// ------------------------------------------------------------

// handleMessages returns the full channel aggregate.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	body, err := chat.Encode(s.store.Get().Messages)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EncodeError", err.Error())
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// handleStatus returns the latest status snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	body, err := status.Encode(s.store.Get().Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EncodeError", err.Error())
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// handleHealthz answers 200 only when every target is ok, 503 otherwise.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	now := TimeNow()

	var targets map[string]health.Target
	if s.opts.Health != nil {
		targets = s.opts.Health.Snapshot(now)
	} else {
		targets = storeHealth(s.store.Get())
	}

	state := health.Overall(targets)
	code := http.StatusOK
	if state != health.StateOK {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    string(state),
		Timestamp: now.UTC().Format(time.RFC3339),
		Targets:   targets,
	})
}

// storeHealth marks a part ok once the store holds a polled value for it.
func storeHealth(st snapshot.State) map[string]health.Target {
	out := map[string]health.Target{
		"status":   {State: health.StateUnknown},
		"messages": {State: health.StateUnknown},
	}
	if st.Status.CapturedAtMillis != 0 {
		out["status"] = health.Target{State: health.StateOK}
	}
	if !st.Messages.UpdatedAt.IsZero() {
		out["messages"] = health.Target{State: health.StateOK}
	}
	return out
}

// ------------------------------------------------------------
// SEND
// ------------------------------------------------------------

// handleSend relays one message to the resolved channel.
// Errors:
//   - 400 InvalidBody for non-JSON or wrongly typed fields
//   - 400 NoText when text is empty after trimming
//   - 500 NoRouteConfigured when the channel has no outbound route
//   - 500 TransportError when the provider rejects or cannot be reached
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSendBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, err.Error())
		return
	}

	var req SendRequest
	if len(strings.TrimSpace(string(raw))) > 0 {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			writeError(w, http.StatusBadRequest, ErrInvalidBody, "invalid JSON: "+err.Error())
			return
		}
		if err := sendSchema.Validate(doc); err != nil {
			writeError(w, http.StatusBadRequest, ErrInvalidBody, err.Error())
			return
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			writeError(w, http.StatusBadRequest, ErrInvalidBody, err.Error())
			return
		}
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, ErrNoText, "")
		return
	}

	slug := s.resolveChannel(firstNonEmpty(req.ChannelSlug, req.Channel))
	name := firstNonEmpty(req.DisplayName, req.Username, s.send.DefaultDisplayName)

	if err := s.sender.SendMessage(r.Context(), slug, text, name); err != nil {
		if provider.IsKind(err, provider.KindNoRouteConfigured) {
			s.log.Warn("send rejected", "channel", slug, "err", err)
			writeError(w, http.StatusInternalServerError, ErrNoRouteConfigured, "channel "+slug)
			return
		}
		s.log.Error("send failed", "channel", slug, "err", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, ErrTransport, err.Error())
		return
	}

	s.log.Info("message sent", "channel", slug, "as", name)
	if s.refresher != nil {
		s.refresher.RefreshMessages()
	}
	writeJSON(w, http.StatusOK, SendResponse{OK: true})
}

// resolveChannel maps an unspecified or unknown slug to the default channel.
func (s *Server) resolveChannel(slug string) string {
	if _, ok := s.known[slug]; ok {
		return slug
	}
	return s.send.DefaultChannel
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ------------------------------------------------------------
// RESPONSE HELPERS
// ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, APIError{
		Error:     code,
		Detail:    detail,
		Timestamp: timestamp(),
	})
}
