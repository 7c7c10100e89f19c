// internal/provider/discord/client.go
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/http2"

	"github.com/tamzrod/openpad-bridge/internal/provider"
)

const (
	DefaultBaseURL   = "https://discord.com/api/v10"
	DefaultUserAgent = "OpenPad-Bridge/1.0"
	DefaultTimeout   = 30 * time.Second

	// DefaultMaxResponseBytes bounds one response read. A full page of
	// 100 messages with embeds stays well below it.
	DefaultMaxResponseBytes = 8 << 20

	bodyLimit = 512
)

// Config holds connection settings.
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// MaxResponseBytes bounds response bodies. Zero means the default.
	MaxResponseBytes int64

	// Routes maps a channel slug to its outbound webhook URL.
	Routes map[string]string
}

// Client reads channel messages with a bot token and sends through
// per-channel webhooks.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	routes    map[string]string
	maxBody   int64
	http      *http.Client
}

// Option configures Client behavior.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client over an HTTP/2-capable transport.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}

	routes := make(map[string]string, len(cfg.Routes))
	for slug, u := range cfg.Routes {
		if u != "" {
			routes[slug] = u
		}
	}

	c := &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		routes:    routes,
		maxBody:   cfg.MaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		tr, err := newTransport()
		if err != nil {
			return nil, fmt.Errorf("discord: transport: %w", err)
		}
		c.http = &http.Client{Transport: tr, Timeout: cfg.Timeout}
	}
	return c, nil
}

func newTransport() (*http.Transport, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// HasCredential reports whether a bot token is configured.
func (c *Client) HasCredential() bool { return c.token != "" }

// HasRoute reports whether slug has an outbound route.
func (c *Client) HasRoute(slug string) bool {
	_, ok := c.routes[slug]
	return ok
}

// FetchMessages returns the last limit messages of a channel, newest first.
// Fails with NoCredential, Timeout, TransportError(code) or MalformedOutput.
func (c *Client) FetchMessages(ctx context.Context, channelID string, limit int) ([]provider.RawMessage, error) {
	const op = "discord messages"

	if !c.HasCredential() {
		return nil, &provider.Error{Kind: provider.KindNoCredential, Op: op}
	}

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.baseURL + "/channels/" + url.PathEscape(channelID) + "/messages"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &provider.Error{Kind: provider.KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bot "+c.token)

	body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	var msgs []provider.RawMessage
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, &provider.Error{Kind: provider.KindMalformedOutput, Op: op, Err: err}
	}
	return msgs, nil
}

// webhookPayload is the outbound message body.
type webhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// SendMessage posts text to the route of channelSlug under displayName.
// A missing route fails with NoRouteConfigured before any I/O.
func (c *Client) SendMessage(ctx context.Context, channelSlug, text, displayName string) error {
	const op = "discord send"

	route, ok := c.routes[channelSlug]
	if !ok {
		return &provider.Error{Kind: provider.KindNoRouteConfigured, Op: op, Body: "channel " + channelSlug}
	}

	payload, err := json.Marshal(webhookPayload{Content: text, Username: displayName})
	if err != nil {
		return &provider.Error{Kind: provider.KindUnknown, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, route, bytes.NewReader(payload))
	if err != nil {
		return &provider.Error{Kind: provider.KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, op)
	return err
}

// do sends req once. No retries: the caller's schedule is the retry.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &provider.Error{Kind: provider.KindTimeout, Op: op, Err: err}
		}
		return nil, &provider.Error{Kind: provider.KindHTTP, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		if isTimeout(err) {
			return nil, &provider.Error{Kind: provider.KindTimeout, Op: op, Err: err}
		}
		return nil, &provider.Error{Kind: provider.KindHTTP, Op: op, Code: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.Error{
			Kind: provider.KindHTTP,
			Op:   op,
			Code: resp.StatusCode,
			Body: provider.Truncate(string(body), bodyLimit),
		}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &provider.Error{
			Kind: provider.KindMalformedOutput,
			Op:   op,
			Code: resp.StatusCode,
			Body: fmt.Sprintf("response exceeds %d bytes", c.maxBody),
		}
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
