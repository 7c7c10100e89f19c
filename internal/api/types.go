// internal/api/types.go
package api

import (
	"time"

	"github.com/tamzrod/openpad-bridge/internal/health"
)

// Stable error codes. Clients branch on these, never on Detail.
const (
	ErrNotFound          = "NotFound"
	ErrMethodNotAllowed  = "MethodNotAllowed"
	ErrInvalidBody       = "InvalidBody"
	ErrNoText            = "NoText"
	ErrNoRouteConfigured = "NoRouteConfigured"
	ErrTransport         = "TransportError"
)

// APIError is a standard error payload.
type APIError struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// SendRequest is the POST /send body.
// Username and Channel are accepted as older spellings of DisplayName and
// ChannelSlug.
type SendRequest struct {
	Text        string `json:"text"`
	DisplayName string `json:"displayName"`
	ChannelSlug string `json:"channelSlug"`
	Username    string `json:"username"`
	Channel     string `json:"channel"`
}

type SendResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the /healthz body. Status is the worst target state.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Targets   map[string]health.Target `json:"targets,omitempty"`
}

// TimeNow abstracts time for tests; overridden in tests.
var TimeNow = func() time.Time { return time.Now() }

func timestamp() string {
	return TimeNow().UTC().Format(time.RFC3339)
}
