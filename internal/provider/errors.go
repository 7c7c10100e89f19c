// internal/provider/errors.go
package provider

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies a provider failure.
// Callers branch on Kind, never on error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindNonZeroExit
	KindMalformedOutput
	KindHTTP
	KindNoRouteConfigured
	KindNoCredential
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindNonZeroExit:
		return "NonZeroExit"
	case KindMalformedOutput:
		return "MalformedOutput"
	case KindHTTP:
		return "TransportError"
	case KindNoRouteConfigured:
		return "NoRouteConfigured"
	case KindNoCredential:
		return "NoCredential"
	default:
		return "Unknown"
	}
}

// Error is the single failure type returned by provider clients.
type Error struct {
	Kind Kind
	Op   string // e.g. "openclaw status", "discord messages"
	Code int    // exit code (NonZeroExit) or HTTP status (KindHTTP)
	Body string // first bytes of stderr / response body, may be empty
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (%d)", e.Code)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err.
// Errors that are not *Error report KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is a provider failure of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Truncate bounds error bodies to at most n bytes without splitting a
// UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
