// internal/transform/sender.go
package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Sender maps a provider-side name to an internal sender id.
type Sender struct {
	Name string
	ID   string
}

// SenderMapping resolves provider identities to internal sender ids.
// It is static for the process lifetime and safe for concurrent use.
type SenderMapping struct {
	senders  []Sender
	exact    map[string]string
	folded   []string
	fallback string
}

// NewSenderMapping builds a mapping. Order matters: when several names match
// a username as substrings, the first one in senders wins.
func NewSenderMapping(senders []Sender, fallback string) SenderMapping {
	m := SenderMapping{
		senders:  make([]Sender, 0, len(senders)),
		exact:    make(map[string]string, len(senders)),
		fallback: fallback,
	}
	for _, s := range senders {
		if s.Name == "" || s.ID == "" {
			continue
		}
		m.senders = append(m.senders, s)
		m.folded = append(m.folded, fold(s.Name))
		key := norm.NFC.String(s.Name)
		if _, dup := m.exact[key]; !dup {
			m.exact[key] = s.ID
		}
	}
	return m
}

// Fallback returns the default sender id.
func (m SenderMapping) Fallback() string { return m.fallback }

// Resolve returns the sender id for a message author.
//
// Exact display-name match first, then the first configured name that is a
// case-insensitive substring of the username or display name, then the fallback.
func (m SenderMapping) Resolve(displayName, username string) string {
	if id, ok := m.exact[norm.NFC.String(displayName)]; ok {
		return id
	}

	u := fold(username)
	d := fold(displayName)
	for i, name := range m.folded {
		if strings.Contains(u, name) || strings.Contains(d, name) {
			return m.senders[i].ID
		}
	}
	return m.fallback
}

// fold normalizes to NFC and applies Unicode case folding.
// A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
