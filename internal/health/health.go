// internal/health/health.go
package health

import (
	"sync"
	"time"
)

// State is the health of one poll target.
type State string

const (
	// StateUnknown is the boot state: no cycle has completed yet.
	StateUnknown State = "unknown"
	StateOK      State = "ok"
	StateError   State = "error"

	// StateStale means the last cycle succeeded but no cycle has
	// completed for StaleAfter intervals.
	StateStale State = "stale"
)

// StaleAfter is the number of missed intervals before an OK target
// reports stale.
const StaleAfter = 3

// Target is what readers see for one target.
type Target struct {
	State         State  `json:"state"`
	LastErrorKind string `json:"lastErrorKind,omitempty"`
	LastError     string `json:"lastError,omitempty"`
	LastSuccess   string `json:"lastSuccess,omitempty"` // RFC3339

	// SinceSuccessSeconds is absent until the first success.
	SinceSuccessSeconds *int64 `json:"sinceSuccessSeconds,omitempty"`
	SecondsInError      int64  `json:"secondsInError"`
}

type entry struct {
	interval    time.Duration
	state       State
	lastKind    string
	lastErr     string
	lastSuccess time.Time
	lastCycle   time.Time
	errorSince  time.Time
}

// Tracker holds per-target health. Writers are the poll consumers;
// readers are the API. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	targets map[string]*entry
}

func NewTracker() *Tracker {
	return &Tracker{targets: make(map[string]*entry)}
}

// Register adds a target in the unknown state. interval drives the
// stale check; zero disables it.
func (t *Tracker) Register(name string, interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.targets[name]; ok {
		e.interval = interval
		return
	}
	t.targets[name] = &entry{interval: interval, state: StateUnknown}
}

// Success records a completed cycle and clears any error.
func (t *Tracker) Success(name string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(name)
	e.state = StateOK
	e.lastKind = ""
	e.lastErr = ""
	e.errorSince = time.Time{}
	e.lastSuccess = at
	e.lastCycle = at
}

// Failure records a failed cycle. The error clock starts at the first
// failure after a success (or after boot) and keeps running until the
// next success.
func (t *Tracker) Failure(name, kind string, err error, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(name)
	if e.state != StateError {
		e.errorSince = at
	}
	e.state = StateError
	e.lastKind = kind
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
	e.lastCycle = at
}

func (t *Tracker) get(name string) *entry {
	e, ok := t.targets[name]
	if !ok {
		e = &entry{state: StateUnknown}
		t.targets[name] = e
	}
	return e
}

// Snapshot renders every target as of now.
func (t *Tracker) Snapshot(now time.Time) map[string]Target {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]Target, len(t.targets))
	for name, e := range t.targets {
		out[name] = e.render(now)
	}
	return out
}

func (e *entry) render(now time.Time) Target {
	tg := Target{
		State:         e.state,
		LastErrorKind: e.lastKind,
		LastError:     e.lastErr,
	}

	if !e.lastSuccess.IsZero() {
		tg.LastSuccess = e.lastSuccess.UTC().Format(time.RFC3339)
		since := int64(now.Sub(e.lastSuccess) / time.Second)
		if since < 0 {
			since = 0
		}
		tg.SinceSuccessSeconds = &since
	}

	if e.state == StateError && !e.errorSince.IsZero() {
		if s := int64(now.Sub(e.errorSince) / time.Second); s > 0 {
			tg.SecondsInError = s
		}
	}

	if e.state == StateOK && e.interval > 0 && now.Sub(e.lastCycle) > StaleAfter*e.interval {
		tg.State = StateStale
	}
	return tg
}

// Overall folds target states into one, worst first:
// error, stale, unknown, ok. No targets is unknown.
func Overall(targets map[string]Target) State {
	if len(targets) == 0 {
		return StateUnknown
	}

	rank := map[State]int{StateOK: 0, StateUnknown: 1, StateStale: 2, StateError: 3}
	worst := StateOK
	for _, tg := range targets {
		if rank[tg.State] > rank[worst] {
			worst = tg.State
		}
	}
	return worst
}
