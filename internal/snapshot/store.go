// internal/snapshot/store.go
package snapshot

import (
	"sync"
	"sync/atomic"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

// State is the latest known good view of the external system.
// A State is never mutated after it is stored; writers build a new one.
type State struct {
	Status   status.Snapshot
	Messages chat.Aggregate

	// Version increases by one on every write.
	Version uint64
}

// Store holds exactly one State.
//
// Readers load an immutable pointer and never lock, so they cannot observe a
// half-written value. Writers serialize on mu and swap the whole value.
type Store struct {
	mu      sync.Mutex
	cur     atomic.Pointer[State]
	changed chan struct{}
}

// New returns a store holding the empty state for sourceID.
func New(sourceID string) *Store {
	s := &Store{changed: make(chan struct{})}
	s.cur.Store(&State{
		Status:   status.Empty(),
		Messages: chat.EmptyAggregate(sourceID),
	})
	return s
}

// Get returns the current state.
func (s *Store) Get() State {
	return *s.cur.Load()
}

// Set replaces the whole state. The status shape never shrinks.
func (s *Store) Set(next State) {
	s.update(func(prev State) State {
		next.Status = next.Status.CarryForward(prev.Status)
		return next
	})
}

// SetStatus replaces the status part and leaves messages untouched.
func (s *Store) SetStatus(snap status.Snapshot) {
	s.update(func(prev State) State {
		prev.Status = snap.CarryForward(prev.Status)
		return prev
	})
}

// SetMessages replaces the messages part and leaves status untouched.
func (s *Store) SetMessages(agg chat.Aggregate) {
	s.update(func(prev State) State {
		prev.Messages = agg
		return prev
	})
}

// Changed returns a channel that is closed by the next write.
func (s *Store) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *Store) update(fn func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.cur.Load()
	next := fn(prev)
	next.Version = prev.Version + 1
	s.cur.Store(&next)

	close(s.changed)
	s.changed = make(chan struct{})
}
