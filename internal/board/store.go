package board

import (
	"sync"

	"github.com/cuongbtq/hireboard/internal/domain"
)

// Listener observes the state after each successful dispatch.
type Listener func(State)

// Store is the single writer of board state. State changes only through
// Dispatch; readers get deep copies from Snapshot.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store holding a copy of initial. Nil collections and
// unset pages are filled in.
func NewStore(initial State) *Store {
	if initial.Jobs == nil {
		initial.Jobs = map[string]domain.Job{}
	}
	if initial.Candidates == nil {
		initial.Candidates = map[string]domain.Candidate{}
	}
	initial.JobPage = initial.JobPage.Normalize()
	initial.CandidatePage = initial.CandidatePage.Normalize()

	return &Store{
		state:     initial.Clone(),
		listeners: map[int]Listener{},
	}
}

// Dispatch applies a to a working copy and commits it only if a succeeds.
// Listeners run after the store lock is released and must not assume they
// see every intermediate state.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	next := s.state.Clone()
	if err := a.apply(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.version++

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version counts committed dispatches.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
