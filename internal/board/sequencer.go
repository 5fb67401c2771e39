package board

import "sync"

// sequencer hands out monotonically increasing tickets for writes to one
// list. Only the holder of the latest ticket may commit a response, so a
// newer request always wins over an older one still in flight.
type sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// begin runs apply and, if it reports true, issues a new ticket. Nothing else
// can begin or commit on this list while apply runs.
func (s *sequencer) begin(apply func() bool) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if apply != nil && !apply() {
		return s.latest, false
	}
	s.latest++
	return s.latest, true
}

// commit runs apply if ticket is still the latest and reports whether it did.
func (s *sequencer) commit(ticket uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.latest {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// renew hands the latest position from ticket to a fresh ticket in one step,
// running apply in between. It fails if ticket has already been superseded.
func (s *sequencer) renew(ticket uint64, apply func()) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.latest {
		return 0, false
	}
	if apply != nil {
		apply()
	}
	s.latest++
	return s.latest, true
}
