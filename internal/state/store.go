package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/logbuf/internal/recorder"
)

// Snapshot represents the latest recorder and source statistics for the UI.
type Snapshot struct {
	Recorded            uint64 // items appended since start
	Evicted             uint64 // items dropped to honor the buffer limit
	Cleared             uint64 // Clear calls
	LastRecord          time.Time
	SourceUpdated       time.Time // last poll of the followed file
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the followed file has failed for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// ObserveRecord counts one appended item.
func (s *Store) ObserveRecord(evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Recorded++
	if evicted {
		s.snapshot.Evicted++
	}
	s.snapshot.LastRecord = s.clock()
}

// ObserveClear counts one buffer clear.
func (s *Store) ObserveClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Cleared++
}

// UpdateSource records the outcome of a poll. When err is non-nil the counters
// are kept but the error is recorded for visibility.
func (s *Store) UpdateSource(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.SourceUpdated = s.clock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Attach registers callbacks on rec that keep s current. The returned func
// removes them.
func Attach[T any](s *Store, rec *recorder.Recorder[T]) (detach func()) {
	onRecord := rec.OnRecord(func(_ *recorder.Recorder[T], _ T, evicted bool) {
		s.ObserveRecord(evicted)
	})
	onClear := rec.OnClear(func(*recorder.Recorder[T]) {
		s.ObserveClear()
	})
	return func() {
		rec.RemoveCallback(onRecord)
		rec.RemoveCallback(onClear)
	}
}
