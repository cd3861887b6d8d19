// Package session groups certification workflow events by session key and
// derives each session's lifecycle status.
package session

import (
	"github.com/yourorg/yulelog/internal/filter"
	"github.com/yourorg/yulelog/pkg/types"
)

// Store accumulates workflow events per session key. It grows for the life of
// the run and has no eviction. It is not safe for concurrent use.
type Store struct {
	records map[string]*Record
	events  int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Record appends ev to its session, creating the session on first sight.
// Events outside the workflow, or whose path has no resolvable key, are
// dropped and Record returns false.
func (s *Store) Record(ev types.Event) bool {
	if !filter.IsWorkflow(ev.Resource) {
		return false
	}
	key, _, ok := filter.Classify(ev.Resource)
	if !ok {
		return false
	}
	rec, ok := s.records[key]
	if !ok {
		rec = &Record{}
		s.records[key] = rec
	}
	rec.events = append(rec.events, ev)
	s.events++
	return true
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	return len(s.records)
}

// Events returns the total number of recorded events.
func (s *Store) Events() int {
	return s.events
}

// Snapshot returns a point-in-time copy of every session.
func (s *Store) Snapshot() Report {
	records := make(map[string]*Record, len(s.records))
	for key, rec := range s.records {
		records[key] = rec.clone()
	}
	return Report{records: records}
}
