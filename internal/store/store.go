// Package store holds completed scan records in memory. Records are
// append-only: once added they are never updated or deleted, and readers
// always see fully written records.
package store

import (
	"sync"
	"time"

	"dining-waste-tracker/internal/scan"
)

// Query filters records. Zero-valued fields are ignored; set fields are
// combined with AND semantics.
type Query struct {
	SchoolID  string
	StudentID string
	From      time.Time // inclusive
	To        time.Time // exclusive
}

// Store is a mutex-guarded append-only collection of scan records.
type Store struct {
	mu      sync.RWMutex
	records []scan.Record
	nextID  int
}

// New creates an empty Store. The first record gets id 1.
func New() *Store {
	return &Store{nextID: 1}
}

// Add assigns the next id to the record and appends it. Safe for concurrent
// use; ids are unique and strictly increasing.
func (s *Store) Add(r scan.Record) scan.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	s.records = append(s.records, r)
	return r
}

// Filter returns the records matching q in insertion order. An empty result
// is an empty slice, never an error.
func (s *Store) Filter(q Query) []scan.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []scan.Record{}
	for _, r := range s.records {
		if q.SchoolID != "" && r.SchoolID != q.SchoolID {
			continue
		}
		if q.StudentID != "" && r.StudentID != q.StudentID {
			continue
		}
		if !q.From.IsZero() && r.Timestamp.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !r.Timestamp.Before(q.To) {
			continue
		}
		matches = append(matches, r)
	}
	return matches
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
