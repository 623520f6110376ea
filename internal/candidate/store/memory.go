// Package store owns the authoritative in-memory candidate collection and its
// id allocator. It intentionally favors clarity over performance.
package store

import (
	"context"
	"sync"
	"time"

	"rollcall/internal/candidate/models"
	"rollcall/pkg/platform/sentinel"
)

// InMemory holds the live candidate collection in insertion order. All
// read-modify-write of the collection and the id allocator happens under one
// lock; mutating operations capture list and stats snapshots under that same
// lock so event payloads always describe the committed state.
type InMemory struct {
	mu         sync.RWMutex
	candidates []models.Candidate
	nextID     int64
}

func NewInMemory() *InMemory {
	return &InMemory{nextID: 1}
}

// List returns a defensive copy of all records in insertion order.
func (s *InMemory) List(_ context.Context) []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

// FindByID returns the record with the given id, or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id int64) (models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return s.candidates[i], nil
		}
	}
	return models.Candidate{}, sentinel.ErrNotFound
}

// Search returns all records matching a case-insensitive substring query
// against name, party, and description. An empty query matches everything.
func (s *InMemory) Search(_ context.Context, query string) []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]models.Candidate, 0)
	for i := range s.candidates {
		if s.candidates[i].Matches(query) {
			matches = append(matches, s.candidates[i])
		}
	}
	return matches
}

// Insert allocates the next id, appends the record, and returns the stored
// copy together with a post-mutation snapshot. Ids are monotonic and never
// reused within the process lifetime.
func (s *InMemory) Insert(_ context.Context, c models.Candidate) (models.Candidate, models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.candidates = append(s.candidates, c)
	return c, s.snapshotLocked()
}

// Replace applies the input to the record with the given id, preserving id
// and creation time, and returns the updated copy with a snapshot.
func (s *InMemory) Replace(_ context.Context, id int64, in models.CandidateInput, now time.Time) (models.Candidate, models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			s.candidates[i].Apply(in, now)
			return s.candidates[i], s.snapshotLocked(), nil
		}
	}
	return models.Candidate{}, models.Snapshot{}, sentinel.ErrNotFound
}

// Remove deletes the record with the given id and returns the pre-deletion
// value with a snapshot. The id is not reassigned.
func (s *InMemory) Remove(_ context.Context, id int64) (models.Candidate, models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			removed := s.candidates[i]
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			return removed, s.snapshotLocked(), nil
		}
	}
	return models.Candidate{}, models.Snapshot{}, sentinel.ErrNotFound
}

// Stats groups candidates by party in encounter order.
func (s *InMemory) Stats(_ context.Context) []models.CandidateStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

// Count returns the current collection size.
func (s *InMemory) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}

// Parties returns the distinct parties currently present, in encounter order.
func (s *InMemory) Parties(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.candidates))
	parties := make([]string, 0)
	for i := range s.candidates {
		p := s.candidates[i].PoliticalParty
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			parties = append(parties, p)
		}
	}
	return parties
}

func (s *InMemory) listLocked() []models.Candidate {
	return append([]models.Candidate{}, s.candidates...)
}

func (s *InMemory) statsLocked() []models.CandidateStats {
	index := make(map[string]int, len(s.candidates))
	stats := make([]models.CandidateStats, 0)
	for i := range s.candidates {
		p := s.candidates[i].PoliticalParty
		if at, ok := index[p]; ok {
			stats[at].Count++
			continue
		}
		index[p] = len(stats)
		stats = append(stats, models.CandidateStats{Party: p, Count: 1})
	}
	return stats
}

func (s *InMemory) snapshotLocked() models.Snapshot {
	return models.Snapshot{Candidates: s.listLocked(), Stats: s.statsLocked()}
}
