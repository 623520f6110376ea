// Package event is the in-process change bus between the candidate service
// and transport-layer listeners. Event kinds form a closed set so subscribers
// get compile-time exhaustiveness instead of string-keyed lookup.
package event

import "rollcall/internal/candidate/models"

// Kind enumerates the change events a mutation can produce.
type Kind int

const (
	KindCreated Kind = iota
	KindUpdated
	KindDeleted
	KindListChanged
	KindStatsChanged
)

func (k Kind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindUpdated:
		return "updated"
	case KindDeleted:
		return "deleted"
	case KindListChanged:
		return "listChanged"
	case KindStatsChanged:
		return "statsChanged"
	default:
		return "unknown"
	}
}

// Event carries the payload matching its kind: Candidate for entity events,
// Candidates for list snapshots, Stats for stats snapshots.
type Event struct {
	Kind       Kind
	Candidate  *models.Candidate
	Candidates []models.Candidate
	Stats      []models.CandidateStats
}

func Created(c models.Candidate) Event {
	return Event{Kind: KindCreated, Candidate: &c}
}

func Updated(c models.Candidate) Event {
	return Event{Kind: KindUpdated, Candidate: &c}
}

func Deleted(c models.Candidate) Event {
	return Event{Kind: KindDeleted, Candidate: &c}
}

func ListChanged(candidates []models.Candidate) Event {
	return Event{Kind: KindListChanged, Candidates: candidates}
}

func StatsChanged(stats []models.CandidateStats) Event {
	return Event{Kind: KindStatsChanged, Stats: stats}
}

// Handler receives events synchronously on the publishing goroutine. Handlers
// must be fast; hand off to a channel before doing anything slow.
type Handler func(Event)
