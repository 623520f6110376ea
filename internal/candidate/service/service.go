// Package service implements the candidate record store's write contract:
// validated CRUD, random generation, and change event emission.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"rollcall/internal/candidate/event"
	"rollcall/internal/candidate/metrics"
	"rollcall/internal/candidate/models"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
)

// Store is the authoritative candidate collection. Mutating operations return
// a snapshot captured under the store lock so published events always match
// the committed state.
type Store interface {
	List(ctx context.Context) []models.Candidate
	FindByID(ctx context.Context, id int64) (models.Candidate, error)
	Search(ctx context.Context, query string) []models.Candidate
	Insert(ctx context.Context, c models.Candidate) (models.Candidate, models.Snapshot)
	Replace(ctx context.Context, id int64, in models.CandidateInput, now time.Time) (models.Candidate, models.Snapshot, error)
	Remove(ctx context.Context, id int64) (models.Candidate, models.Snapshot, error)
	Stats(ctx context.Context) []models.CandidateStats
	Count(ctx context.Context) int
	Parties(ctx context.Context) []string
}

// Publisher receives a mutation's events as one ordered batch.
type Publisher interface {
	Publish(events ...event.Event)
}

// Service orchestrates candidate reads and writes. Every successful mutation
// publishes exactly one entity event followed by listChanged and statsChanged;
// a failed mutation publishes nothing.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a snapshot of all candidates in insertion order.
func (s *Service) List(ctx context.Context) []models.Candidate {
	return s.store.List(ctx)
}

// GetByID returns the candidate with the given id, or nil when absent.
// Absence is not an error for reads; only writes against a missing id fail.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Candidate, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
	}
	return &c, nil
}

// Search returns all candidates matching the query.
func (s *Service) Search(ctx context.Context, query string) []models.Candidate {
	start := time.Now()
	results := s.store.Search(ctx, query)
	if s.metrics != nil {
		s.metrics.ObserveSearch(start)
	}
	return results
}

// Create validates the input, stores a new candidate, and publishes
// created + listChanged + statsChanged.
func (s *Service) Create(ctx context.Context, in models.CandidateInput) (*models.Candidate, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, snap := s.store.Insert(ctx, models.New(in, s.now()))
	s.publish(event.Created(created), snap)
	s.log(ctx, "candidate created", "id", created.ID, "name", created.Name, "party", created.PoliticalParty)
	if s.metrics != nil {
		s.metrics.CandidatesCreated.Inc()
	}
	return &created, nil
}

// Update validates the input and replaces all mutable fields of an existing
// candidate, publishing updated + listChanged + statsChanged.
func (s *Service) Update(ctx context.Context, id int64, in models.CandidateInput) (*models.Candidate, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return nil, s.notFound(err)
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated, snap, err := s.store.Replace(ctx, id, in, s.now())
	if err != nil {
		return nil, s.notFound(err)
	}
	s.publish(event.Updated(updated), snap)
	s.log(ctx, "candidate updated", "id", updated.ID, "name", updated.Name)
	if s.metrics != nil {
		s.metrics.CandidatesUpdated.Inc()
	}
	return &updated, nil
}

// Delete removes a candidate, returning the pre-deletion value and publishing
// deleted + listChanged + statsChanged.
func (s *Service) Delete(ctx context.Context, id int64) (*models.Candidate, error) {
	deleted, snap, err := s.store.Remove(ctx, id)
	if err != nil {
		return nil, s.notFound(err)
	}
	s.publish(event.Deleted(deleted), snap)
	s.log(ctx, "candidate deleted", "id", deleted.ID, "name", deleted.Name)
	if s.metrics != nil {
		s.metrics.CandidatesDeleted.Inc()
	}
	return &deleted, nil
}

// GenerateRandom synthesizes a candidate for one of the parties already
// present, chosen uniformly from the distinct set, and delegates to Create so
// it inherits validation and event emission.
func (s *Service) GenerateRandom(ctx context.Context) (*models.Candidate, error) {
	parties := s.store.Parties(ctx)
	if len(parties) == 0 {
		return nil, dErrors.New(dErrors.CodeEmptyStore, "no parties to sample from; create a candidate first")
	}

	in := models.CandidateInput{
		Name:           fmt.Sprintf("%s %s", firstNames[rand.IntN(len(firstNames))], lastNames[rand.IntN(len(lastNames))]),
		PoliticalParty: parties[rand.IntN(len(parties))],
		Description:    backgrounds[rand.IntN(len(backgrounds))],
	}

	created, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CandidatesGenerated.Inc()
	}
	return created, nil
}

// Stats groups current candidates by party.
func (s *Service) Stats(ctx context.Context) []models.CandidateStats {
	return s.store.Stats(ctx)
}

// TotalCount returns the current collection size.
func (s *Service) TotalCount(ctx context.Context) int {
	return s.store.Count(ctx)
}

// publish emits the entity event followed by the derived snapshot events.
// Emission happens after the store lock is released; a subscriber failure
// cannot corrupt store state.
func (s *Service) publish(entity event.Event, snap models.Snapshot) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(
		entity,
		event.ListChanged(snap.Candidates),
		event.StatsChanged(snap.Stats),
	)
}

func (s *Service) notFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "candidate not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
