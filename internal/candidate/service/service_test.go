package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rollcall/internal/candidate/event"
	"rollcall/internal/candidate/models"
	"rollcall/internal/candidate/store"
	dErrors "rollcall/pkg/domain-errors"
)

// recordingPublisher captures published events in delivery order.
type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(events ...event.Event) {
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) kinds() []event.Kind {
	kinds := make([]event.Kind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type ServiceSuite struct {
	suite.Suite
	svc       *Service
	publisher *recordingPublisher
	ctx       context.Context
	clock     time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.publisher = &recordingPublisher{}
	s.ctx = context.Background()
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(store.NewInMemory(),
		WithPublisher(s.publisher),
		WithClock(func() time.Time { return s.clock }),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) validInput() models.CandidateInput {
	return models.CandidateInput{
		Name:           "Ana Pop",
		PoliticalParty: "X",
		Description:    "a valid ten+ char bio",
	}
}

// TestCreate verifies create semantics and event emission.
func (s *ServiceSuite) TestCreate() {
	s.Run("assigns id 1 and equal timestamps", func() {
		created, err := s.svc.Create(s.ctx, s.validInput())
		s.Require().NoError(err)

		s.Equal(int64(1), created.ID)
		s.Equal(created.CreatedAt, created.UpdatedAt)
		s.Equal(models.AvatarURL("Ana Pop"), created.Image)

		found, err := s.svc.GetByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found)
		s.Equal(*created, *found)
	})

	s.Run("emits created then listChanged then statsChanged", func() {
		s.Equal([]event.Kind{event.KindCreated, event.KindListChanged, event.KindStatsChanged}, s.publisher.kinds())
		s.Require().NotNil(s.publisher.events[0].Candidate)
		s.Equal("Ana Pop", s.publisher.events[0].Candidate.Name)
		s.Len(s.publisher.events[1].Candidates, 1)
		s.Equal([]models.CandidateStats{{Party: "X", Count: 1}}, s.publisher.events[2].Stats)
	})

	s.Run("ids strictly increase", func() {
		in := s.validInput()
		in.Name = "Ion Popescu"
		next, err := s.svc.Create(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(int64(2), next.ID)
	})

	s.Run("invalid input emits nothing", func() {
		before := len(s.publisher.events)
		_, err := s.svc.Create(s.ctx, models.CandidateInput{Name: "", PoliticalParty: "X", Description: "short"})

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name is required")
		s.Contains(err.Error(), "description must be at least 10 characters")
		s.Len(s.publisher.events, before)
		s.Equal(2, s.svc.TotalCount(s.ctx))
	})
}

// TestGetByID verifies absence is not an error.
func (s *ServiceSuite) TestGetByID() {
	found, err := s.svc.GetByID(s.ctx, 42)
	s.Require().NoError(err)
	s.Nil(found)
}

// TestUpdate verifies identity preservation and event emission.
func (s *ServiceSuite) TestUpdate() {
	created, err := s.svc.Create(s.ctx, s.validInput())
	s.Require().NoError(err)
	s.publisher.events = nil

	s.clock = s.clock.Add(time.Hour)
	updated, err := s.svc.Update(s.ctx, created.ID, models.CandidateInput{
		Name: "Ana Popescu", PoliticalParty: "Y", Description: "another valid bio here",
	})
	s.Require().NoError(err)

	s.Run("preserves id and createdAt, advances updatedAt", func() {
		s.Equal(created.ID, updated.ID)
		s.Equal(created.CreatedAt, updated.CreatedAt)
		s.True(updated.UpdatedAt.After(created.UpdatedAt))
		s.Equal("Ana Popescu", updated.Name)
		s.Equal(models.AvatarURL("Ana Popescu"), updated.Image)
	})

	s.Run("emits updated then listChanged then statsChanged", func() {
		s.Equal([]event.Kind{event.KindUpdated, event.KindListChanged, event.KindStatsChanged}, s.publisher.kinds())
	})

	s.Run("unknown id fails before validation", func() {
		s.publisher.events = nil
		_, err := s.svc.Update(s.ctx, 999, models.CandidateInput{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Empty(s.publisher.events)
	})

	s.Run("invalid input emits nothing", func() {
		s.publisher.events = nil
		_, err := s.svc.Update(s.ctx, created.ID, models.CandidateInput{Name: "", PoliticalParty: "", Description: ""})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Empty(s.publisher.events)
	})
}

// TestDelete verifies removal semantics and event emission.
func (s *ServiceSuite) TestDelete() {
	created, err := s.svc.Create(s.ctx, s.validInput())
	s.Require().NoError(err)
	before := s.svc.TotalCount(s.ctx)
	s.publisher.events = nil

	deleted, err := s.svc.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(*created, *deleted)
	s.Equal(before-1, s.svc.TotalCount(s.ctx))

	found, err := s.svc.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Nil(found)

	s.Equal([]event.Kind{event.KindDeleted, event.KindListChanged, event.KindStatsChanged}, s.publisher.kinds())

	s.publisher.events = nil
	_, err = s.svc.Delete(s.ctx, created.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.publisher.events)
}

// TestGenerateRandom verifies party sampling and create delegation.
func (s *ServiceSuite) TestGenerateRandom() {
	s.Run("empty store fails", func() {
		_, err := s.svc.GenerateRandom(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEmptyStore))
		s.Empty(s.publisher.events)
	})

	s.Run("samples the only existing party", func() {
		_, err := s.svc.Create(s.ctx, s.validInput())
		s.Require().NoError(err)
		s.publisher.events = nil

		generated, err := s.svc.GenerateRandom(s.ctx)
		s.Require().NoError(err)
		s.Equal("X", generated.PoliticalParty)
		s.NotEmpty(generated.Name)
		s.GreaterOrEqual(len(generated.Description), models.MinDescriptionLength)

		// Inherits create's event emission.
		s.Equal([]event.Kind{event.KindCreated, event.KindListChanged, event.KindStatsChanged}, s.publisher.kinds())
	})

	s.Run("only samples parties currently present", func() {
		for range 10 {
			generated, err := s.svc.GenerateRandom(s.ctx)
			s.Require().NoError(err)
			s.Equal("X", generated.PoliticalParty)
		}
	})
}

// TestStats verifies the projection stays consistent with the collection.
func (s *ServiceSuite) TestStats() {
	inputs := []models.CandidateInput{
		{Name: "Ana Pop", PoliticalParty: "X", Description: "a valid ten+ char bio"},
		{Name: "Ion Popescu", PoliticalParty: "Y", Description: "a valid ten+ char bio"},
		{Name: "Maria Stan", PoliticalParty: "X", Description: "a valid ten+ char bio"},
	}
	for _, in := range inputs {
		_, err := s.svc.Create(s.ctx, in)
		s.Require().NoError(err)
	}

	stats := s.svc.Stats(s.ctx)
	s.Equal([]models.CandidateStats{
		{Party: "X", Count: 2},
		{Party: "Y", Count: 1},
	}, stats)

	total := 0
	for _, st := range stats {
		total += st.Count
	}
	s.Equal(s.svc.TotalCount(s.ctx), total)
}

// TestSearch verifies delegation to the store's matching rules.
func (s *ServiceSuite) TestSearch() {
	_, err := s.svc.Create(s.ctx, models.CandidateInput{
		Name: "Nicușor Dan", PoliticalParty: "USR (Save Romania Union)", Description: "a valid ten+ char bio",
	})
	s.Require().NoError(err)

	s.Len(s.svc.Search(s.ctx, "usr"), 1)
	s.Len(s.svc.Search(s.ctx, ""), 1)
	s.Empty(s.svc.Search(s.ctx, "psd"))
}
