package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "rollcall/pkg/domain-errors"
)

type CandidateInputSuite struct {
	suite.Suite
}

func TestCandidateInputSuite(t *testing.T) {
	suite.Run(t, new(CandidateInputSuite))
}

func (s *CandidateInputSuite) validInput() CandidateInput {
	return CandidateInput{
		Name:           "Ana Pop",
		PoliticalParty: "X",
		Description:    "a valid ten+ char bio",
	}
}

// TestValidation verifies field bounds and that all violations are collected.
func (s *CandidateInputSuite) TestValidation() {
	s.Run("valid input passes", func() {
		in := s.validInput()
		s.NoError(in.Validate())
	})

	s.Run("empty name rejected", func() {
		in := s.validInput()
		in.Name = ""

		err := in.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name is required")
	})

	s.Run("name over 100 characters rejected", func() {
		in := s.validInput()
		in.Name = strings.Repeat("a", MaxNameLength+1)

		err := in.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "name must be 100 characters or less")
	})

	s.Run("name at 100 characters allowed", func() {
		in := s.validInput()
		in.Name = strings.Repeat("a", MaxNameLength)
		s.NoError(in.Validate())
	})

	s.Run("empty party rejected", func() {
		in := s.validInput()
		in.PoliticalParty = ""

		err := in.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "politicalParty is required")
	})

	s.Run("short description rejected", func() {
		in := s.validInput()
		in.Description = "short"

		err := in.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "description must be at least 10 characters")
	})

	s.Run("description at bounds allowed", func() {
		in := s.validInput()
		in.Description = strings.Repeat("d", MinDescriptionLength)
		s.NoError(in.Validate())

		in.Description = strings.Repeat("d", MaxDescriptionLength)
		s.NoError(in.Validate())
	})

	s.Run("all violations reported together", func() {
		in := CandidateInput{Name: "", PoliticalParty: "X", Description: "short"}

		err := in.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name is required")
		s.Contains(err.Error(), "description must be at least 10 characters")
	})

	s.Run("normalize trims whitespace", func() {
		in := CandidateInput{Name: "  Ana Pop  ", PoliticalParty: " X ", Description: "  a valid ten+ char bio "}
		in.Normalize()
		s.Equal("Ana Pop", in.Name)
		s.Equal("X", in.PoliticalParty)
		s.Equal("a valid ten+ char bio", in.Description)
	})
}

type CandidateSuite struct {
	suite.Suite
}

func TestCandidateSuite(t *testing.T) {
	suite.Run(t, new(CandidateSuite))
}

// TestConstruction verifies derived fields and timestamp semantics.
func (s *CandidateSuite) TestConstruction() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(CandidateInput{Name: "Ana Pop", PoliticalParty: "X", Description: "a valid ten+ char bio"}, now)

	s.Run("timestamps start equal", func() {
		s.Equal(c.CreatedAt, c.UpdatedAt)
	})

	s.Run("image derived from name", func() {
		s.Equal(AvatarURL("Ana Pop"), c.Image)
		s.Contains(c.Image, "Ana+Pop")
	})

	s.Run("derivation is deterministic", func() {
		s.Equal(AvatarURL("Ana Pop"), AvatarURL("Ana Pop"))
		s.NotEqual(AvatarURL("Ana Pop"), AvatarURL("Ion Popescu"))
	})
}

// TestApply verifies update semantics: mutable fields replaced, identity kept.
func (s *CandidateSuite) TestApply() {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	c := New(CandidateInput{Name: "Ana Pop", PoliticalParty: "X", Description: "a valid ten+ char bio"}, created)
	c.ID = 1

	c.Apply(CandidateInput{Name: "Ion Popescu", PoliticalParty: "Y", Description: "another valid bio here"}, later)

	s.Equal(int64(1), c.ID)
	s.Equal(created, c.CreatedAt)
	s.Equal(later, c.UpdatedAt)
	s.Equal("Ion Popescu", c.Name)
	s.Equal("Y", c.PoliticalParty)
	s.Equal(AvatarURL("Ion Popescu"), c.Image)
}

// TestMatches verifies case-insensitive substring matching.
func (s *CandidateSuite) TestMatches() {
	c := Candidate{Name: "Nicușor Dan", PoliticalParty: "USR (Save Romania Union)", Description: "Civic activist"}

	s.True(c.Matches("usr"))
	s.True(c.Matches("DAN"))
	s.True(c.Matches("activist"))
	s.True(c.Matches(""))
	s.False(c.Matches("psd"))
}
