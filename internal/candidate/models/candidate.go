package models

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	dErrors "rollcall/pkg/domain-errors"
)

// Field length bounds enforced at the write boundary. Stored records always
// satisfy them; storage itself never re-checks.
const (
	MaxNameLength        = 100
	MaxPartyLength       = 100
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
)

// Candidate is the sole persisted entity.
//
// Invariants:
//   - ID is unique within the process lifetime and never reused
//   - Name and PoliticalParty are non-empty, at most 100 characters
//   - Description is 10 to 1000 characters
//   - Image is derived from Name, never independently set
//   - CreatedAt is immutable after construction
type Candidate struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	PoliticalParty string    `json:"politicalParty"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CandidateStats is a projection of the collection at a point in time: one
// entry per distinct party with the number of candidates holding it.
type CandidateStats struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

// Snapshot is a full point-in-time copy of the list and stats, taken together
// so event payloads describe a single consistent collection state.
type Snapshot struct {
	Candidates []Candidate
	Stats      []CandidateStats
}

// CandidateInput carries the caller-settable fields for create and update.
type CandidateInput struct {
	Name           string `json:"name"`
	PoliticalParty string `json:"politicalParty"`
	Description    string `json:"description"`
}

// Normalize trims surrounding whitespace before validation.
func (in *CandidateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.PoliticalParty = strings.TrimSpace(in.PoliticalParty)
	in.Description = strings.TrimSpace(in.Description)
}

// Validate checks every field and collects all violations into a single
// validation error, so a caller fixing a form sees the full list at once.
func (in *CandidateInput) Validate() error {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "name is required")
	} else if utf8.RuneCountInString(in.Name) > MaxNameLength {
		violations = append(violations, fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if in.PoliticalParty == "" {
		violations = append(violations, "politicalParty is required")
	} else if utf8.RuneCountInString(in.PoliticalParty) > MaxPartyLength {
		violations = append(violations, fmt.Sprintf("politicalParty must be %d characters or less", MaxPartyLength))
	}
	if n := utf8.RuneCountInString(in.Description); n < MinDescriptionLength {
		violations = append(violations, fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	} else if n > MaxDescriptionLength {
		violations = append(violations, fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if len(violations) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(violations, "; "))
	}
	return nil
}

// New builds a Candidate from validated input. The ID is assigned by the
// store on insert; both timestamps start equal.
func New(in CandidateInput, now time.Time) Candidate {
	return Candidate{
		Name:           in.Name,
		Image:          AvatarURL(in.Name),
		PoliticalParty: in.PoliticalParty,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Apply replaces all mutable fields from validated input, re-deriving the
// avatar and refreshing UpdatedAt. ID and CreatedAt are left untouched.
func (c *Candidate) Apply(in CandidateInput, now time.Time) {
	c.Name = in.Name
	c.Image = AvatarURL(in.Name)
	c.PoliticalParty = in.PoliticalParty
	c.Description = in.Description
	c.UpdatedAt = now
}

// Matches reports whether the candidate matches a case-insensitive substring
// query against name, party, or description. The empty query matches all.
func (c *Candidate) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.PoliticalParty), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

// AvatarURL derives the avatar image URL deterministically from the name.
// The background color is the low 24 bits of an FNV-1a hash, so the same
// name always renders the same avatar.
func AvatarURL(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&size=400&background=%06x&color=fff&bold=true",
		url.QueryEscape(name), h.Sum32()&0xffffff,
	)
}
