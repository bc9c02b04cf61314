package candidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/skills"
)

// Seniority — уровень кандидата и требуемый уровень роли.
type Seniority string

const (
	SeniorityJunior       Seniority = "junior"
	SeniorityIntermediate Seniority = "intermediate"
	SenioritySenior       Seniority = "senior"
)

// ParseSeniority normalizes s and checks it against the known tiers.
func ParseSeniority(s string) (Seniority, error) {
	v := Seniority(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown seniority %q", s)
	}
	return v, nil
}

func (s Seniority) Valid() bool {
	switch s {
	case SeniorityJunior, SeniorityIntermediate, SenioritySenior:
		return true
	}
	return false
}

// Availability — может ли кандидат сейчас получать предложения.
type Availability string

const (
	Available       Availability = "available"
	InQualification Availability = "in_qualification"
	Unavailable     Availability = "unavailable"
)

func ParseAvailability(s string) (Availability, error) {
	v := Availability(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case Available, InQualification, Unavailable:
		return v, nil
	}
	return "", fmt.Errorf("unknown availability %q", s)
}

// Candidate is a read model of a person or an automated actor that can fill a role.
// Records are owned by the identity service; this module only reads them.
type Candidate struct {
	ID           uuid.UUID
	DeclaredRole string
	Seniority    Seniority
	Languages    []string
	Expertises   []string
	Availability Availability
	Profile      Profile
	UpdatedAt    time.Time
}

// IsAutomated reports whether the candidate is an automated (AI) actor.
func (c Candidate) IsAutomated() bool {
	return c.Profile != nil && c.Profile.Kind() == KindAutomated
}

// Normalize returns a copy with role and skill tags in canonical form.
// Automated candidates are always available.
func (c Candidate) Normalize() Candidate {
	c.DeclaredRole = skills.NormalizeTag(c.DeclaredRole)
	c.Seniority = Seniority(strings.ToLower(strings.TrimSpace(string(c.Seniority))))
	c.Languages = skills.NormalizeSet(c.Languages)
	c.Expertises = skills.NormalizeExpertises(c.Expertises)
	if c.Profile == nil {
		c.Profile = HumanProfile{}
	}
	if c.IsAutomated() {
		c.Availability = Available
	}
	return c
}

// Validate checks a normalized candidate.
func (c Candidate) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if c.DeclaredRole == "" {
		return fmt.Errorf("%w: declared role is required", ErrInvalidProfile)
	}
	if !c.Seniority.Valid() {
		return fmt.Errorf("%w: unknown seniority %q", ErrInvalidProfile, c.Seniority)
	}
	if _, err := ParseAvailability(string(c.Availability)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	switch p := c.Profile.(type) {
	case HumanProfile:
	case AutomatedProfile:
		if p.BindingID != c.ID {
			return fmt.Errorf("%w: automated binding %s must equal candidate id %s", ErrInvalidProfile, p.BindingID, c.ID)
		}
		if c.Availability != Available {
			return fmt.Errorf("%w: automated candidate must be available", ErrInvalidProfile)
		}
	default:
		return fmt.Errorf("%w: missing profile kind", ErrInvalidProfile)
	}
	return nil
}
