package assignment

import (
	"fmt"

	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/skills"
)

// Criteria — требования слота к кандидату.
type Criteria struct {
	Role       string              `json:"requiredRole"`
	Seniority  candidate.Seniority `json:"requiredSeniority"`
	Languages  []string            `json:"requiredLanguages"`
	Expertises []string            `json:"requiredExpertises"`
}

// Normalize returns criteria with tags in canonical form.
func (c Criteria) Normalize() Criteria {
	c.Role = skills.NormalizeTag(c.Role)
	c.Seniority = candidate.Seniority(skills.NormalizeTag(string(c.Seniority)))
	c.Languages = skills.NormalizeSet(c.Languages)
	c.Expertises = skills.NormalizeExpertises(c.Expertises)
	return c
}

// Validate reports malformed criteria as ErrInvalidCriteria.
func (c Criteria) Validate() error {
	if c.Role == "" {
		return fmt.Errorf("%w: required role is empty", ErrInvalidCriteria)
	}
	if !c.Seniority.Valid() {
		return fmt.Errorf("%w: unknown seniority %q", ErrInvalidCriteria, c.Seniority)
	}
	return nil
}
