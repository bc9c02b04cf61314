package matching

import (
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/skills"
)

// Qualifies checks the candidate against the criteria alone, ignoring the
// assignment status. Both sides must already be normalized.
func Qualifies(c candidate.Candidate, cr assignment.Criteria) bool {
	return c.Availability == candidate.Available &&
		c.DeclaredRole == cr.Role &&
		c.Seniority == cr.Seniority &&
		skills.Subset(cr.Languages, c.Languages) &&
		skills.Subset(cr.Expertises, c.Expertises)
}

// Eligible reports whether c may be offered a.
func Eligible(c candidate.Candidate, a assignment.Assignment) bool {
	return a.Status == assignment.StatusSearching && Qualifies(c, a.Criteria)
}
