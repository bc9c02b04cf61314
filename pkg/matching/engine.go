package matching

import (
	"context"
	"fmt"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/logging"
)

// searchPageSize bounds a single ListSearching call.
const searchPageSize = 200

// Engine answers eligibility queries. It never writes; results may be stale
// and are re-checked at accept time.
type Engine struct {
	assignments assignment.Repository
	candidates  candidate.Directory
	log         *logging.Logger
}

func NewEngine(assignments assignment.Repository, candidates candidate.Directory, log *logging.Logger) *Engine {
	return &Engine{assignments: assignments, candidates: candidates, log: log.Component("matching")}
}

// FindEligibleAssignments returns searching assignments the candidate may accept.
// Assignments with malformed criteria are logged and left out.
func (e *Engine) FindEligibleAssignments(ctx context.Context, c candidate.Candidate) ([]assignment.Assignment, error) {
	if c.Availability != candidate.Available {
		return []assignment.Assignment{}, nil
	}
	res := make([]assignment.Assignment, 0)
	filter := assignment.SearchFilter{Role: c.DeclaredRole, Seniority: c.Seniority, Limit: searchPageSize}
	for {
		page, err := e.assignments.ListSearching(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list searching assignments: %w", err)
		}
		for _, a := range page {
			if err := a.Criteria.Validate(); err != nil {
				e.log.Warn("assignment excluded from matching", "assignment_id", a.ID, "err", err)
				continue
			}
			if Eligible(c, a) {
				res = append(res, a)
			}
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += len(page)
	}
	return res, nil
}

// FindEligibleCandidates returns every candidate that may accept a.
// No ranking is applied; the first accept to commit wins.
func (e *Engine) FindEligibleCandidates(ctx context.Context, a assignment.Assignment) ([]candidate.Candidate, error) {
	if err := a.Criteria.Validate(); err != nil {
		e.log.Warn("assignment excluded from matching", "assignment_id", a.ID, "err", err)
		return nil, err
	}
	res := make([]candidate.Candidate, 0)
	if a.Status != assignment.StatusSearching {
		return res, nil
	}
	list, err := e.candidates.ListByRole(ctx, a.Criteria.Role, a.Criteria.Seniority)
	if err != nil {
		return nil, fmt.Errorf("list candidates by role: %w", err)
	}
	for _, c := range list {
		if Eligible(c, a) {
			res = append(res, c)
		}
	}
	return res, nil
}
