package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/candidate"
)

// CandidateStore is an in-process candidate.Registry.
type CandidateStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]candidate.Candidate
}

var _ candidate.Registry = (*CandidateStore)(nil)

func NewCandidateStore() *CandidateStore {
	return &CandidateStore{rows: make(map[uuid.UUID]candidate.Candidate)}
}

func (s *CandidateStore) Get(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return cloneCandidate(c), nil
}

func (s *CandidateStore) ListByRole(ctx context.Context, role string, seniority candidate.Seniority) ([]candidate.Candidate, error) {
	s.mu.RLock()
	var res []candidate.Candidate
	for _, c := range s.rows {
		if c.DeclaredRole == role && c.Seniority == seniority {
			res = append(res, cloneCandidate(c))
		}
	}
	s.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].ID.String() < res[j].ID.String() })
	return res, nil
}

func (s *CandidateStore) Upsert(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return candidate.Candidate{}, err
	}
	c.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.rows[c.ID] = cloneCandidate(c)
	s.mu.Unlock()
	return c, nil
}

func (s *CandidateStore) SetAvailability(ctx context.Context, id uuid.UUID, a candidate.Availability) (candidate.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	if !c.IsAutomated() {
		c.Availability = a
	}
	c.UpdatedAt = time.Now().UTC()
	s.rows[id] = c
	return cloneCandidate(c), nil
}

func cloneCandidate(c candidate.Candidate) candidate.Candidate {
	c.Languages = append([]string(nil), c.Languages...)
	c.Expertises = append([]string(nil), c.Expertises...)
	return c
}
