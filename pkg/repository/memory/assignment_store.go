package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/assignment"
)

// AssignmentStore is an in-process assignment.Repository.
// A single mutex makes every CompareAndSwap atomic.
type AssignmentStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]assignment.Assignment
	clock func() time.Time
}

var _ assignment.Repository = (*AssignmentStore)(nil)

func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{
		rows:  make(map[uuid.UUID]assignment.Assignment),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (s *AssignmentStore) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, ok := s.rows[a.ID]; ok {
		return assignment.Assignment{}, fmt.Errorf("assignment %s already exists", a.ID)
	}
	now := s.clock()
	a.CreatedAt, a.UpdatedAt = now, now
	s.rows[a.ID] = clone(a)
	return clone(a), nil
}

func (s *AssignmentStore) Get(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return clone(a), nil
}

func (s *AssignmentStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []assignment.Assignment
	for _, a := range s.rows {
		if a.ProjectID == projectID {
			res = append(res, clone(a))
		}
	}
	sortByCreated(res)
	return res, nil
}

func (s *AssignmentStore) ListSearching(ctx context.Context, f assignment.SearchFilter) ([]assignment.Assignment, error) {
	s.mu.Lock()
	var res []assignment.Assignment
	for _, a := range s.rows {
		if a.Status != assignment.StatusSearching {
			continue
		}
		if f.Role != "" && a.Criteria.Role != f.Role {
			continue
		}
		if f.Seniority != "" && a.Criteria.Seniority != f.Seniority {
			continue
		}
		res = append(res, clone(a))
	}
	s.mu.Unlock()
	sortByCreated(res)
	if f.Offset > 0 {
		if f.Offset >= len(res) {
			return nil, nil
		}
		res = res[f.Offset:]
	}
	if f.Limit > 0 && len(res) > f.Limit {
		res = res[:f.Limit]
	}
	return res, nil
}

func (s *AssignmentStore) CompareAndSwap(ctx context.Context, t assignment.Transition) (assignment.Assignment, error) {
	if err := t.Check(); err != nil {
		return assignment.Assignment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[t.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if cur.Version != t.ExpectedVersion {
		return assignment.Assignment{}, assignment.ErrStaleVersion
	}
	if !t.Allows(cur.Status) {
		return assignment.Assignment{}, fmt.Errorf("%w: %s -> %s", assignment.ErrInvalidTransition, cur.Status, t.To)
	}
	cur.Status = t.To
	cur.CandidateID = copyID(t.CandidateID)
	cur.Version++
	cur.UpdatedAt = s.clock()
	s.rows[t.ID] = cur
	return clone(cur), nil
}

func (s *AssignmentStore) UpdateCriteria(ctx context.Context, id uuid.UUID, expectedVersion int64, c assignment.Criteria) (assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return assignment.Assignment{}, assignment.ErrStaleVersion
	}
	if cur.Status != assignment.StatusDraft && cur.Status != assignment.StatusSearching {
		return assignment.Assignment{}, fmt.Errorf("%w: criteria are frozen in %s", assignment.ErrInvalidTransition, cur.Status)
	}
	cur.Criteria = c
	cur.Version++
	cur.UpdatedAt = s.clock()
	s.rows[id] = clone(cur)
	return clone(cur), nil
}

func (s *AssignmentStore) DeleteDraft(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[id]
	if !ok {
		return assignment.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return assignment.ErrStaleVersion
	}
	if cur.Status != assignment.StatusDraft {
		return fmt.Errorf("%w: only drafts can be discarded", assignment.ErrInvalidTransition)
	}
	delete(s.rows, id)
	return nil
}

// Put stores a row as is. It bypasses transition checks and exists for
// seeding data that arrived from elsewhere, e.g. legacy rows in tests.
func (s *AssignmentStore) Put(a assignment.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[a.ID] = clone(a)
}

func clone(a assignment.Assignment) assignment.Assignment {
	a.CandidateID = copyID(a.CandidateID)
	a.Criteria.Languages = append([]string(nil), a.Criteria.Languages...)
	a.Criteria.Expertises = append([]string(nil), a.Criteria.Expertises...)
	return a
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sortByCreated(list []assignment.Assignment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
