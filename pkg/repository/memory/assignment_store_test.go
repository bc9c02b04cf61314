package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
)

func newDraft(t *testing.T, s *AssignmentStore) assignment.Assignment {
	t.Helper()
	a, err := s.Create(context.Background(), assignment.Assignment{
		ProjectID: uuid.New(),
		Criteria:  assignment.Criteria{Role: "backend", Seniority: candidate.SenioritySenior},
		Status:    assignment.StatusDraft,
	})
	require.NoError(t, err)
	return a
}

func TestCompareAndSwapClassifiesFailures(t *testing.T) {
	ctx := context.Background()
	s := NewAssignmentStore()
	a := newDraft(t, s)

	publish := assignment.Transition{
		ID:              a.ID,
		ExpectedVersion: 0,
		From:            []assignment.BookingStatus{assignment.StatusDraft},
		To:              assignment.StatusSearching,
	}
	got, err := s.CompareAndSwap(ctx, publish)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
	assert.EqualValues(t, 1, got.Version)

	_, err = s.CompareAndSwap(ctx, publish)
	assert.ErrorIs(t, err, assignment.ErrStaleVersion)

	publish.ExpectedVersion = 1
	_, err = s.CompareAndSwap(ctx, publish)
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)

	publish.ID = uuid.New()
	_, err = s.CompareAndSwap(ctx, publish)
	assert.ErrorIs(t, err, assignment.ErrNotFound)
}

func TestCompareAndSwapRejectsBrokenInvariant(t *testing.T) {
	s := NewAssignmentStore()
	a := newDraft(t, s)
	_, err := s.CompareAndSwap(context.Background(), assignment.Transition{
		ID:   a.ID,
		From: []assignment.BookingStatus{assignment.StatusDraft},
		To:   assignment.StatusAccepted,
	})
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)

	stored, err := s.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.Version)
}

func TestUpdateCriteriaAndDeleteDraft(t *testing.T) {
	ctx := context.Background()
	s := NewAssignmentStore()
	a := newDraft(t, s)

	upd, err := s.UpdateCriteria(ctx, a.ID, 0, assignment.Criteria{Role: "frontend", Seniority: candidate.SeniorityJunior})
	require.NoError(t, err)
	assert.EqualValues(t, 1, upd.Version)
	assert.Equal(t, "frontend", upd.Criteria.Role)

	assert.ErrorIs(t, s.DeleteDraft(ctx, a.ID, 0), assignment.ErrStaleVersion)
	require.NoError(t, s.DeleteDraft(ctx, a.ID, 1))
	_, err = s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, assignment.ErrNotFound)
}

func TestListSearchingFilters(t *testing.T) {
	ctx := context.Background()
	s := NewAssignmentStore()
	a := newDraft(t, s)
	newDraft(t, s)
	_, err := s.CompareAndSwap(ctx, assignment.Transition{
		ID: a.ID, From: []assignment.BookingStatus{assignment.StatusDraft}, To: assignment.StatusSearching,
	})
	require.NoError(t, err)

	list, err := s.ListSearching(ctx, assignment.SearchFilter{Role: "backend", Seniority: candidate.SenioritySenior})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = s.ListSearching(ctx, assignment.SearchFilter{Role: "frontend"})
	require.NoError(t, err)
	assert.Empty(t, list)
}
