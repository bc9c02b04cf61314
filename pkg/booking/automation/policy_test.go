package automation

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/matching"
	"github.com/artem13815/hr/booking/pkg/repository/memory"
)

type sink struct {
	mu     sync.Mutex
	events []booking.Event
}

func (s *sink) Enqueue(e booking.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *sink) count(t booking.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type env struct {
	assignments *memory.AssignmentStore
	candidates  *memory.CandidateStore
	svc         *booking.Service
	policy      *Policy
	sink        *sink
}

func newEnv() *env {
	e := &env{
		assignments: memory.NewAssignmentStore(),
		candidates:  memory.NewCandidateStore(),
		sink:        &sink{},
	}
	log := logging.NewNop()
	engine := matching.NewEngine(e.assignments, e.candidates, log)
	e.svc = booking.NewService(e.assignments, e.candidates, engine, e.sink, log)
	e.policy = NewPolicy(e.svc, e.candidates, e.assignments, log)
	e.policy.Register()
	return e
}

func (e *env) bot(t *testing.T, role string) candidate.Candidate {
	t.Helper()
	id := uuid.New()
	c, err := e.candidates.Upsert(context.Background(), candidate.Candidate{
		ID:           id,
		DeclaredRole: role,
		Seniority:    candidate.SeniorityIntermediate,
		Profile:      candidate.NewAutomatedProfile(id),
	})
	require.NoError(t, err)
	return c
}

func (e *env) draft(t *testing.T, role string) assignment.Assignment {
	t.Helper()
	a, err := assignment.NewService(e.assignments).Create(context.Background(), uuid.New(), assignment.Criteria{
		Role:      role,
		Seniority: candidate.SeniorityIntermediate,
	})
	require.NoError(t, err)
	return a
}

func TestAutomatedCandidateAcceptsOnPublish(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	ai := e.bot(t, "writer")
	_, err := e.candidates.Upsert(ctx, candidate.Candidate{
		ID:           uuid.New(),
		DeclaredRole: "writer",
		Seniority:    candidate.SeniorityIntermediate,
		Availability: candidate.Available,
	})
	require.NoError(t, err)
	b := e.draft(t, "writer")

	got, err := e.svc.Publish(ctx, b.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusAccepted, got.Status)
	require.NotNil(t, got.CandidateID)
	assert.Equal(t, ai.ID, *got.CandidateID)
	assert.EqualValues(t, 2, got.Version)

	assert.Equal(t, 0, e.sink.count(booking.EventOfferCreated))
	assert.Equal(t, 1, e.sink.count(booking.EventAccepted))
}

func TestPolicyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	ai := e.bot(t, "writer")
	b := e.draft(t, "writer")

	published, err := e.assignments.CompareAndSwap(ctx, assignment.Transition{
		ID:   b.ID,
		From: []assignment.BookingStatus{assignment.StatusDraft},
		To:   assignment.StatusSearching,
	})
	require.NoError(t, err)

	require.NoError(t, e.policy.OnSearching(ctx, published))
	first, err := e.assignments.Get(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, e.policy.OnSearching(ctx, published))
	require.NoError(t, e.policy.Reprocess(ctx, b.ID))
	second, err := e.assignments.Get(ctx, b.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, ai.ID, *second.CandidateID)
	assert.Equal(t, 1, e.sink.count(booking.EventAccepted))
}

func TestPolicyPicksSmallestID(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a1 := e.bot(t, "writer")
	a2 := e.bot(t, "writer")
	want := a1.ID
	if a2.ID.String() < want.String() {
		want = a2.ID
	}
	b := e.draft(t, "writer")

	got, err := e.svc.Publish(ctx, b.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, want, *got.CandidateID)
}

func TestHumanAcceptedFirstIsSkipped(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.bot(t, "writer")
	human, err := e.candidates.Upsert(ctx, candidate.Candidate{
		ID:           uuid.New(),
		DeclaredRole: "writer",
		Seniority:    candidate.SeniorityIntermediate,
		Availability: candidate.Available,
	})
	require.NoError(t, err)
	b := e.draft(t, "writer")

	searching, err := e.assignments.CompareAndSwap(ctx, assignment.Transition{
		ID:   b.ID,
		From: []assignment.BookingStatus{assignment.StatusDraft},
		To:   assignment.StatusSearching,
	})
	require.NoError(t, err)
	_, err = e.svc.TryAccept(ctx, b.ID, human.ID, searching.Version)
	require.NoError(t, err)

	require.NoError(t, e.policy.OnSearching(ctx, searching))
	cur, err := e.assignments.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, human.ID, *cur.CandidateID)
}

func TestNoAutomatedMatchLeavesSearching(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.bot(t, "illustrator")
	b := e.draft(t, "writer")

	got, err := e.svc.Publish(ctx, b.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
	assert.Nil(t, got.CandidateID)
}

func TestDecliningBotDoesNotGetSlotBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	ai := e.bot(t, "writer")
	b := e.draft(t, "writer")

	taken, err := e.svc.Publish(ctx, b.ID, 0)
	require.NoError(t, err)
	require.Equal(t, ai.ID, *taken.CandidateID)

	got, err := e.svc.Decline(ctx, b.ID, ai.ID, taken.Version)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
	assert.Nil(t, got.CandidateID)
	assert.EqualValues(t, 3, got.Version)

	stored, err := e.assignments.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
	assert.Equal(t, 1, e.sink.count(booking.EventAccepted))

	// an explicit reprocess may bind it again
	require.NoError(t, e.policy.Reprocess(ctx, b.ID))
	stored, err = e.assignments.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusAccepted, stored.Status)
}

func TestDeclineHandsSlotToNextBot(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a1 := e.bot(t, "writer")
	a2 := e.bot(t, "writer")
	b := e.draft(t, "writer")

	taken, err := e.svc.Publish(ctx, b.ID, 0)
	require.NoError(t, err)
	first := *taken.CandidateID
	other := a1.ID
	if first == a1.ID {
		other = a2.ID
	}

	got, err := e.svc.Decline(ctx, b.ID, first, taken.Version)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusAccepted, got.Status)
	require.NotNil(t, got.CandidateID)
	assert.Equal(t, other, *got.CandidateID)
	assert.EqualValues(t, 4, got.Version)
}
