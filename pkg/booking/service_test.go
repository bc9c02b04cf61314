package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/matching"
	"github.com/artem13815/hr/booking/pkg/repository/memory"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Enqueue(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) ofType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	assignments *memory.AssignmentStore
	candidates  *memory.CandidateStore
	engine      *matching.Engine
	sink        *recordingSink
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		assignments: memory.NewAssignmentStore(),
		candidates:  memory.NewCandidateStore(),
		sink:        &recordingSink{},
	}
	f.engine = matching.NewEngine(f.assignments, f.candidates, logging.NewNop())
	f.svc = NewService(f.assignments, f.candidates, f.engine, f.sink, logging.NewNop())
	return f
}

func (f *fixture) human(t *testing.T, role string, s candidate.Seniority, langs ...string) candidate.Candidate {
	t.Helper()
	c, err := f.candidates.Upsert(context.Background(), candidate.Candidate{
		ID:           uuid.New(),
		DeclaredRole: role,
		Seniority:    s,
		Languages:    langs,
		Availability: candidate.Available,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) seed(status assignment.BookingStatus, cr assignment.Criteria) assignment.Assignment {
	a := assignment.Assignment{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Criteria:  cr.Normalize(),
		Status:    status,
	}
	f.assignments.Put(a)
	return a
}

func backendSenior() assignment.Criteria {
	return assignment.Criteria{Role: "backend", Seniority: candidate.SenioritySenior, Languages: []string{"en"}}
}

func TestAcceptScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	c1 := f.human(t, "backend", candidate.SenioritySenior, "en", "fr")
	c2 := f.human(t, "backend", candidate.SeniorityJunior, "en", "fr")

	assert.True(t, matching.Eligible(c1, a))
	assert.False(t, matching.Eligible(c2, a))

	got, err := f.svc.TryAccept(ctx, a.ID, c1.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusAccepted, got.Status)
	assert.EqualValues(t, 1, got.Version)
	require.NotNil(t, got.CandidateID)
	assert.Equal(t, c1.ID, *got.CandidateID)

	_, err = f.svc.TryAccept(ctx, a.ID, c2.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrStaleVersion)

	c2.Seniority = candidate.SenioritySenior
	_, err = f.candidates.Upsert(ctx, c2)
	require.NoError(t, err)
	_, err = f.svc.TryAccept(ctx, a.ID, c2.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrStaleVersion)

	accepted := f.sink.ofType(EventAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, assignment.StatusSearching, accepted[0].PreviousStatus)
	assert.Equal(t, assignment.StatusAccepted, accepted[0].NewStatus)
	assert.EqualValues(t, 1, accepted[0].Version)
}

func TestConcurrentAcceptHasSingleWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())

	const n = 32
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = f.human(t, "backend", candidate.SenioritySenior, "en").ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  []uuid.UUID
		failures int
	)
	start := make(chan struct{})
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := f.svc.TryAccept(ctx, a.ID, id, 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, id)
			case errors.Is(err, assignment.ErrStaleVersion), errors.Is(err, assignment.ErrInvalidTransition):
				failures++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	close(start)
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, n-1, failures)

	final, err := f.assignments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusAccepted, final.Status)
	assert.EqualValues(t, 1, final.Version)
	assert.Equal(t, winners[0], *final.CandidateID)
	assert.NoError(t, final.CheckInvariant())
}

func TestDeclineReopens(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	c := f.human(t, "backend", candidate.SenioritySenior, "en")

	_, err := f.svc.TryAccept(ctx, a.ID, c.ID, 0)
	require.NoError(t, err)

	list, err := f.engine.FindEligibleAssignments(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.svc.Decline(ctx, a.ID, c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
	assert.Nil(t, got.CandidateID)
	assert.EqualValues(t, 2, got.Version)

	list, err = f.engine.FindEligibleAssignments(ctx, c)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	declined := f.sink.ofType(EventDeclined)
	require.Len(t, declined, 1)
	assert.Equal(t, assignment.StatusAccepted, declined[0].PreviousStatus)
	assert.Equal(t, assignment.StatusSearching, declined[0].NewStatus)
}

func TestDeclineByOtherCandidateRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	holder := f.human(t, "backend", candidate.SenioritySenior, "en")
	other := f.human(t, "backend", candidate.SenioritySenior, "en")

	_, err := f.svc.TryAccept(ctx, a.ID, holder.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.Decline(ctx, a.ID, other.ID, 1)
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)
}

func TestNotEligibleIsDistinctFromStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	junior := f.human(t, "backend", candidate.SeniorityJunior, "en")

	_, err := f.svc.TryAccept(ctx, a.ID, junior.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrNotEligible)
	assert.NotErrorIs(t, err, assignment.ErrStaleVersion)

	stored, err := f.assignments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.Version)
}

func TestConfirmAndComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	c := f.human(t, "backend", candidate.SenioritySenior, "en")

	_, err := f.svc.TryAccept(ctx, a.ID, c.ID, 0)
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusConfirmed, confirmed.Status)
	assert.Equal(t, c.ID, *confirmed.CandidateID)

	_, err = f.svc.TryAccept(ctx, a.ID, c.ID, 2)
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)

	done, err := f.svc.Complete(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusCompleted, done.Status)
	assert.Nil(t, done.CandidateID)
	assert.NoError(t, done.CheckInvariant())
}

func TestLateAcceptAfterCancelIsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusSearching, backendSenior())
	c := f.human(t, "backend", candidate.SenioritySenior, "en")

	_, err := f.svc.Complete(ctx, a.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.TryAccept(ctx, a.ID, c.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)
}

func TestDraftCannotBeCompleted(t *testing.T) {
	f := newFixture()
	a := f.seed(assignment.StatusDraft, backendSenior())
	_, err := f.svc.Complete(context.Background(), a.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrInvalidTransition)
}

func TestPublishRejectsInvalidCriteria(t *testing.T) {
	f := newFixture()
	a := f.seed(assignment.StatusDraft, assignment.Criteria{Seniority: candidate.SenioritySenior})
	_, err := f.svc.Publish(context.Background(), a.ID, 0)
	assert.ErrorIs(t, err, assignment.ErrInvalidCriteria)
}

func TestPublishOffersEligibleHumans(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusDraft, backendSenior())
	c1 := f.human(t, "backend", candidate.SenioritySenior, "en")
	f.human(t, "backend", candidate.SeniorityJunior, "en")

	var seen []assignment.BookingStatus
	f.svc.OnEnter(assignment.StatusSearching, func(ctx context.Context, prev, a assignment.Assignment) error {
		assert.Equal(t, assignment.StatusDraft, prev.Status)
		seen = append(seen, a.Status)
		return nil
	})

	got, err := f.svc.Publish(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
	assert.EqualValues(t, 1, got.Version)
	assert.Equal(t, []assignment.BookingStatus{assignment.StatusSearching}, seen)

	require.Len(t, f.sink.ofType(EventPublished), 1)
	offers := f.sink.ofType(EventOfferCreated)
	require.Len(t, offers, 1)
	assert.Equal(t, c1.ID, *offers[0].CandidateID)
	assert.Contains(t, offers[0].DedupKey(), c1.ID.String())
}

func TestInvariantHoldsAcrossLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.seed(assignment.StatusDraft, backendSenior())
	c := f.human(t, "backend", candidate.SenioritySenior, "en")

	check := func() {
		t.Helper()
		cur, err := f.assignments.Get(ctx, a.ID)
		require.NoError(t, err)
		require.NoError(t, cur.CheckInvariant())
	}

	_, err := f.svc.Publish(ctx, a.ID, 0)
	require.NoError(t, err)
	check()
	_, err = f.svc.TryAccept(ctx, a.ID, c.ID, 1)
	require.NoError(t, err)
	check()
	_, err = f.svc.Decline(ctx, a.ID, c.ID, 2)
	require.NoError(t, err)
	check()
	_, err = f.svc.TryAccept(ctx, a.ID, c.ID, 3)
	require.NoError(t, err)
	check()
	_, err = f.svc.Confirm(ctx, a.ID, 4)
	require.NoError(t, err)
	check()
	_, err = f.svc.Complete(ctx, a.ID, 5)
	require.NoError(t, err)
	check()
}

func TestLegacyDeclinedRowCanBePublished(t *testing.T) {
	f := newFixture()
	a := f.seed(assignment.StatusDeclined, backendSenior())
	got, err := f.svc.Publish(context.Background(), a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSearching, got.Status)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(assignment.StatusDraft, assignment.StatusSearching))
	assert.True(t, CanTransition(assignment.StatusAccepted, assignment.StatusSearching))
	assert.True(t, CanTransition(assignment.StatusConfirmed, assignment.StatusCompleted))
	assert.False(t, CanTransition(assignment.StatusDraft, assignment.StatusCompleted))
	assert.False(t, CanTransition(assignment.StatusConfirmed, assignment.StatusAccepted))
	assert.False(t, CanTransition(assignment.StatusCompleted, assignment.StatusSearching))
}
