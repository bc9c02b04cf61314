package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/matching"
)

// Hook runs synchronously after a transition into the status it was
// registered for has committed. prev is the row as read before the move,
// next is the committed row. A hook error is logged; the transition stands.
type Hook func(ctx context.Context, prev, next assignment.Assignment) error

// Service is the booking state machine. Each operation reads the row once,
// checks the move, then commits with a single compare-and-swap. Failed
// operations have no side effects and are never retried here.
type Service struct {
	store      assignment.Repository
	candidates candidate.Directory
	matcher    *matching.Engine
	sink       EventSink
	log        *logging.Logger
	clock      func() time.Time

	mu    sync.RWMutex
	hooks map[assignment.BookingStatus][]Hook
}

func NewService(store assignment.Repository, candidates candidate.Directory, matcher *matching.Engine, sink EventSink, log *logging.Logger) *Service {
	return &Service{
		store:      store,
		candidates: candidates,
		matcher:    matcher,
		sink:       sink,
		log:        log.Component("booking"),
		clock:      func() time.Time { return time.Now().UTC() },
		hooks:      make(map[assignment.BookingStatus][]Hook),
	}
}

// OnEnter registers h for transitions into status.
func (s *Service) OnEnter(status assignment.BookingStatus, h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[status] = append(s.hooks[status], h)
}

// Publish moves a draft (or a legacy declined row) to searching. Hooks for
// searching run before Publish returns, so the returned assignment may already
// be accepted by an automated candidate. Offers go out only if it is still searching.
func (s *Service) Publish(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error) {
	cur, err := s.load(ctx, id, expectedVersion, publishFrom)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if err := cur.Criteria.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	published, err := s.commit(ctx, EventPublished, cur, assignment.Transition{
		ID:              id,
		ExpectedVersion: expectedVersion,
		From:            publishFrom,
		To:              assignment.StatusSearching,
	})
	if err != nil {
		return assignment.Assignment{}, err
	}

	latest, err := s.store.Get(ctx, id)
	if err != nil {
		s.log.Warn("reload after publish failed", "assignment_id", id, "err", err)
		return published, nil
	}
	if latest.Status == assignment.StatusSearching && latest.Version == published.Version {
		s.offer(ctx, latest)
	}
	return latest, nil
}

// TryAccept binds candidateID to a searching assignment. It is the only way
// candidate_id goes from empty to set; at most one call wins per searching episode.
func (s *Service) TryAccept(ctx context.Context, id, candidateID uuid.UUID, expectedVersion int64) (assignment.Assignment, error) {
	cur, err := s.load(ctx, id, expectedVersion, acceptFrom)
	if err != nil {
		return assignment.Assignment{}, err
	}
	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}
	if !matching.Qualifies(c, cur.Criteria) {
		return assignment.Assignment{}, fmt.Errorf("%w: candidate %s for assignment %s", assignment.ErrNotEligible, candidateID, id)
	}
	return s.commit(ctx, EventAccepted, cur, assignment.Transition{
		ID:              id,
		ExpectedVersion: expectedVersion,
		From:            acceptFrom,
		To:              assignment.StatusAccepted,
		CandidateID:     &candidateID,
	})
}

// Decline releases an accepted assignment held by candidateID and re-opens it.
// Like Publish, searching hooks run before Decline returns, so the returned row
// is re-read and may already be held by another automated candidate.
// Offers are not replayed; interested parties query matching again.
func (s *Service) Decline(ctx context.Context, id, candidateID uuid.UUID, expectedVersion int64) (assignment.Assignment, error) {
	cur, err := s.load(ctx, id, expectedVersion, declineFrom)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if cur.CandidateID == nil || *cur.CandidateID != candidateID {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s is not held by candidate %s", assignment.ErrInvalidTransition, id, candidateID)
	}
	released, err := s.commit(ctx, EventDeclined, cur, assignment.Transition{
		ID:              id,
		ExpectedVersion: expectedVersion,
		From:            declineFrom,
		To:              assignment.StatusSearching,
	})
	if err != nil {
		return assignment.Assignment{}, err
	}
	latest, err := s.store.Get(ctx, id)
	if err != nil {
		s.log.Warn("reload after decline failed", "assignment_id", id, "err", err)
		return released, nil
	}
	return latest, nil
}

// Confirm moves accepted to confirmed, keeping the candidate.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error) {
	cur, err := s.load(ctx, id, expectedVersion, confirmFrom)
	if err != nil {
		return assignment.Assignment{}, err
	}
	return s.commit(ctx, EventConfirmed, cur, assignment.Transition{
		ID:              id,
		ExpectedVersion: expectedVersion,
		From:            confirmFrom,
		To:              assignment.StatusConfirmed,
		CandidateID:     cur.CandidateID,
	})
}

// Complete ends a published assignment and clears its candidate.
// Drafts cannot be completed; they are discarded instead.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error) {
	from := completeFrom()
	cur, err := s.load(ctx, id, expectedVersion, from)
	if err != nil {
		return assignment.Assignment{}, err
	}
	return s.commit(ctx, EventCompleted, cur, assignment.Transition{
		ID:              id,
		ExpectedVersion: expectedVersion,
		From:            from,
		To:              assignment.StatusCompleted,
	})
}

// load reads the row and rejects moves that cannot succeed.
// A completed row rejects everything as an invalid transition, whatever the version.
func (s *Service) load(ctx context.Context, id uuid.UUID, expectedVersion int64, from []assignment.BookingStatus) (assignment.Assignment, error) {
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if cur.Status == assignment.StatusCompleted {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s is completed", assignment.ErrInvalidTransition, id)
	}
	if cur.Version != expectedVersion {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s is at version %d, expected %d", assignment.ErrStaleVersion, id, cur.Version, expectedVersion)
	}
	if !(assignment.Transition{From: from}).Allows(cur.Status) {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s is %s", assignment.ErrInvalidTransition, id, cur.Status)
	}
	return cur, nil
}

func (s *Service) commit(ctx context.Context, typ EventType, prev assignment.Assignment, t assignment.Transition) (assignment.Assignment, error) {
	a, err := s.store.CompareAndSwap(ctx, t)
	if err != nil {
		if errors.Is(err, assignment.ErrStaleVersion) {
			if latest, gerr := s.store.Get(ctx, t.ID); gerr == nil && latest.Status == assignment.StatusCompleted {
				return assignment.Assignment{}, fmt.Errorf("%w: assignment %s was completed", assignment.ErrInvalidTransition, t.ID)
			}
		}
		return assignment.Assignment{}, err
	}
	s.log.Info("booking transition committed",
		"assignment_id", a.ID,
		"from", prev.Status,
		"to", a.Status,
		"version", a.Version,
	)
	s.emit(eventFor(typ, prev.Status, a, s.clock()))
	s.runHooks(ctx, prev, a)
	return a, nil
}

func (s *Service) runHooks(ctx context.Context, prev, a assignment.Assignment) {
	s.mu.RLock()
	hooks := append([]Hook(nil), s.hooks[a.Status]...)
	s.mu.RUnlock()
	for _, h := range hooks {
		if err := h(ctx, prev, a); err != nil {
			s.log.Warn("transition hook failed", "assignment_id", a.ID, "status", a.Status, "err", err)
		}
	}
}

// offer emits one offer event per eligible human candidate.
func (s *Service) offer(ctx context.Context, a assignment.Assignment) {
	if s.matcher == nil {
		return
	}
	list, err := s.matcher.FindEligibleCandidates(ctx, a)
	if err != nil {
		s.log.Warn("offer lookup failed", "assignment_id", a.ID, "err", err)
		return
	}
	now := s.clock()
	for _, c := range list {
		if c.IsAutomated() {
			continue
		}
		e := eventFor(EventOfferCreated, a.Status, a, now)
		id := c.ID
		e.CandidateID = &id
		s.emit(e)
	}
}

func (s *Service) emit(e Event) {
	if s.sink != nil {
		s.sink.Enqueue(e)
	}
}
