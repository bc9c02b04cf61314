// Package automation accepts searching assignments on behalf of automated
// candidates before any human offer goes out.
package automation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/matching"
)

// Acceptor is the part of the booking service the policy drives.
type Acceptor interface {
	TryAccept(ctx context.Context, id, candidateID uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	OnEnter(status assignment.BookingStatus, h booking.Hook)
}

type Policy struct {
	acceptor   Acceptor
	candidates candidate.Directory
	store      assignment.Repository
	log        *logging.Logger
}

func NewPolicy(acceptor Acceptor, candidates candidate.Directory, store assignment.Repository, log *logging.Logger) *Policy {
	return &Policy{
		acceptor:   acceptor,
		candidates: candidates,
		store:      store,
		log:        log.Component("automation"),
	}
}

// Register hooks the policy onto every transition into searching.
func (p *Policy) Register() {
	p.acceptor.OnEnter(assignment.StatusSearching, p.onEnterSearching)
}

// onEnterSearching skips the holder that just released the slot: an automated
// candidate declining must not get the same slot straight back.
func (p *Policy) onEnterSearching(ctx context.Context, prev, next assignment.Assignment) error {
	var released *uuid.UUID
	if prev.Status == assignment.StatusAccepted {
		released = prev.CandidateID
	}
	return p.accept(ctx, next, released)
}

// OnSearching handles a committed transition into searching. The snapshot a
// carries the version just written, so a replay of an old event fails the
// version check and becomes a no-op.
func (p *Policy) OnSearching(ctx context.Context, a assignment.Assignment) error {
	return p.accept(ctx, a, nil)
}

func (p *Policy) accept(ctx context.Context, a assignment.Assignment, skip *uuid.UUID) error {
	if a.Status != assignment.StatusSearching {
		return nil
	}
	bot, ok, err := p.pick(ctx, a, skip)
	if err != nil || !ok {
		return err
	}
	_, err = p.acceptor.TryAccept(ctx, a.ID, bot.ID, a.Version)
	switch {
	case err == nil:
		p.log.Info("automated candidate accepted assignment", "assignment_id", a.ID, "candidate_id", bot.ID, "version", a.Version+1)
		return nil
	case errors.Is(err, assignment.ErrStaleVersion), errors.Is(err, assignment.ErrInvalidTransition):
		p.log.Info("automated accept skipped", "assignment_id", a.ID, "candidate_id", bot.ID, "reason", err)
		return nil
	default:
		return fmt.Errorf("automated accept for %s: %w", a.ID, err)
	}
}

// Reprocess re-runs the policy against the stored row, e.g. on event replay
// or after its criteria were edited. Assignments that already left searching
// are left alone.
func (p *Policy) Reprocess(ctx context.Context, id uuid.UUID) error {
	a, err := p.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return p.OnSearching(ctx, a)
}

// pick returns the automated candidate with the smallest id that qualifies.
func (p *Policy) pick(ctx context.Context, a assignment.Assignment, skip *uuid.UUID) (candidate.Candidate, bool, error) {
	list, err := p.candidates.ListByRole(ctx, a.Criteria.Role, a.Criteria.Seniority)
	if err != nil {
		return candidate.Candidate{}, false, fmt.Errorf("list automated candidates: %w", err)
	}
	var bots []candidate.Candidate
	for _, c := range list {
		if !c.IsAutomated() || (skip != nil && c.ID == *skip) {
			continue
		}
		if err := c.Validate(); err != nil {
			p.log.Warn("automated candidate skipped", "candidate_id", c.ID, "err", err)
			continue
		}
		if matching.Qualifies(c, a.Criteria) {
			bots = append(bots, c)
		}
	}
	if len(bots) == 0 {
		return candidate.Candidate{}, false, nil
	}
	sort.Slice(bots, func(i, j int) bool { return bots[i].ID.String() < bots[j].ID.String() })
	return bots[0], true, nil
}
