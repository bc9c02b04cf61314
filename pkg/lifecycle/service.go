// Package lifecycle translates project-level events into booking transitions.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/logging"
)

// Booker is the subset of the booking service the project hooks use.
type Booker interface {
	Publish(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	Confirm(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
	Complete(ctx context.Context, id uuid.UUID, expectedVersion int64) (assignment.Assignment, error)
}

type Options struct {
	// MaxRetries bounds re-read attempts after ErrStaleVersion.
	MaxRetries  uint64
	BaseBackoff time.Duration
	// Parallelism bounds concurrent per-assignment work within one project.
	Parallelism int
}

func DefaultOptions() Options {
	return Options{MaxRetries: 3, BaseBackoff: 10 * time.Millisecond, Parallelism: 4}
}

type Service struct {
	booker Booker
	store  assignment.Repository
	opts   Options
	log    *logging.Logger
}

func NewService(booker Booker, store assignment.Repository, opts Options, log *logging.Logger) *Service {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 10 * time.Millisecond
	}
	return &Service{booker: booker, store: store, opts: opts, log: log.Component("lifecycle")}
}

// OnAssignmentPublished publishes the assignment at its current version.
func (s *Service) OnAssignmentPublished(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	return s.booker.Publish(ctx, id, cur.Version)
}

// OnProjectCancelled completes every published assignment of the project and
// discards its drafts. It returns the ids moved to completed.
func (s *Service) OnProjectCancelled(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	list, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var (
		mu        sync.Mutex
		completed []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for _, a := range list {
		if a.Status == assignment.StatusCompleted {
			continue
		}
		id := a.ID
		g.Go(func() error {
			done, err := s.finish(gctx, id)
			if err != nil {
				return err
			}
			if done {
				mu.Lock()
				completed = append(completed, id)
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	s.log.Info("project cancelled", "project_id", projectID, "completed", len(completed), "err", err)
	return completed, err
}

// finish completes or discards one assignment, re-reading on version conflicts.
func (s *Service) finish(ctx context.Context, id uuid.UUID) (completed bool, err error) {
	err = s.withRetry(ctx, func(ctx context.Context) error {
		cur, err := s.store.Get(ctx, id)
		if errors.Is(err, assignment.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		switch cur.Status {
		case assignment.StatusCompleted:
			return nil
		case assignment.StatusDraft:
			err = s.store.DeleteDraft(ctx, id, cur.Version)
		default:
			_, err = s.booker.Complete(ctx, id, cur.Version)
			completed = err == nil
		}
		return err
	})
	return completed, err
}

// OnAllSlotsAccepted confirms every accepted slot of the project. It refuses
// when a live slot is still unfilled.
func (s *Service) OnAllSlotsAccepted(ctx context.Context, projectID uuid.UUID) ([]assignment.Assignment, error) {
	list, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var toConfirm []uuid.UUID
	for _, a := range list {
		switch a.Status {
		case assignment.StatusCompleted, assignment.StatusConfirmed:
		case assignment.StatusAccepted:
			toConfirm = append(toConfirm, a.ID)
		default:
			return nil, fmt.Errorf("%w: project %s slot %s is %s", assignment.ErrInvalidTransition, projectID, a.ID, a.Status)
		}
	}

	var (
		mu  sync.Mutex
		out []assignment.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallelism)
	for _, id := range toConfirm {
		g.Go(func() error {
			return s.withRetry(gctx, func(ctx context.Context) error {
				cur, err := s.store.Get(ctx, id)
				if err != nil {
					return err
				}
				if cur.Status == assignment.StatusConfirmed {
					return nil
				}
				a, err := s.booker.Confirm(ctx, id, cur.Version)
				if err != nil {
					return err
				}
				mu.Lock()
				out = append(out, a)
				mu.Unlock()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// withRetry retries fn only on ErrStaleVersion.
func (s *Service) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(s.opts.MaxRetries, retry.NewExponential(s.opts.BaseBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, assignment.ErrStaleVersion) {
			return retry.RetryableError(err)
		}
		return err
	})
}
