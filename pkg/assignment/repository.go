package assignment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/candidate"
)

var (
	ErrNotFound = errors.New("assignment not found")
	// ErrStaleVersion: another transition committed first; re-read before retrying.
	ErrStaleVersion = errors.New("stale assignment version")
	// ErrInvalidTransition: the move is not legal from the current status.
	ErrInvalidTransition = errors.New("invalid booking transition")
	// ErrNotEligible: the candidate does not satisfy the criteria at accept time.
	ErrNotEligible = errors.New("candidate not eligible")
	// ErrInvalidCriteria: assignment data is malformed and excluded from matching.
	ErrInvalidCriteria = errors.New("invalid assignment criteria")
)

// SearchFilter narrows ListSearching to one role and seniority.
type SearchFilter struct {
	Role      string
	Seniority candidate.Seniority
	Limit     int
	Offset    int
}

// Repository stores assignments. Status, candidate and version change only
// through CompareAndSwap; every write bumps the version.
type Repository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (Assignment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Assignment, error)
	ListSearching(ctx context.Context, f SearchFilter) ([]Assignment, error)

	// CompareAndSwap applies t atomically. When nothing is written it returns
	// ErrNotFound, ErrStaleVersion (version moved) or ErrInvalidTransition
	// (version matches but status is not in t.From).
	CompareAndSwap(ctx context.Context, t Transition) (Assignment, error)
	// UpdateCriteria replaces criteria of a draft or searching assignment under the same version check.
	UpdateCriteria(ctx context.Context, id uuid.UUID, expectedVersion int64, c Criteria) (Assignment, error)
	// DeleteDraft removes an assignment that never left draft.
	DeleteDraft(ctx context.Context, id uuid.UUID, expectedVersion int64) error
}
