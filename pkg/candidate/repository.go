package candidate

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("candidate not found")
	ErrInvalidProfile = errors.New("invalid candidate profile")
)

// Directory is the read side used by matching and booking.
type Directory interface {
	Get(ctx context.Context, id uuid.UUID) (Candidate, error)
	// ListByRole returns candidates with the given normalized role and seniority, ordered by id.
	ListByRole(ctx context.Context, role string, seniority Seniority) ([]Candidate, error)
}

// Registry adds the sync entry points the identity service calls.
type Registry interface {
	Directory
	Upsert(ctx context.Context, c Candidate) (Candidate, error)
	SetAvailability(ctx context.Context, id uuid.UUID, a Availability) (Candidate, error)
}
