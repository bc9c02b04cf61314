package assignment

import (
	"context"

	"github.com/google/uuid"
)

// UseCase covers the registry side: creating and editing slots before and
// while they are offered. Lifecycle moves live in the booking package.
type UseCase interface {
	Create(ctx context.Context, projectID uuid.UUID, c Criteria) (Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (Assignment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Assignment, error)
	ListSearching(ctx context.Context, limit, offset int) ([]Assignment, error)
	UpdateCriteria(ctx context.Context, id uuid.UUID, expectedVersion int64, c Criteria) (Assignment, error)
	DiscardDraft(ctx context.Context, id uuid.UUID, expectedVersion int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, projectID uuid.UUID, c Criteria) (Assignment, error) {
	if projectID == uuid.Nil {
		return Assignment{}, ErrValidation("projectId is required")
	}
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return Assignment{}, err
	}
	return s.repo.Create(ctx, Assignment{
		ID:        uuid.New(),
		ProjectID: projectID,
		Criteria:  c,
		Status:    StatusDraft,
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Assignment, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Assignment, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *service) ListSearching(ctx context.Context, limit, offset int) ([]Assignment, error) {
	return s.repo.ListSearching(ctx, SearchFilter{Limit: limit, Offset: offset})
}

func (s *service) UpdateCriteria(ctx context.Context, id uuid.UUID, expectedVersion int64, c Criteria) (Assignment, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return Assignment{}, err
	}
	return s.repo.UpdateCriteria(ctx, id, expectedVersion, c)
}

func (s *service) DiscardDraft(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	return s.repo.DeleteDraft(ctx, id, expectedVersion)
}

// ErrValidation простая ошибка валидации входных данных.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
