package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/candidate"
)

const assignmentColumns = `id, project_id, required_role, required_seniority, required_languages,
	required_expertises, booking_status, candidate_id, version, created_at, updated_at`

// AssignmentRepository хранит слоты проектов. Переходы статусов выполняются
// одним условным UPDATE по версии.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

var _ assignment.Repository = (*AssignmentRepository)(nil)

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func (r *AssignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
INSERT INTO assignments (id, project_id, required_role, required_seniority, required_languages,
	required_expertises, booking_status, candidate_id, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $9)
RETURNING `+assignmentColumns,
		a.ID, a.ProjectID, a.Criteria.Role, string(a.Criteria.Seniority), nonNil(a.Criteria.Languages),
		nonNil(a.Criteria.Expertises), string(a.Status), a.CandidateID, now)
	return scanAssignment(row)
}

func (r *AssignmentRepository) Get(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id)
	return scanAssignment(row)
}

func (r *AssignmentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]assignment.Assignment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+assignmentColumns+` FROM assignments
WHERE project_id = $1
ORDER BY created_at, id
`, projectID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *AssignmentRepository) ListSearching(ctx context.Context, f assignment.SearchFilter) ([]assignment.Assignment, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+assignmentColumns+` FROM assignments
WHERE booking_status = 'searching'
	AND ($1 = '' OR required_role = $1)
	AND ($2 = '' OR required_seniority = $2)
ORDER BY created_at, id
LIMIT $3 OFFSET $4
`, f.Role, string(f.Seniority), limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *AssignmentRepository) CompareAndSwap(ctx context.Context, t assignment.Transition) (assignment.Assignment, error) {
	if err := t.Check(); err != nil {
		return assignment.Assignment{}, err
	}
	from := make([]string, 0, len(t.From))
	for _, s := range t.From {
		from = append(from, string(s))
	}
	row := r.pool.QueryRow(ctx, `
UPDATE assignments
SET booking_status = $4, candidate_id = $5, version = version + 1, updated_at = $6
WHERE id = $1 AND version = $2 AND booking_status = ANY($3)
RETURNING `+assignmentColumns,
		t.ID, t.ExpectedVersion, from, string(t.To), t.CandidateID, time.Now().UTC())
	a, err := scanAssignment(row)
	if errors.Is(err, assignment.ErrNotFound) {
		return assignment.Assignment{}, r.classify(ctx, t.ID, t.ExpectedVersion, string(t.To))
	}
	return a, err
}

func (r *AssignmentRepository) UpdateCriteria(ctx context.Context, id uuid.UUID, expectedVersion int64, c assignment.Criteria) (assignment.Assignment, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE assignments
SET required_role = $3, required_seniority = $4, required_languages = $5, required_expertises = $6,
	version = version + 1, updated_at = $7
WHERE id = $1 AND version = $2 AND booking_status IN ('draft', 'searching')
RETURNING `+assignmentColumns,
		id, expectedVersion, c.Role, string(c.Seniority), nonNil(c.Languages), nonNil(c.Expertises), time.Now().UTC())
	a, err := scanAssignment(row)
	if errors.Is(err, assignment.ErrNotFound) {
		return assignment.Assignment{}, r.classify(ctx, id, expectedVersion, "criteria update")
	}
	return a, err
}

func (r *AssignmentRepository) DeleteDraft(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM assignments WHERE id = $1 AND version = $2 AND booking_status = 'draft'
`, id, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.classify(ctx, id, expectedVersion, "discard")
	}
	return nil
}

// classify explains why a conditional write touched no rows. It only reads.
func (r *AssignmentRepository) classify(ctx context.Context, id uuid.UUID, expectedVersion int64, op string) error {
	var (
		version int64
		status  string
	)
	err := r.pool.QueryRow(ctx, `SELECT version, booking_status FROM assignments WHERE id = $1`, id).Scan(&version, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return assignment.ErrNotFound
	}
	if err != nil {
		return err
	}
	if version != expectedVersion {
		return assignment.ErrStaleVersion
	}
	return fmt.Errorf("%w: %s not allowed from %s", assignment.ErrInvalidTransition, op, status)
}

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var (
		a         assignment.Assignment
		seniority string
		status    string
	)
	err := row.Scan(&a.ID, &a.ProjectID, &a.Criteria.Role, &seniority, &a.Criteria.Languages,
		&a.Criteria.Expertises, &status, &a.CandidateID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}
	a.Criteria.Seniority = candidate.Seniority(seniority)
	a.Status = assignment.BookingStatus(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func collectAssignments(rows pgx.Rows) ([]assignment.Assignment, error) {
	defer rows.Close()
	var res []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
