package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr/booking/pkg/candidate"
)

const candidateColumns = `id, declared_role, seniority, languages, expertises, is_automated,
	automation_binding, availability, updated_at`

// CandidateRepository implements candidate.Registry backed by PostgreSQL (pgx).
type CandidateRepository struct {
	pool *pgxpool.Pool
}

var _ candidate.Registry = (*CandidateRepository)(nil)

func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

func (r *CandidateRepository) Get(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	return scanCandidate(row)
}

func (r *CandidateRepository) ListByRole(ctx context.Context, role string, seniority candidate.Seniority) ([]candidate.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+candidateColumns+` FROM candidates
WHERE declared_role = $1 AND seniority = $2
ORDER BY id
`, role, string(seniority))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CandidateRepository) Upsert(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return candidate.Candidate{}, err
	}
	var binding *uuid.UUID
	if p, ok := c.Profile.(candidate.AutomatedProfile); ok {
		binding = &p.BindingID
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO candidates (id, declared_role, seniority, languages, expertises, is_automated,
	automation_binding, availability, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	declared_role = EXCLUDED.declared_role,
	seniority = EXCLUDED.seniority,
	languages = EXCLUDED.languages,
	expertises = EXCLUDED.expertises,
	is_automated = EXCLUDED.is_automated,
	automation_binding = EXCLUDED.automation_binding,
	availability = EXCLUDED.availability,
	updated_at = EXCLUDED.updated_at
RETURNING `+candidateColumns,
		c.ID, c.DeclaredRole, string(c.Seniority), nonNil(c.Languages), nonNil(c.Expertises), c.IsAutomated(),
		binding, string(c.Availability), time.Now().UTC())
	out, err := scanCandidate(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return candidate.Candidate{}, candidate.ErrInvalidProfile
		}
		return candidate.Candidate{}, err
	}
	return out, nil
}

// SetAvailability updates a human candidate. Automated candidates stay available.
func (r *CandidateRepository) SetAvailability(ctx context.Context, id uuid.UUID, a candidate.Availability) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE candidates
SET availability = CASE WHEN is_automated THEN 'available' ELSE $2 END, updated_at = $3
WHERE id = $1
RETURNING `+candidateColumns, id, string(a), time.Now().UTC())
	return scanCandidate(row)
}

func scanCandidate(row pgx.Row) (candidate.Candidate, error) {
	var (
		c            candidate.Candidate
		seniority    string
		availability string
		automated    bool
		binding      *uuid.UUID
	)
	err := row.Scan(&c.ID, &c.DeclaredRole, &seniority, &c.Languages, &c.Expertises, &automated,
		&binding, &availability, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	c.Seniority = candidate.Seniority(seniority)
	c.Availability = candidate.Availability(availability)
	c.UpdatedAt = c.UpdatedAt.UTC()
	if automated && binding != nil {
		c.Profile = candidate.AutomatedProfile{BindingID: *binding}
	} else {
		c.Profile = candidate.HumanProfile{}
	}
	return c, nil
}
