package checkers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChecker reports ready once the pool answers and the booking schema
// has been migrated.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	var migrated bool
	err := c.pool.QueryRow(ctx, `SELECT to_regclass('public.assignments') IS NOT NULL`).Scan(&migrated)
	if err != nil {
		return err
	}
	if !migrated {
		return errors.New("assignments table missing, run --migrate-only")
	}
	return nil
}
