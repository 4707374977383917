package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists per-user daily usage counters.
type Repository interface {
	// Consume bumps the user's counter for today and returns the updated
	// record. The calendar-day reset and the increment happen in a single
	// statement so concurrent requests for one user cannot lose updates.
	Consume(ctx context.Context, userID uuid.UUID) (*Record, error)
	// Get returns the user's record without mutating it, or nil if the user
	// has never converted.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Consume(ctx context.Context, userID uuid.UUID) (*Record, error) {
	// Lazily creates the row; resets count to 1 when the stored window's UTC
	// calendar date differs from today's, otherwise increments.
	query := `
		INSERT INTO user_quotas (user_id, count, window_start, updated_at)
		VALUES ($1, 1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			count = CASE
				WHEN (user_quotas.window_start AT TIME ZONE 'UTC')::date <> (NOW() AT TIME ZONE 'UTC')::date
				THEN 1
				ELSE user_quotas.count + 1
			END,
			window_start = CASE
				WHEN (user_quotas.window_start AT TIME ZONE 'UTC')::date <> (NOW() AT TIME ZONE 'UTC')::date
				THEN NOW()
				ELSE user_quotas.window_start
			END,
			updated_at = NOW()
		RETURNING user_id, count, window_start, updated_at`

	rec := &Record{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.Count, &rec.WindowStart, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("consuming quota: %w", err)
	}
	return rec, nil
}

func (r *postgresRepository) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	query := `SELECT user_id, count, window_start, updated_at FROM user_quotas WHERE user_id = $1`

	rec := &Record{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.Count, &rec.WindowStart, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying quota: %w", err)
	}
	return rec, nil
}
