package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles conversion_logs PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a single conversion log entry.
func (r *Repository) Insert(ctx context.Context, log *ConversionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversion_logs (id, user_id, source_language, target_language, status, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.UserID, log.SourceLanguage, log.TargetLanguage, log.Status, log.DurationMs, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting conversion log: %w", err)
	}
	return nil
}

// ListByUser returns paginated conversion logs for a user with optional filters.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]ConversionLog, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
	args = append(args, userID)
	argIdx++

	if params.SourceLanguage != "" {
		conditions = append(conditions, fmt.Sprintf("source_language = $%d", argIdx))
		args = append(args, strings.ToLower(params.SourceLanguage))
		argIdx++
	}

	if params.TargetLanguage != "" {
		conditions = append(conditions, fmt.Sprintf("target_language = $%d", argIdx))
		args = append(args, strings.ToLower(params.TargetLanguage))
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}

	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM conversion_logs WHERE %s", where)
	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("counting conversion logs: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(
		`SELECT id, user_id, source_language, target_language, status, duration_ms, created_at
		 FROM conversion_logs WHERE %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying conversion logs: %w", err)
	}
	defer rows.Close()

	var logs []ConversionLog
	for rows.Next() {
		var l ConversionLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.SourceLanguage, &l.TargetLanguage,
			&l.Status, &l.DurationMs, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning conversion log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, totalCount, nil
}
