package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/submission"
)

type SubmissionRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSubmissionRepository(pool *pgxpool.Pool, log *slog.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		pool: pool,
		log:  log.With("component", "submission_repository"),
	}
}

// Create inserts the record keyed by its client-generated ID. The insert
// and the duplicate check are a single statement, so two concurrent
// deliveries of the same ID cannot both see created=true.
func (r *SubmissionRepository) Create(ctx context.Context, rec *submission.Record) (bool, error) {
	const query = `
		INSERT INTO submissions (id, form_id, payload, submitted_at, received_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO NOTHING`

	result, err := r.pool.Exec(ctx, query,
		rec.ID, rec.FormID, rec.Payload, rec.SubmittedAt)
	if err != nil {
		r.log.Error("failed to create submission",
			"submission_id", rec.ID, "form_id", rec.FormID, "error", err)
		return false, fmt.Errorf("create submission: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *SubmissionRepository) Get(ctx context.Context, id string) (*submission.Record, error) {
	const query = `
		SELECT id, form_id, payload, submitted_at, received_at
		FROM submissions
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)

	var rec submission.Record
	err := row.Scan(&rec.ID, &rec.FormID, &rec.Payload, &rec.SubmittedAt, &rec.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, submission.ErrNotFound
		}
		r.log.Error("failed to get submission", "submission_id", id, "error", err)
		return nil, fmt.Errorf("get submission: %w", err)
	}

	return &rec, nil
}

func (r *SubmissionRepository) List(ctx context.Context, formID string, limit, offset int) ([]submission.Record, error) {
	query := `
		SELECT id, form_id, payload, submitted_at, received_at
		FROM submissions`

	args := []interface{}{}
	argIndex := 1

	if formID != "" {
		query += fmt.Sprintf(" WHERE form_id = $%d", argIndex)
		args = append(args, formID)
		argIndex++
	}

	query += " ORDER BY received_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++

		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list submissions", "form_id", formID, "error", err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var records []submission.Record
	for rows.Next() {
		var rec submission.Record
		err := rows.Scan(&rec.ID, &rec.FormID, &rec.Payload, &rec.SubmittedAt, &rec.ReceivedAt)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *SubmissionRepository) Count(ctx context.Context, formID string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	args := []interface{}{}

	if formID != "" {
		query += ` WHERE form_id = $1`
		args = append(args, formID)
	}

	var count int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("failed to count submissions", "form_id", formID, "error", err)
		return 0, fmt.Errorf("count submissions: %w", err)
	}

	return count, nil
}
