package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/form"
)

type FormRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewFormRepository(pool *pgxpool.Pool, log *slog.Logger) *FormRepository {
	return &FormRepository{
		pool: pool,
		log:  log.With("component", "form_repository"),
	}
}

func (r *FormRepository) List(ctx context.Context) ([]form.Definition, error) {
	const query = `
		SELECT id, name, schema, version, updated_at
		FROM forms
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list forms", "error", err)
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var forms []form.Definition
	for rows.Next() {
		var def form.Definition
		err := rows.Scan(&def.ID, &def.Name, &def.Schema, &def.Version, &def.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, def)
	}

	return forms, rows.Err()
}

func (r *FormRepository) Get(ctx context.Context, id string) (*form.Definition, error) {
	const query = `
		SELECT id, name, schema, version, updated_at
		FROM forms
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)

	var def form.Definition
	err := row.Scan(&def.ID, &def.Name, &def.Schema, &def.Version, &def.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, form.ErrNotFound
		}
		r.log.Error("failed to get form", "form_id", id, "error", err)
		return nil, fmt.Errorf("get form: %w", err)
	}

	return &def, nil
}

func (r *FormRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM forms WHERE id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		r.log.Error("failed to check form existence", "form_id", id, "error", err)
		return false, fmt.Errorf("check form: %w", err)
	}

	return exists, nil
}
