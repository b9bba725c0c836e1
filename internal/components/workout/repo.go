package workout

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

type (
	repoer interface {
		List(ctx context.Context, query ListTemplatesQuery) ([]Template, error)
		GetByID(ctx context.Context, id int64) (*Template, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

func (r *repo) List(ctx context.Context, query ListTemplatesQuery) ([]Template, error) {
	stmt := `
	SELECT id, name, workout_type, COALESCE(description, ''), estimated_duration, difficulty_level, target_tss
	FROM workout_library
	WHERE ($1 = '' OR workout_type = $1)
	ORDER BY name ASC, id ASC`

	rows, err := r.pool.Query(ctx, stmt, query.WorkoutType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.WorkoutType, &t.Description, &t.EstimatedDuration, &t.DifficultyLevel, &t.TargetTSS); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *repo) GetByID(ctx context.Context, id int64) (*Template, error) {
	stmt := `
	SELECT id, name, workout_type, COALESCE(description, ''), estimated_duration, difficulty_level, target_tss
	FROM workout_library
	WHERE id = $1`

	var t Template
	err := r.pool.QueryRow(ctx, stmt, id).Scan(&t.ID, &t.Name, &t.WorkoutType, &t.Description, &t.EstimatedDuration, &t.DifficultyLevel, &t.TargetTSS)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("workout template", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
