package assignment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

type (
	repoer interface {
		Create(ctx context.Context, in Assignment) (*Assignment, error)
		GetByID(ctx context.Context, id int64) (*Assignment, error)
		List(ctx context.Context, query ListAssignmentsQuery) ([]CalendarWorkout, error)
		UpdateStatus(ctx context.Context, id int64, from, to Status) (*Assignment, error)
		Delete(ctx context.Context, id int64) (*Assignment, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

const foreignKeyViolation = "23503"

// scheduled_date is rendered as text so the calendar date never passes through a time zone.
const assignmentColumns = `
	wa.id, wa.workout_library_id, wa.assigned_to_user_id, wa.assigned_by_user_id,
	to_char(wa.scheduled_date, 'YYYY-MM-DD'), wa.status, wa.priority,
	wa.intensity_adjustment, wa.duration_adjustment, COALESCE(wa.custom_notes, ''),
	wa.created_at, wa.updated_at`

func (r *repo) Create(ctx context.Context, in Assignment) (*Assignment, error) {
	stmt := fmt.Sprintf(`
	INSERT INTO workout_assignments AS wa (
		workout_library_id, assigned_to_user_id, assigned_by_user_id, scheduled_date,
		status, priority, intensity_adjustment, duration_adjustment, custom_notes
	)
	VALUES (
		$1, $2, $3, $4::date, $5, $6, $7, $8, NULLIF($9, '')
	)
	RETURNING %s`, assignmentColumns)

	row := r.pool.QueryRow(
		ctx,
		stmt,
		in.WorkoutLibraryID,
		in.AssignedToUserID,
		in.AssignedByUserID,
		in.ScheduledDate.String(),
		in.Status,
		in.Priority,
		in.IntensityAdjustment,
		in.DurationAdjustment,
		in.CustomNotes,
	)
	created, err := scanAssignment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, apperr.Validation("referenced %s does not exist", pgErr.ConstraintName)
		}
		return nil, err
	}
	return created, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*Assignment, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM workout_assignments wa WHERE wa.id = $1`, assignmentColumns)

	a, err := scanAssignment(r.pool.QueryRow(ctx, stmt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("assignment", id)
	}
	return a, err
}

// List joins assignments with their template and both users. The scheduled date bounds are
// optional and inclusive; rows come back in calendar order, then by priority, then id.
func (r *repo) List(ctx context.Context, query ListAssignmentsQuery) ([]CalendarWorkout, error) {
	whereClause := "WHERE wa.assigned_to_user_id = $1"
	args := []any{query.AssignedToUserID}
	argIndex := 2

	if query.ScheduledFrom != nil {
		whereClause += fmt.Sprintf(" AND wa.scheduled_date >= $%d::date", argIndex)
		args = append(args, query.ScheduledFrom.String())
		argIndex++
	}
	if query.ScheduledTo != nil {
		whereClause += fmt.Sprintf(" AND wa.scheduled_date <= $%d::date", argIndex)
		args = append(args, query.ScheduledTo.String())
	}

	stmt := fmt.Sprintf(`
	SELECT %s,
		wl.name, wl.workout_type, wl.estimated_duration, wl.difficulty_level,
		athlete.id, athlete.name, athlete.email,
		coach.id, coach.name, coach.email
	FROM workout_assignments wa
	JOIN workout_library wl ON wl.id = wa.workout_library_id
	JOIN users athlete ON athlete.id = wa.assigned_to_user_id
	JOIN users coach ON coach.id = wa.assigned_by_user_id
	%s
	ORDER BY wa.scheduled_date ASC,
		CASE wa.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END,
		wa.id ASC`, assignmentColumns, whereClause)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []CalendarWorkout{}
	for rows.Next() {
		var (
			w         CalendarWorkout
			scheduled string
		)
		err := rows.Scan(
			&w.ID, &w.WorkoutLibraryID, &w.AssignedToUserID, &w.AssignedByUserID,
			&scheduled, &w.Status, &w.Priority,
			&w.IntensityAdjustment, &w.DurationAdjustment, &w.CustomNotes,
			&w.CreatedAt, &w.UpdatedAt,
			&w.WorkoutName, &w.WorkoutType, &w.EstimatedDuration, &w.DifficultyLevel,
			&w.Athlete.ID, &w.Athlete.Name, &w.Athlete.Email,
			&w.Coach.ID, &w.Coach.Name, &w.Coach.Email,
		)
		if err != nil {
			return nil, err
		}
		if w.ScheduledDate, err = civil.ParseDate(scheduled); err != nil {
			return nil, err
		}
		w.AdjustedDuration = adjustedDuration(w.EstimatedDuration, w.DurationAdjustment)
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// UpdateStatus moves an assignment from one status to another. The current status is part of the
// WHERE clause so a concurrent change is not silently overwritten.
func (r *repo) UpdateStatus(ctx context.Context, id int64, from, to Status) (*Assignment, error) {
	stmt := fmt.Sprintf(`
	UPDATE workout_assignments AS wa
	SET status = $3, updated_at = NOW()
	WHERE wa.id = $1 AND wa.status = $2
	RETURNING %s`, assignmentColumns)

	a, err := scanAssignment(r.pool.QueryRow(ctx, stmt, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Validation("assignment %d is no longer %s", id, from)
	}
	return a, err
}

// Delete removes the assignment and returns the deleted row so callers know which month changed.
func (r *repo) Delete(ctx context.Context, id int64) (*Assignment, error) {
	stmt := fmt.Sprintf(`DELETE FROM workout_assignments AS wa WHERE wa.id = $1 RETURNING %s`, assignmentColumns)

	a, err := scanAssignment(r.pool.QueryRow(ctx, stmt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("assignment", id)
	}
	return a, err
}

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var (
		a         Assignment
		scheduled string
	)
	err := row.Scan(
		&a.ID, &a.WorkoutLibraryID, &a.AssignedToUserID, &a.AssignedByUserID,
		&scheduled, &a.Status, &a.Priority,
		&a.IntensityAdjustment, &a.DurationAdjustment, &a.CustomNotes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.ScheduledDate, err = civil.ParseDate(scheduled); err != nil {
		return nil, err
	}
	return &a, nil
}

func adjustedDuration(minutes int, adjustment float64) int {
	if adjustment <= 0 {
		return minutes
	}
	return int(math.Round(float64(minutes) * adjustment))
}
