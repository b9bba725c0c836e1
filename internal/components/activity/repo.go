package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type (
	repoer interface {
		List(ctx context.Context, query GetActivitiesQuery) ([]Activity, int, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) repoer {
	return &repo{pool: pool}
}

// start_date_local is stored as a wall clock timestamp without zone, next to the provider's UTC
// offset. It is rendered back as text so no session time zone is ever applied to it.
const selectColumns = `
	id, external_id, user_id, name, type,
	start_date,
	to_char(start_date_local, 'YYYY-MM-DD"T"HH24:MI:SS'), utc_offset, timezone,
	elapsed_time, moving_time, recording_time, distance,
	average_speed, max_speed, average_watts, max_watts, weighted_average_watts,
	average_heartrate, max_heartrate, average_cadence, has_power_data, has_heartrate,
	training_load, intensity_factor, tss,
	source, synced_at`

// List retrieves one page of a user's activities with optional local start date bounds. The WHERE
// clause is built from the supplied filters and shared by the count and the page query. Results are
// ordered by local start time, then id.
func (r *repo) List(ctx context.Context, query GetActivitiesQuery) ([]Activity, int, error) {
	offset := (query.Page - 1) * query.Limit

	whereClause := "WHERE user_id = $1"
	args := []any{query.UserID}
	argIndex := 2

	if query.StartDateFrom != "" {
		whereClause += fmt.Sprintf(" AND start_date_local >= $%d::date", argIndex)
		args = append(args, query.StartDateFrom)
		argIndex++
	}

	if query.StartDateTo != "" {
		// Inclusive upper bound on the calendar date.
		whereClause += fmt.Sprintf(" AND start_date_local < $%d::date + 1", argIndex)
		args = append(args, query.StartDateTo)
		argIndex++
	}

	countStmt := fmt.Sprintf("SELECT COUNT(*) FROM activities %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countStmt, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	stmt := fmt.Sprintf(`
	SELECT %s
	FROM activities
	%s
	ORDER BY start_date_local ASC, id ASC
	LIMIT $%d OFFSET $%d`, selectColumns, whereClause, argIndex, argIndex+1)

	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	activities := make([]Activity, 0, query.Limit)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func scanActivity(row pgx.Row) (Activity, error) {
	var (
		a         Activity
		wallClock string
		utcOffset int
	)
	err := row.Scan(
		&a.ID, &a.ExternalID, &a.UserID, &a.Name, &a.Type,
		&a.StartDate,
		&wallClock, &utcOffset, &a.Timezone,
		&a.ElapsedTime, &a.MovingTime, &a.RecordingTime, &a.Distance,
		&a.AverageSpeed, &a.MaxSpeed, &a.AverageWatts, &a.MaxWatts, &a.WeightedAverageWatts,
		&a.AverageHeartrate, &a.MaxHeartrate, &a.AverageCadence, &a.HasPowerData, &a.HasHeartrate,
		&a.TrainingLoad, &a.IntensityFactor, &a.TSS,
		&a.Source, &a.SyncedAt,
	)
	if err != nil {
		return Activity{}, err
	}
	a.StartDate = a.StartDate.UTC()
	a.StartDateLocal = wallClock + formatOffset(utcOffset)
	return a, nil
}

// formatOffset renders a UTC offset in seconds as an ISO-8601 suffix.
func formatOffset(seconds int) string {
	if seconds == 0 {
		return "Z"
	}
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%c%02d:%02d", sign, int(d.Hours()), int(d.Minutes())%60)
}
