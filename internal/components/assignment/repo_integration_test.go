//go:build integration

package assignment

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/testsupport"
)

func TestRepoAssignmentLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pool := testsupport.StartPostgres(ctx, t)
	testsupport.Seed(ctx, t, pool)
	repo := NewRepo(pool)

	newAssignment := func(workoutID int64, date civil.Date, priority Priority) Assignment {
		return Assignment{
			WorkoutLibraryID:    workoutID,
			AssignedToUserID:    2,
			AssignedByUserID:    1,
			ScheduledDate:       date,
			Status:              StatusAssigned,
			Priority:            priority,
			IntensityAdjustment: 1.0,
			DurationAdjustment:  0.8,
		}
	}

	jul26 := civil.Date{Year: 2025, Month: 7, Day: 26}
	first, err := repo.Create(ctx, newAssignment(1, jul26, PriorityNormal))
	require.NoError(t, err)
	require.Equal(t, jul26, first.ScheduledDate)
	require.Empty(t, first.CustomNotes)

	_, err = repo.Create(ctx, newAssignment(1, jul26, PriorityUrgent))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAssignment(2, civil.Date{Year: 2025, Month: 8, Day: 1}, PriorityNormal))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAssignment(99, jul26, PriorityNormal))
	require.ErrorIs(t, err, apperr.ErrValidation)

	from, to := civil.Date{Year: 2025, Month: 7, Day: 1}, civil.Date{Year: 2025, Month: 7, Day: 31}
	workouts, err := repo.List(ctx, ListAssignmentsQuery{AssignedToUserID: 2, ScheduledFrom: &from, ScheduledTo: &to})
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	require.Equal(t, PriorityUrgent, workouts[0].Priority)
	require.Equal(t, "Sweet Spot 3x15", workouts[0].WorkoutName)
	require.Equal(t, 75, workouts[0].EstimatedDuration)
	require.Equal(t, 60, workouts[0].AdjustedDuration)
	require.Equal(t, "Ana Athlete", workouts[0].Athlete.Name)
	require.Equal(t, "Coach Carla", workouts[0].Coach.Name)

	updated, err := repo.UpdateStatus(ctx, first.ID, StatusAssigned, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, updated.Status)
	_, err = repo.UpdateStatus(ctx, first.ID, StatusAssigned, StatusCompleted)
	require.ErrorIs(t, err, apperr.ErrValidation)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, jul26, deleted.ScheduledDate)
	_, err = repo.Delete(ctx, first.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = repo.GetByID(ctx, first.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
