package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/observability"
	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

// stubActivities filters on the local date like the activity store does.
type stubActivities struct {
	mu         sync.Mutex
	activities []activity.Activity
	err        error
	calls      int
	// block makes every call wait for ctx to end.
	block bool
}

func (s *stubActivities) ActivitiesBetween(ctx context.Context, userID int64, from, to civil.Date) ([]activity.Activity, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := []activity.Activity{}
	for _, a := range s.activities {
		day, err := civil.ParseDate(LocalDate(a))
		if err != nil || a.UserID != userID || day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type stubWorkouts struct {
	mu       sync.Mutex
	workouts []assignment.CalendarWorkout
	err      error
	calls    int
	// cancelled records whether the context ended before the call returned.
	waitForCancel bool
	cancelled     bool
}

func (s *stubWorkouts) WorkoutsBetween(ctx context.Context, userID int64, from, to civil.Date) ([]assignment.CalendarWorkout, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.waitForCancel {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.cancelled = true
			s.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := []assignment.CalendarWorkout{}
	for _, w := range s.workouts {
		if w.AssignedToUserID == userID && !w.ScheduledDate.Before(from) && !w.ScheduledDate.After(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func julyFixture() (*stubActivities, *stubWorkouts) {
	activities := &stubActivities{activities: []activity.Activity{
		{ID: 1, UserID: 7, Type: activity.TypeRide, StartDateLocal: "2025-06-30T23:30:00+07:00"},
		{ID: 2, UserID: 7, Type: activity.TypeRide, StartDateLocal: "2025-07-01T06:00:00+07:00"},
		{ID: 3, UserID: 7, Type: activity.TypeRun, StartDateLocal: "2025-07-29T14:00:00+07:00"},
		{ID: 4, UserID: 7, Type: activity.TypeSwim, StartDateLocal: "2025-07-31T21:00:00-08:00"},
		{ID: 5, UserID: 7, Type: activity.TypeWalk, StartDateLocal: "2025-08-01T00:10:00+02:00"},
		{ID: 6, UserID: 8, Type: activity.TypeRide, StartDateLocal: "2025-07-15T09:00:00Z"},
	}}
	workouts := &stubWorkouts{workouts: []assignment.CalendarWorkout{
		workoutOn(10, civil.Date{Year: 2025, Month: 6, Day: 30}),
		workoutOn(11, civil.Date{Year: 2025, Month: 7, Day: 26}),
		workoutOn(11, civil.Date{Year: 2025, Month: 7, Day: 26}),
		workoutOn(12, civil.Date{Year: 2025, Month: 7, Day: 31}),
		workoutOn(13, civil.Date{Year: 2025, Month: 8, Day: 1}),
	}}
	return activities, workouts
}

func newTestService(activities ActivityLister, workouts WorkoutLister) (*Service, *Cache) {
	cache := NewCache(zerolog.Nop())
	cfg := &config.Config{CalendarFetchTimeout: 2 * time.Second}
	return NewService(activities, workouts, cache, cfg, zerolog.Nop()), cache
}

func TestMonthBucketsOnlyDatesInsideTheMonth(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)

	m, err := svc.Month(context.Background(), 7, 2025, 7)
	require.NoError(t, err)
	require.Equal(t, "2025-07-01", m.Range.From.String())
	require.Equal(t, "2025-07-31", m.Range.To.String())

	total := 0
	for date, day := range m.Days {
		d, err := civil.ParseDate(date)
		require.NoError(t, err)
		require.True(t, m.Range.Contains(d), date)
		total += len(day.Activities) + len(day.Workouts)
	}
	require.Equal(t, len(m.Activities)+len(m.Plan.Workouts), total)
	require.Len(t, m.Activities, 3)
	require.Len(t, m.Plan.Workouts, 3)

	require.Len(t, m.Days["2025-07-29"].Activities, 1)
	require.Len(t, m.Days["2025-07-26"].Workouts, 2)
	require.Len(t, m.Days["2025-07-31"].Activities, 1)
	require.Len(t, m.Days["2025-07-31"].Workouts, 1)
}

func TestMonthFailsWholeWhenActivitiesFail(t *testing.T) {
	activities, workouts := julyFixture()
	activities.err = errors.New("connection refused")
	workouts.waitForCancel = true
	svc, cache := newTestService(activities, workouts)
	before := testutil.ToFloat64(observability.MonthLoads(observability.ResultError))

	m, err := svc.Month(context.Background(), 7, 2025, 7)
	require.Nil(t, m)
	require.ErrorIs(t, err, apperr.ErrUpstream)

	var loadErr *ScheduleLoadError
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, 2025, loadErr.Year)
	require.Equal(t, 7, loadErr.Month)

	var fetchErr *apperr.UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "activities", fetchErr.Source)

	require.True(t, workouts.cancelled)
	require.Zero(t, cache.Len())
	require.InDelta(t, before+1, testutil.ToFloat64(observability.MonthLoads(observability.ResultError)), 0.0001)
}

func TestMonthFailsWhenWorkoutsFail(t *testing.T) {
	activities, workouts := julyFixture()
	workouts.err = errors.New("timeout")
	svc, _ := newTestService(activities, workouts)

	_, err := svc.Month(context.Background(), 7, 2025, 7)
	var fetchErr *apperr.UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "workouts", fetchErr.Source)
}

func TestMonthHonoursFetchTimeout(t *testing.T) {
	activities, workouts := julyFixture()
	activities.block = true
	cache := NewCache(zerolog.Nop())
	svc := NewService(activities, workouts, cache, &config.Config{CalendarFetchTimeout: 20 * time.Millisecond}, zerolog.Nop())

	_, err := svc.Month(context.Background(), 7, 2025, 7)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestMonthIsServedFromCacheUntilInvalidated(t *testing.T) {
	activities, workouts := julyFixture()
	svc, cache := newTestService(activities, workouts)
	ctx := context.Background()

	first, err := svc.Month(ctx, 7, 2025, 7)
	require.NoError(t, err)
	second, err := svc.Month(ctx, 7, 2025, 7)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, activities.calls)
	require.Equal(t, 1, workouts.calls)

	workouts.workouts = append(workouts.workouts, workoutOn(14, civil.Date{Year: 2025, Month: 7, Day: 4}))
	cache.InvalidateDate(7, civil.Date{Year: 2025, Month: 7, Day: 4})

	third, err := svc.Month(ctx, 7, 2025, 7)
	require.NoError(t, err)
	require.Equal(t, 2, workouts.calls)
	require.Len(t, third.Plan.Workouts, 4)
}

// heldWorkouts pauses the first query after it has read the store.
type heldWorkouts struct {
	*stubWorkouts
	hold    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (h *heldWorkouts) WorkoutsBetween(ctx context.Context, userID int64, from, to civil.Date) ([]assignment.CalendarWorkout, error) {
	out, err := h.stubWorkouts.WorkoutsBetween(ctx, userID, from, to)
	h.hold.Do(func() {
		close(h.reached)
		<-h.release
	})
	return out, err
}

func TestMonthInvalidatedWhileLoadingIsNotCached(t *testing.T) {
	activities, workouts := julyFixture()
	held := &heldWorkouts{stubWorkouts: workouts, reached: make(chan struct{}), release: make(chan struct{})}
	svc, cache := newTestService(activities, held)
	ctx := context.Background()

	type result struct {
		m   *Month
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := svc.Month(ctx, 7, 2025, 7)
		done <- result{m, err}
	}()

	<-held.reached
	workouts.workouts = append(workouts.workouts, workoutOn(14, civil.Date{Year: 2025, Month: 7, Day: 4}))
	cache.InvalidateDate(7, civil.Date{Year: 2025, Month: 7, Day: 4})
	close(held.release)

	inFlight := <-done
	require.NoError(t, inFlight.err)
	require.Len(t, inFlight.m.Plan.Workouts, 3)
	_, ok := cache.Get(7, 2025, 7)
	require.False(t, ok)

	fresh, err := svc.Month(ctx, 7, 2025, 7)
	require.NoError(t, err)
	require.Len(t, fresh.Plan.Workouts, 4)
	require.Len(t, fresh.Days["2025-07-04"].Workouts, 1)

	cached, ok := cache.Get(7, 2025, 7)
	require.True(t, ok)
	require.Same(t, fresh, cached)
}

func TestMonthValidatesBeforeFetching(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)
	ctx := context.Background()

	for _, c := range []struct {
		user        int64
		year, month int
	}{{0, 2025, 7}, {7, 2025, 13}, {7, 2025, 0}, {7, 99, 7}} {
		_, err := svc.Month(ctx, c.user, c.year, c.month)
		require.ErrorIs(t, err, apperr.ErrValidation)
	}
	require.Zero(t, activities.calls)
	require.Zero(t, workouts.calls)
}

func TestMonthlyPlanIsIdempotentAndBounded(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)
	ctx := context.Background()

	first, err := svc.MonthlyPlan(ctx, 7, 2025, 7)
	require.NoError(t, err)
	second, err := svc.MonthlyPlan(ctx, 7, 2025, 7)
	require.NoError(t, err)
	require.Equal(t, first, second)

	ids := []int64{}
	for _, w := range first.Workouts {
		ids = append(ids, w.ID)
	}
	require.Equal(t, []int64{11, 11, 12}, ids)
}

func TestMonthlyPlanEmptyForUnknownUser(t *testing.T) {
	activities, _ := julyFixture()
	svc, _ := newTestService(activities, notFoundWorkouts{})

	plan, err := svc.MonthlyPlan(context.Background(), 404, 2025, 7)
	require.NoError(t, err)
	require.NotNil(t, plan.Workouts)
	require.Empty(t, plan.Workouts)

	m, err := svc.Month(context.Background(), 404, 2025, 7)
	require.NoError(t, err)
	require.Empty(t, m.Days)
	require.Empty(t, m.Activities)
}

type notFoundWorkouts struct{}

func (notFoundWorkouts) WorkoutsBetween(context.Context, int64, civil.Date, civil.Date) ([]assignment.CalendarWorkout, error) {
	return nil, apperr.NotFound("user", 404)
}

func TestActivitiesForMonthAndRange(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)
	ctx := context.Background()

	july, err := svc.ActivitiesForMonth(ctx, 7, 2025, 7)
	require.NoError(t, err)
	require.Len(t, july, 3)

	span, err := svc.ActivitiesForDateRange(ctx, 7, civil.Date{Year: 2025, Month: 6, Day: 30}, civil.Date{Year: 2025, Month: 7, Day: 1})
	require.NoError(t, err)
	require.Len(t, span, 2)

	_, err = svc.ActivitiesForDateRange(ctx, 7, civil.Date{Year: 2025, Month: 7, Day: 2}, civil.Date{Year: 2025, Month: 7, Day: 1})
	require.ErrorIs(t, err, apperr.ErrValidation)
}
