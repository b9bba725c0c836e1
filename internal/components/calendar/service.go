package calendar

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/observability"
	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

const (
	sourceActivities = "activities"
	sourceWorkouts   = "workouts"
)

type (
	// ActivityLister is satisfied by the activity service and by the REST client.
	ActivityLister interface {
		ActivitiesBetween(ctx context.Context, userID int64, from, to civil.Date) ([]activity.Activity, error)
	}

	// WorkoutLister is satisfied by the assignment service and by the REST client.
	WorkoutLister interface {
		WorkoutsBetween(ctx context.Context, userID int64, from, to civil.Date) ([]assignment.CalendarWorkout, error)
	}

	Service struct {
		activities ActivityLister
		workouts   WorkoutLister
		cache      *Cache
		timeout    time.Duration
		logger     zerolog.Logger
	}
)

func NewService(activities ActivityLister, workouts WorkoutLister, cache *Cache, cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		activities: activities,
		workouts:   workouts,
		cache:      cache,
		timeout:    cfg.CalendarFetchTimeout,
		logger:     logger.With().Str("component", "calendar").Logger(),
	}
}

// MonthlyPlan returns the assignments scheduled in the month. An athlete without assignments gets
// an empty plan.
func (s *Service) MonthlyPlan(ctx context.Context, userID int64, year, month int) (*MonthlyPlan, error) {
	rng, err := s.resolve(userID, year, month)
	if err != nil {
		return nil, err
	}

	workouts, err := s.fetchWorkouts(ctx, userID, rng)
	if err != nil {
		return nil, &ScheduleLoadError{UserID: userID, Year: year, Month: month, Err: err}
	}
	return &MonthlyPlan{Year: year, Month: month, Workouts: workouts}, nil
}

// ActivitiesForDateRange returns activities of every type whose local start date is in [from, to].
func (s *Service) ActivitiesForDateRange(ctx context.Context, userID int64, from, to civil.Date) ([]activity.Activity, error) {
	if userID <= 0 {
		return nil, apperr.Validation("user id must be positive, got %d", userID)
	}
	if to.Before(from) {
		return nil, apperr.Validation("range end %s is before start %s", to, from)
	}
	return s.fetchActivities(ctx, userID, DateRange{From: from, To: to})
}

func (s *Service) ActivitiesForMonth(ctx context.Context, userID int64, year, month int) ([]activity.Activity, error) {
	rng, err := s.resolve(userID, year, month)
	if err != nil {
		return nil, err
	}
	return s.fetchActivities(ctx, userID, rng)
}

// Month assembles the merged calendar, serving it from the cache when possible. Both sources are
// fetched concurrently; if either fails the whole month fails with a ScheduleLoadError. A month
// invalidated while it was loading is returned but not cached.
func (s *Service) Month(ctx context.Context, userID int64, year, month int) (*Month, error) {
	rng, err := s.resolve(userID, year, month)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(userID, year, month); ok {
		observability.RecordMonthLoad(observability.ResultCached, 0)
		return cached, nil
	}

	gen := s.cache.Generation(userID, year, month)
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		activities []activity.Activity
		workouts   []assignment.CalendarWorkout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activities, err = s.fetchActivities(gctx, userID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		workouts, err = s.fetchWorkouts(gctx, userID, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordMonthLoad(observability.ResultError, time.Since(start))
		s.logger.Error().Err(err).Int64("user_id", userID).Int("year", year).Int("month", month).Msg("Failed to load month")
		return nil, &ScheduleLoadError{UserID: userID, Year: year, Month: month, Err: err}
	}

	m := &Month{
		UserID:     userID,
		Year:       year,
		Month:      month,
		Range:      rng,
		Plan:       MonthlyPlan{Year: year, Month: month, Workouts: workouts},
		Activities: activities,
		Days:       MergeDays(GroupActivitiesByDate(activities), GroupWorkoutsByDate(workouts)),
	}
	if !s.cache.PutIfCurrent(m, gen) {
		s.logger.Debug().Int64("user_id", userID).Int("year", year).Int("month", month).Msg("Month invalidated while loading, not cached")
	}

	elapsed := time.Since(start)
	observability.RecordMonthLoad(observability.ResultOK, elapsed)
	s.logger.Debug().
		Int64("user_id", userID).
		Int("year", year).
		Int("month", month).
		Int("activities", len(activities)).
		Int("workouts", len(workouts)).
		Dur("elapsed", elapsed).
		Msg("Loaded month")
	return m, nil
}

func (s *Service) resolve(userID int64, year, month int) (DateRange, error) {
	if userID <= 0 {
		return DateRange{}, apperr.Validation("user id must be positive, got %d", userID)
	}
	return ResolveMonth(year, month)
}

func (s *Service) fetchActivities(ctx context.Context, userID int64, rng DateRange) ([]activity.Activity, error) {
	activities, err := s.activities.ActivitiesBetween(ctx, userID, rng.From, rng.To)
	if errors.Is(err, apperr.ErrNotFound) {
		return []activity.Activity{}, nil
	}
	if err != nil {
		observability.RecordSourceFetchError(sourceActivities)
		return nil, &apperr.UpstreamFetchError{Source: sourceActivities, Err: err}
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return activities, nil
}

func (s *Service) fetchWorkouts(ctx context.Context, userID int64, rng DateRange) ([]assignment.CalendarWorkout, error) {
	workouts, err := s.workouts.WorkoutsBetween(ctx, userID, rng.From, rng.To)
	if errors.Is(err, apperr.ErrNotFound) {
		return []assignment.CalendarWorkout{}, nil
	}
	if err != nil {
		observability.RecordSourceFetchError(sourceWorkouts)
		return nil, &apperr.UpstreamFetchError{Source: sourceWorkouts, Err: err}
	}
	if workouts == nil {
		workouts = []assignment.CalendarWorkout{}
	}
	return workouts, nil
}
