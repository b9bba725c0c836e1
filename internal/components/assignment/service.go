package assignment

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/schoolofsharks/trainingcal/internal/events"
	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

type (
	// Invalidator drops cached calendar data covering the given athlete and date.
	Invalidator interface {
		InvalidateDate(userID int64, date civil.Date)
	}

	// Publisher tells other instances that an assignment changed.
	Publisher interface {
		PublishAssignmentChanged(ctx context.Context, evt events.AssignmentChanged) error
	}

	Service struct {
		repo           repoer
		invalidator    Invalidator
		publisher      Publisher
		publishTimeout time.Duration
		logger         zerolog.Logger
	}
)

const defaultPublishTimeout = 2 * time.Second

func NewService(repo repoer, invalidator Invalidator, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		invalidator:    invalidator,
		publisher:      publisher,
		publishTimeout: defaultPublishTimeout,
		logger:         logger.With().Str("component", "assignment").Logger(),
	}
}

func (s *Service) List(ctx context.Context, query ListAssignmentsQuery) ([]CalendarWorkout, error) {
	if query.AssignedToUserID <= 0 {
		return nil, apperr.Validation("assigned_to_user_id must be positive, got %d", query.AssignedToUserID)
	}
	if query.ScheduledFrom != nil && query.ScheduledTo != nil && query.ScheduledTo.Before(*query.ScheduledFrom) {
		return nil, apperr.Validation("scheduled_to %s is before scheduled_from %s", query.ScheduledTo, query.ScheduledFrom)
	}
	return s.repo.List(ctx, query)
}

// WorkoutsBetween returns the athlete's assignments scheduled in [from, to], joined with template
// and user details.
func (s *Service) WorkoutsBetween(ctx context.Context, userID int64, from, to civil.Date) ([]CalendarWorkout, error) {
	workouts, err := s.List(ctx, ListAssignmentsQuery{
		AssignedToUserID: userID,
		ScheduledFrom:    &from,
		ScheduledTo:      &to,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Stringer("from", from).
		Stringer("to", to).
		Int("count", len(workouts)).
		Msg("Loaded workouts for range")
	return workouts, nil
}

func (s *Service) Create(ctx context.Context, in CreateAssignmentIn) (*Assignment, error) {
	a, err := buildAssignment(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignment_id", created.ID).
		Int64("user_id", created.AssignedToUserID).
		Stringer("scheduled_date", created.ScheduledDate).
		Msg("Assignment created")
	s.changed(ctx, events.ActionCreated, created)
	return created, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("assignment id must be positive, got %d", id)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("assignment_id", deleted.ID).
		Int64("user_id", deleted.AssignedToUserID).
		Msg("Assignment deleted")
	s.changed(ctx, events.ActionDeleted, deleted)
	return nil
}

// UpdateStatus applies a lifecycle transition. Terminal assignments reject every change.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in UpdateStatusIn) (*Assignment, error) {
	if id <= 0 {
		return nil, apperr.Validation("assignment id must be positive, got %d", id)
	}
	if !in.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", in.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == in.Status {
		return current, nil
	}
	if !current.Status.CanTransitionTo(in.Status) {
		return nil, apperr.Validation("cannot move assignment %d from %s to %s", id, current.Status, in.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, in.Status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignment_id", id).
		Str("from", string(current.Status)).
		Str("to", string(updated.Status)).
		Msg("Assignment status changed")
	s.changed(ctx, events.ActionStatusChanged, updated)
	return updated, nil
}

// changed drops this instance's cached month first, then notifies the others. A failed publish
// leaves other instances stale until their entries are replaced, so it is logged but not returned.
// The row is already committed, so the publish outlives the request and is bounded on its own.
func (s *Service) changed(ctx context.Context, action events.Action, a *Assignment) {
	s.invalidator.InvalidateDate(a.AssignedToUserID, a.ScheduledDate)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	evt := events.NewAssignmentChanged(action, a.ID, a.AssignedToUserID, a.ScheduledDate, string(a.Status))
	if err := s.publisher.PublishAssignmentChanged(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("event_id", evt.EventID).Msg("Failed to publish assignment event")
	}
}

func buildAssignment(in CreateAssignmentIn) (Assignment, error) {
	if in.WorkoutLibraryID <= 0 {
		return Assignment{}, apperr.Validation("workout_library_id must be positive, got %d", in.WorkoutLibraryID)
	}
	if in.AssignedToUserID <= 0 {
		return Assignment{}, apperr.Validation("assigned_to_user_id must be positive, got %d", in.AssignedToUserID)
	}
	if in.AssignedByUserID <= 0 {
		return Assignment{}, apperr.Validation("assigned_by_user_id must be positive, got %d", in.AssignedByUserID)
	}

	scheduled, err := civil.ParseDate(in.ScheduledDate)
	if err != nil {
		return Assignment{}, apperr.Validation("scheduled_date must be YYYY-MM-DD, got %q", in.ScheduledDate)
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return Assignment{}, apperr.Validation("unknown priority %q", priority)
	}

	intensity, err := adjustment("intensity_adjustment", in.IntensityAdjustment)
	if err != nil {
		return Assignment{}, err
	}
	duration, err := adjustment("duration_adjustment", in.DurationAdjustment)
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{
		WorkoutLibraryID:    in.WorkoutLibraryID,
		AssignedToUserID:    in.AssignedToUserID,
		AssignedByUserID:    in.AssignedByUserID,
		ScheduledDate:       scheduled,
		Status:              StatusAssigned,
		Priority:            priority,
		IntensityAdjustment: intensity,
		DurationAdjustment:  duration,
		CustomNotes:         in.CustomNotes,
	}, nil
}

func adjustment(field string, v *float64) (float64, error) {
	if v == nil {
		return 1.0, nil
	}
	if *v <= 0 {
		return 0, apperr.Validation("%s must be greater than zero, got %g", field, *v)
	}
	return *v, nil
}
