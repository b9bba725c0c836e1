package activity

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

const (
	defaultLimit = 200
	maxLimit     = 1000
)

// Service validates activity queries and pages through the store.
type Service struct {
	repo       repoer
	fetchLimit int
	logger     zerolog.Logger
}

func NewService(repo repoer, cfg *config.Config, logger zerolog.Logger) *Service {
	fetchLimit := cfg.ActivityFetchLimit
	if fetchLimit <= 0 || fetchLimit > maxLimit {
		fetchLimit = maxLimit
	}
	return &Service{
		repo:       repo,
		fetchLimit: fetchLimit,
		logger:     logger.With().Str("component", "activity").Logger(),
	}
}

// GetActivities returns one page of activities.
func (s *Service) GetActivities(ctx context.Context, query GetActivitiesQuery) (*GetActivitiesResponse, error) {
	if err := validateQuery(&query); err != nil {
		return nil, err
	}

	activities, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	return &GetActivitiesResponse{
		Success:    true,
		Activities: activities,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
	}, nil
}

// ActivitiesBetween returns every activity of the user whose local start date lies in [from, to].
// It keeps paging until the store reports no more rows, so a busy month is never truncated.
func (s *Service) ActivitiesBetween(ctx context.Context, userID int64, from, to civil.Date) ([]Activity, error) {
	query := GetActivitiesQuery{
		UserID:        userID,
		StartDateFrom: from.String(),
		StartDateTo:   to.String(),
		Page:          1,
		Limit:         s.fetchLimit,
	}
	if err := validateQuery(&query); err != nil {
		return nil, err
	}

	var all []Activity
	for {
		page, total, err := s.repo.List(ctx, query)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < query.Limit || len(all) >= total {
			break
		}
		query.Page++
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Stringer("from", from).
		Stringer("to", to).
		Int("count", len(all)).
		Msg("Loaded activities for range")

	if all == nil {
		all = []Activity{}
	}
	return all, nil
}

func validateQuery(query *GetActivitiesQuery) error {
	if query.UserID <= 0 {
		return apperr.Validation("user id must be positive, got %d", query.UserID)
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		return apperr.Validation("limit must be at most %d, got %d", maxLimit, query.Limit)
	}

	var from, to civil.Date
	var err error
	if query.StartDateFrom != "" {
		if from, err = civil.ParseDate(query.StartDateFrom); err != nil {
			return apperr.Validation("start_date_from must be YYYY-MM-DD, got %q", query.StartDateFrom)
		}
	}
	if query.StartDateTo != "" {
		if to, err = civil.ParseDate(query.StartDateTo); err != nil {
			return apperr.Validation("start_date_to must be YYYY-MM-DD, got %q", query.StartDateTo)
		}
	}
	if query.StartDateFrom != "" && query.StartDateTo != "" && to.Before(from) {
		return apperr.Validation("start_date_to %s is before start_date_from %s", to, from)
	}
	return nil
}
