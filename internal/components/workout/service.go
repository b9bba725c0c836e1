package workout

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

type Service struct {
	repo   repoer
	logger zerolog.Logger
}

func NewService(repo repoer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "workout").Logger(),
	}
}

// ListTemplates returns the library, optionally narrowed to one workout type.
func (s *Service) ListTemplates(ctx context.Context, query ListTemplatesQuery) (*ListTemplatesResponse, error) {
	query.WorkoutType = strings.TrimSpace(query.WorkoutType)

	templates, err := s.repo.List(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("workout_type", query.WorkoutType).Msg("Failed to list workout templates")
		return nil, err
	}
	return &ListTemplatesResponse{Success: true, Templates: templates}, nil
}

func (s *Service) GetTemplate(ctx context.Context, id int64) (*GetTemplateResponse, error) {
	if id <= 0 {
		return nil, apperr.Validation("workout template id must be positive, got %d", id)
	}

	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetTemplateResponse{Success: true, Template: *template}, nil
}
