package suggestions

import (
	"context"
	"errors"

	"secondlife/database/repository"
	suggestionRepo "secondlife/database/repository/suggestion"
	"secondlife/models"
	"secondlife/utils"

	"go.uber.org/zap"
)

const (
	DefaultPublishedLimit = 8
	DefaultPendingLimit   = 12
	MaxListLimit          = 24
)

type SuggestionService interface {
	ListPublished(ctx context.Context, themeWeekID, cursor string, limit int) (repository.Page[models.AISuggestion], error)
	ListPending(ctx context.Context, themeWeekID, cursor string, limit int) (repository.Page[models.AISuggestion], error)
	Approve(ctx context.Context, caller *models.AuthContext, suggestionID string) error
	Delete(ctx context.Context, suggestionID string) error
	Generate(ctx context.Context, opts Options) (*Result, error)
}

// DefaultSuggestionService is the production implementation.
type DefaultSuggestionService struct {
	Repo      suggestionRepo.SuggestionRepository
	Generator *Generator
}

var errSuggestionNotFound = utils.NotFound("Suggestion not found.")

func (s *DefaultSuggestionService) ListPublished(ctx context.Context, themeWeekID, cursor string, limit int) (repository.Page[models.AISuggestion], error) {
	return s.Repo.List(ctx, models.SuggestionFilter{Published: true, ThemeWeekID: themeWeekID}, cursor, limit)
}

func (s *DefaultSuggestionService) ListPending(ctx context.Context, themeWeekID, cursor string, limit int) (repository.Page[models.AISuggestion], error) {
	return s.Repo.List(ctx, models.SuggestionFilter{Published: false, ThemeWeekID: themeWeekID}, cursor, limit)
}

// Approve publishes a suggestion and records the approving admin.
func (s *DefaultSuggestionService) Approve(ctx context.Context, caller *models.AuthContext, suggestionID string) error {
	err := s.Repo.Approve(ctx, suggestionID, caller.UID)
	if errors.Is(err, repository.ErrNotFound) {
		return errSuggestionNotFound
	}
	if err == nil {
		zap.L().Info("ai_suggestion_approved", zap.String("suggestionId", suggestionID), zap.String("approvedBy", caller.UID))
	}
	return err
}

func (s *DefaultSuggestionService) Delete(ctx context.Context, suggestionID string) error {
	err := s.Repo.Delete(ctx, suggestionID)
	if errors.Is(err, repository.ErrNotFound) {
		return errSuggestionNotFound
	}
	return err
}

// Generate runs the pipeline on demand.
func (s *DefaultSuggestionService) Generate(ctx context.Context, opts Options) (*Result, error) {
	return s.Generator.GenerateWeeklySuggestions(ctx, opts)
}
