package suggestionRepo

import (
	"context"

	"secondlife/database/repository"
	"secondlife/models"
)

// SuggestionRepository defines methods for AI suggestion data access.
type SuggestionRepository interface {
	// CountByTheme counts suggestions of a theme, stopping at limit.
	CountByTheme(ctx context.Context, themeWeekID string, limit int) (int, error)
	// InsertBatch stores every suggestion or none of them.
	InsertBatch(ctx context.Context, suggestions []models.AISuggestion) error
	// List pages suggestions by createdAt descending.
	List(ctx context.Context, filter models.SuggestionFilter, cursor string, limit int) (repository.Page[models.AISuggestion], error)
	// Approve publishes a suggestion. Returns repository.ErrNotFound when absent.
	Approve(ctx context.Context, id, approverID string) error
	// Delete removes a suggestion. Returns repository.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
