package themeRepo

import (
	"context"
	"time"

	"secondlife/database/repository"
	"secondlife/models"
)

// ThemeRepository defines methods for theme week data access.
type ThemeRepository interface {
	// StartedBy returns up to limit themes with weekStart <= at, latest start first.
	StartedBy(ctx context.Context, at time.Time, limit int) ([]models.ThemeWeek, error)
	// List pages themes by weekStart descending.
	List(ctx context.Context, cursor string, limit int) (repository.Page[models.ThemeWeek], error)
	// CreateExclusive inserts theme after check accepts every stored theme that
	// starts at or before theme.WeekEnd. Concurrent creations are serialized.
	CreateExclusive(ctx context.Context, theme *models.ThemeWeek, check func(candidates []models.ThemeWeek) error) error
}
