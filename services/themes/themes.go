package themes

import (
	"context"
	"time"

	"secondlife/database/repository"
	themeRepo "secondlife/database/repository/theme"
	"secondlife/models"
	"secondlife/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 12
	MaxListLimit     = 24
	// currentLookback bounds how many recently started themes are scanned
	// when resolving the current one.
	currentLookback = 24
)

type ThemeService interface {
	Current(ctx context.Context) (*models.ThemeWeek, error)
	List(ctx context.Context, cursor string, limit int) (repository.Page[models.ThemeWeek], error)
	Create(ctx context.Context, input models.CreateThemeWeekInput) (string, error)
}

// DefaultThemeService is the production implementation.
type DefaultThemeService struct {
	Repo themeRepo.ThemeRepository
	Now  func() time.Time
}

func (s *DefaultThemeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Overlaps reports whether two inclusive week ranges share any instant
// other than a shared boundary.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Current returns the theme whose range contains now, or nil when none does.
func (s *DefaultThemeService) Current(ctx context.Context) (*models.ThemeWeek, error) {
	return CurrentAt(ctx, s.Repo, s.now())
}

// CurrentAt resolves the theme active at the given instant.
func CurrentAt(ctx context.Context, repo themeRepo.ThemeRepository, at time.Time) (*models.ThemeWeek, error) {
	candidates, err := repo.StartedBy(ctx, at, currentLookback)
	if err != nil {
		return nil, err
	}
	for _, theme := range candidates {
		if !theme.WeekEnd.Before(at) {
			return &theme, nil
		}
	}
	return nil, nil
}

func (s *DefaultThemeService) List(ctx context.Context, cursor string, limit int) (repository.Page[models.ThemeWeek], error) {
	return s.Repo.List(ctx, cursor, limit)
}

// Create stores a theme week after checking its range against existing ones.
func (s *DefaultThemeService) Create(ctx context.Context, input models.CreateThemeWeekInput) (string, error) {
	start, err := time.Parse(time.RFC3339Nano, input.WeekStartISO)
	if err != nil {
		return "", utils.BadRequest("Invalid input.")
	}
	end, err := time.Parse(time.RFC3339Nano, input.WeekEndISO)
	if err != nil {
		return "", utils.BadRequest("Invalid input.")
	}
	start, end = start.UTC(), end.UTC()
	if !end.After(start) {
		return "", utils.BadRequest("Invalid week range.")
	}

	theme := &models.ThemeWeek{
		ID:               uuid.NewString(),
		WeekStart:        start,
		WeekEnd:          end,
		ThemeSlug:        input.ThemeSlug,
		Title:            input.Title,
		EcoImpactSummary: input.EcoImpactSummary,
	}
	err = s.Repo.CreateExclusive(ctx, theme, func(candidates []models.ThemeWeek) error {
		for _, other := range candidates {
			if Overlaps(start, end, other.WeekStart, other.WeekEnd) {
				return utils.Conflict("Theme week overlaps an existing theme range.")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	zap.L().Info("theme_week_created", zap.String("themeWeekId", theme.ID), zap.String("themeSlug", theme.ThemeSlug))
	return theme.ID, nil
}
