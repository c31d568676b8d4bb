package suggestions

import (
	"context"
	"fmt"
	"strings"
	"time"

	suggestionRepo "secondlife/database/repository/suggestion"
	themeRepo "secondlife/database/repository/theme"
	"secondlife/models"
	ai "secondlife/services/intelligence"
	"secondlife/services/themes"
	"secondlife/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultDesiredCount = 8
	DefaultLanguage     = "fr"
	defaultThemeSlug    = "weekly-theme"
	// existingCountLimit bounds the count of stored suggestions for a theme.
	existingCountLimit = 500
)

type Status string

const (
	StatusSkippedNoTheme  Status = "skipped_no_theme"
	StatusSkippedExisting Status = "skipped_existing"
	StatusCreated         Status = "created"
)

// Options tunes one generation run.
type Options struct {
	Force             bool
	DesiredCount      int
	Language          string
	FallbackThemeSlug string
}

// DefaultOptions are used by the weekly job.
func DefaultOptions() Options {
	return Options{DesiredCount: DefaultDesiredCount, Language: DefaultLanguage}
}

// OptionsFromInput applies defaults to an admin command.
func OptionsFromInput(in models.GenerateSuggestionsInput) Options {
	opts := DefaultOptions()
	if in.Force != nil {
		opts.Force = *in.Force
	}
	if in.DesiredCount != nil {
		opts.DesiredCount = *in.DesiredCount
	}
	if in.Language != nil {
		opts.Language = *in.Language
	}
	if in.FallbackThemeSlug != nil {
		opts.FallbackThemeSlug = *in.FallbackThemeSlug
	}
	return opts
}

// Result describes a finished run. Every status is a success.
type Result struct {
	Status         Status  `json:"status"`
	ThemeWeekID    *string `json:"themeWeekId"`
	GeneratedCount int     `json:"generatedCount"`
	ExistingCount  int     `json:"existingCount"`
}

// Generator drafts the weekly suggestions for the current theme.
type Generator struct {
	Themes      themeRepo.ThemeRepository
	Suggestions suggestionRepo.SuggestionRepository
	Provider    ai.Provider
	Guard       RunGuard
	Now         func() time.Time
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// currentTheme resolves the active theme, ignoring one with a blank title or slug.
func (g *Generator) currentTheme(ctx context.Context) (*models.ThemeWeek, error) {
	theme, err := themes.CurrentAt(ctx, g.Themes, g.now())
	if err != nil || theme == nil {
		return nil, err
	}
	theme.Title = strings.TrimSpace(theme.Title)
	theme.ThemeSlug = strings.TrimSpace(theme.ThemeSlug)
	if theme.Title == "" || theme.ThemeSlug == "" {
		return nil, nil
	}
	return theme, nil
}

// GenerateWeeklySuggestions runs the pipeline once.
func (g *Generator) GenerateWeeklySuggestions(ctx context.Context, opts Options) (*Result, error) {
	if opts.DesiredCount == 0 {
		opts.DesiredCount = DefaultDesiredCount
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	theme, err := g.currentTheme(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current theme: %w", err)
	}
	if theme == nil {
		zap.L().Info("weekly_suggestions_skipped_no_active_theme")
		return &Result{Status: StatusSkippedNoTheme}, nil
	}

	if g.Guard != nil {
		acquired, err := g.Guard.Acquire(ctx, theme.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire generation guard: %w", err)
		}
		if !acquired {
			return nil, utils.Conflict("Weekly suggestions are already being generated.")
		}
		defer func() {
			if err := g.Guard.Release(context.WithoutCancel(ctx), theme.ID); err != nil {
				zap.L().Warn("failed to release generation guard", zap.String("themeWeekId", theme.ID), zap.Error(err))
			}
		}()
	}

	existingCount, err := g.Suggestions.CountByTheme(ctx, theme.ID, existingCountLimit)
	if err != nil {
		return nil, err
	}
	if !opts.Force && existingCount > 0 {
		zap.L().Info("weekly_suggestions_skipped_existing",
			zap.String("themeWeekId", theme.ID),
			zap.Int("existingCount", existingCount),
		)
		return &Result{Status: StatusSkippedExisting, ThemeWeekID: &theme.ID, ExistingCount: existingCount}, nil
	}

	slug := theme.ThemeSlug
	if slug == "" {
		slug = opts.FallbackThemeSlug
	}
	if slug == "" {
		slug = defaultThemeSlug
	}
	output, err := g.Provider.GenerateWeeklySuggestions(ctx, ai.WeeklySuggestionsInput{
		ThemeTitle:   theme.Title,
		ThemeSlug:    slug,
		WeekStartISO: theme.WeekStart.UTC().Format(time.RFC3339Nano),
		WeekEndISO:   theme.WeekEnd.UTC().Format(time.RFC3339Nano),
		DesiredCount: opts.DesiredCount,
		Language:     opts.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("%s provider failed: %w", g.Provider.Name(), err)
	}
	if err := AssertDiversity(output.Suggestions, MinDistinctCategoryHints); err != nil {
		return nil, err
	}

	createdAt := g.now().UTC().Truncate(time.Millisecond)
	docs := make([]models.AISuggestion, 0, len(output.Suggestions))
	for _, d := range output.Suggestions {
		docs = append(docs, models.AISuggestion{
			ID:             uuid.NewString(),
			ThemeWeekID:    theme.ID,
			Title:          d.Title,
			Rationale:      d.Rationale,
			Tags:           d.Tags,
			CategoryHints:  d.CategoryHints,
			DiversityFlags: d.DiversityFlags,
			Published:      false,
			CreatedAt:      createdAt,
		})
	}
	if err := g.Suggestions.InsertBatch(ctx, docs); err != nil {
		return nil, err
	}

	zap.L().Info("weekly_suggestions_created",
		zap.String("themeWeekId", theme.ID),
		zap.Int("generatedCount", len(docs)),
		zap.Int("existingCount", existingCount),
		zap.Bool("force", opts.Force),
	)
	return &Result{
		Status:         StatusCreated,
		ThemeWeekID:    &theme.ID,
		GeneratedCount: len(docs),
		ExistingCount:  existingCount,
	}, nil
}
