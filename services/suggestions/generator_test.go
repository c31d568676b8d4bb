package suggestions

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"secondlife/database/repository"
	"secondlife/models"
	ai "secondlife/services/intelligence"
	"secondlife/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThemes struct {
	themes []models.ThemeWeek
}

func (f *fakeThemes) StartedBy(_ context.Context, at time.Time, limit int) ([]models.ThemeWeek, error) {
	out := []models.ThemeWeek{}
	for _, t := range f.themes {
		if !t.WeekStart.After(at) && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeThemes) List(context.Context, string, int) (repository.Page[models.ThemeWeek], error) {
	return repository.Page[models.ThemeWeek]{}, nil
}

func (f *fakeThemes) CreateExclusive(context.Context, *models.ThemeWeek, func([]models.ThemeWeek) error) error {
	return nil
}

type fakeSuggestions struct {
	stored   []models.AISuggestion
	approved map[string]string
}

func (f *fakeSuggestions) CountByTheme(_ context.Context, themeWeekID string, limit int) (int, error) {
	n := 0
	for _, s := range f.stored {
		if s.ThemeWeekID == themeWeekID && n < limit {
			n++
		}
	}
	return n, nil
}

func (f *fakeSuggestions) InsertBatch(_ context.Context, docs []models.AISuggestion) error {
	f.stored = append(f.stored, docs...)
	return nil
}

func (f *fakeSuggestions) List(_ context.Context, filter models.SuggestionFilter, _ string, _ int) (repository.Page[models.AISuggestion], error) {
	out := []models.AISuggestion{}
	for _, s := range f.stored {
		if s.Published == filter.Published && (filter.ThemeWeekID == "" || s.ThemeWeekID == filter.ThemeWeekID) {
			out = append(out, s)
		}
	}
	return repository.Page[models.AISuggestion]{Items: out}, nil
}

func (f *fakeSuggestions) Approve(_ context.Context, id, approverID string) error {
	for i := range f.stored {
		if f.stored[i].ID == id {
			f.stored[i].Published = true
			f.stored[i].ApprovedBy = &approverID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSuggestions) Delete(_ context.Context, id string) error {
	for i := range f.stored {
		if f.stored[i].ID == id {
			f.stored = append(f.stored[:i], f.stored[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProvider struct {
	output *ai.WeeklySuggestionsOutput
	err    error
	calls  []ai.WeeklySuggestionsInput
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GenerateWeeklySuggestions(_ context.Context, in ai.WeeklySuggestionsInput) (*ai.WeeklySuggestionsOutput, error) {
	f.calls = append(f.calls, in)
	return f.output, f.err
}

var now = time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)

func currentTheme() models.ThemeWeek {
	return models.ThemeWeek{
		ID:        "theme-1",
		WeekStart: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2026, time.March, 8, 23, 59, 59, 0, time.UTC),
		ThemeSlug: "repair-week",
		Title:     "Repair week",
	}
}

func diverseOutput() *ai.WeeklySuggestionsOutput {
	return &ai.WeeklySuggestionsOutput{Suggestions: []models.SuggestionDraft{
		draft(true, false, "furniture"),
		draft(false, true, "textile"),
		draft(false, false, "kitchen"),
	}}
}

func newGenerator(themes []models.ThemeWeek, provider *fakeProvider) (*Generator, *fakeSuggestions) {
	store := &fakeSuggestions{}
	return &Generator{
		Themes:      &fakeThemes{themes: themes},
		Suggestions: store,
		Provider:    provider,
		Guard:       NewLocalRunGuard(),
		Now:         func() time.Time { return now },
	}, store
}

func TestGenerateSkipsWithoutTheme(t *testing.T) {
	provider := &fakeProvider{output: diverseOutput()}
	gen, _ := newGenerator(nil, provider)

	res, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedNoTheme, res.Status)
	assert.Nil(t, res.ThemeWeekID)
	assert.Empty(t, provider.calls)
}

func TestGenerateTreatsBlankThemeAsMissing(t *testing.T) {
	theme := currentTheme()
	theme.Title = "   "
	provider := &fakeProvider{output: diverseOutput()}
	gen, _ := newGenerator([]models.ThemeWeek{theme}, provider)

	res, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedNoTheme, res.Status)
}

func TestGenerateCreatesUnpublishedSuggestions(t *testing.T) {
	provider := &fakeProvider{output: diverseOutput()}
	gen, store := newGenerator([]models.ThemeWeek{currentTheme()}, provider)

	res, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, "theme-1", *res.ThemeWeekID)
	assert.Equal(t, 3, res.GeneratedCount)
	assert.Zero(t, res.ExistingCount)

	require.Len(t, provider.calls, 1)
	call := provider.calls[0]
	assert.Equal(t, "repair-week", call.ThemeSlug)
	assert.Equal(t, DefaultDesiredCount, call.DesiredCount)
	assert.Equal(t, "fr", call.Language)
	assert.Equal(t, "2026-03-02T00:00:00Z", call.WeekStartISO)

	require.Len(t, store.stored, 3)
	for _, s := range store.stored {
		assert.False(t, s.Published)
		assert.Nil(t, s.ApprovedBy)
		assert.Equal(t, "theme-1", s.ThemeWeekID)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, now, s.CreatedAt)
	}
}

func TestGenerateSkipsExistingUnlessForced(t *testing.T) {
	provider := &fakeProvider{output: diverseOutput()}
	gen, store := newGenerator([]models.ThemeWeek{currentTheme()}, provider)
	store.stored = []models.AISuggestion{{ID: "old", ThemeWeekID: "theme-1"}}

	res, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedExisting, res.Status)
	assert.Equal(t, 1, res.ExistingCount)
	assert.Empty(t, provider.calls)

	opts := DefaultOptions()
	opts.Force = true
	res, err = gen.GenerateWeeklySuggestions(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, 1, res.ExistingCount)
	assert.Len(t, store.stored, 4)
}

func TestGenerateRejectsUndiverseBatch(t *testing.T) {
	output := diverseOutput()
	output.Suggestions[0].DiversityFlags["vintage"] = false
	provider := &fakeProvider{output: output}
	gen, store := newGenerator([]models.ThemeWeek{currentTheme()}, provider)

	_, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingVintage)
	assert.Empty(t, store.stored)
}

func TestGenerateSurfacesProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream timeout")}
	gen, store := newGenerator([]models.ThemeWeek{currentTheme()}, provider)

	_, err := gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
	assert.Empty(t, store.stored)
}

func TestGenerateRefusesConcurrentRun(t *testing.T) {
	provider := &fakeProvider{output: diverseOutput()}
	gen, _ := newGenerator([]models.ThemeWeek{currentTheme()}, provider)
	acquired, err := gen.Guard.Acquire(context.Background(), "theme-1")
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)

	require.NoError(t, gen.Guard.Release(context.Background(), "theme-1"))
	_, err = gen.GenerateWeeklySuggestions(context.Background(), DefaultOptions())
	assert.NoError(t, err)
}

func TestOptionsFromInputAppliesDefaults(t *testing.T) {
	force := true
	count := 5
	opts := OptionsFromInput(models.GenerateSuggestionsInput{Force: &force, DesiredCount: &count})

	assert.True(t, opts.Force)
	assert.Equal(t, 5, opts.DesiredCount)
	assert.Equal(t, DefaultLanguage, opts.Language)
	assert.Empty(t, opts.FallbackThemeSlug)
}

func TestModerationFlow(t *testing.T) {
	store := &fakeSuggestions{stored: []models.AISuggestion{{ID: "s1", ThemeWeekID: "theme-1"}}}
	svc := &DefaultSuggestionService{Repo: store}
	admin := &models.AuthContext{UID: "admin-1", Role: models.RoleAdmin}

	pending, err := svc.ListPending(context.Background(), "", "", DefaultPendingLimit)
	require.NoError(t, err)
	assert.Len(t, pending.Items, 1)

	require.NoError(t, svc.Approve(context.Background(), admin, "s1"))
	assert.Equal(t, "admin-1", *store.stored[0].ApprovedBy)

	published, err := svc.ListPublished(context.Background(), "theme-1", "", DefaultPublishedLimit)
	require.NoError(t, err)
	assert.Len(t, published.Items, 1)

	require.NoError(t, svc.Delete(context.Background(), "s1"))

	var httpErr *utils.HTTPError
	require.ErrorAs(t, svc.Delete(context.Background(), "s1"), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	require.ErrorAs(t, svc.Approve(context.Background(), admin, "s1"), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
