package eco

import (
	"context"
	"errors"
	"time"

	"secondlife/database/repository"
	ecoRepo "secondlife/database/repository/eco"
	"secondlife/models"
	"secondlife/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 8
	MaxListLimit     = 24
)

type EcoService interface {
	ListPublished(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error)
	GetPublished(ctx context.Context, contentID string) (*models.EcoContent, error)
	TrackView(ctx context.Context, input models.TrackEcoViewInput) (string, error)
	ListAll(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error)
	Create(ctx context.Context, input models.CreateEcoContentInput) (string, error)
}

// DefaultEcoService is the production implementation.
type DefaultEcoService struct {
	Repo ecoRepo.EcoRepository
	Now  func() time.Time
}

var errEcoNotFound = utils.NotFound("Eco content not found.")

func (s *DefaultEcoService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultEcoService) ListPublished(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error) {
	return s.Repo.ListPublished(ctx, filter, s.now(), cursor, limit)
}

// GetPublished returns content that is already visible to the public.
// Scheduled content is reported as missing.
func (s *DefaultEcoService) GetPublished(ctx context.Context, contentID string) (*models.EcoContent, error) {
	content, err := s.Repo.GetByID(ctx, contentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errEcoNotFound
	}
	if err != nil {
		return nil, err
	}
	if !content.IsPublished(s.now()) {
		return nil, errEcoNotFound
	}
	return content, nil
}

// TrackView records a view of published content. The content's own theme
// takes precedence over the one supplied by the caller.
func (s *DefaultEcoService) TrackView(ctx context.Context, input models.TrackEcoViewInput) (string, error) {
	content, err := s.GetPublished(ctx, input.ContentID)
	if err != nil {
		return "", err
	}

	themeWeekID := input.ThemeWeekID
	if content.ThemeWeekID != nil {
		themeWeekID = content.ThemeWeekID
	}
	view := &models.EcoView{
		ID:          uuid.NewString(),
		ContentID:   content.ID,
		ThemeWeekID: themeWeekID,
	}
	if err := s.Repo.RecordView(ctx, view); err != nil {
		return "", err
	}
	return view.ID, nil
}

func (s *DefaultEcoService) ListAll(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error) {
	return s.Repo.ListAll(ctx, filter, cursor, limit)
}

// Create stores new content, published immediately unless a date is given.
func (s *DefaultEcoService) Create(ctx context.Context, input models.CreateEcoContentInput) (string, error) {
	publishedAt := s.now()
	if input.PublishedAtISO != nil {
		parsed, err := time.Parse(time.RFC3339Nano, *input.PublishedAtISO)
		if err != nil {
			return "", utils.BadRequest("Invalid publishedAtIso.")
		}
		publishedAt = parsed
	}

	content := &models.EcoContent{
		ID:          uuid.NewString(),
		ThemeWeekID: input.ThemeWeekID,
		Type:        input.Type,
		Title:       input.Title,
		Summary:     input.Summary,
		SourceURL:   input.SourceURL,
		Tags:        input.Tags,
		Lang:        input.Lang,
		PublishedAt: publishedAt.UTC(),
	}
	if err := s.Repo.Create(ctx, content); err != nil {
		return "", err
	}
	zap.L().Info("eco_content_created", zap.String("contentId", content.ID), zap.Time("publishedAt", content.PublishedAt))
	return content.ID, nil
}
