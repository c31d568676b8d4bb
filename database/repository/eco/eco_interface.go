package ecoRepo

import (
	"context"
	"time"

	"secondlife/database/repository"
	"secondlife/models"
)

// EcoRepository defines methods for eco content and view data access.
type EcoRepository interface {
	Create(ctx context.Context, content *models.EcoContent) error
	// GetByID returns repository.ErrNotFound when the content does not exist.
	GetByID(ctx context.Context, id string) (*models.EcoContent, error)
	// ListPublished pages content published at or before at, by publishedAt descending.
	ListPublished(ctx context.Context, filter models.EcoFilter, at time.Time, cursor string, limit int) (repository.Page[models.EcoContent], error)
	// ListAll pages every content by createdAt descending.
	ListAll(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error)
	// RecordView appends a view event.
	RecordView(ctx context.Context, view *models.EcoView) error
}
