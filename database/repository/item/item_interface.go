package itemRepo

import (
	"context"
	"errors"

	"secondlife/database/repository"
	"secondlife/models"
)

var (
	// ErrMediaLimitReached is returned when an item already holds the maximum media count.
	ErrMediaLimitReached = errors.New("item media limit reached")
	// ErrItemArchived is returned when a patch would reactivate an archived item.
	ErrItemArchived = errors.New("item is archived")
)

// ItemRepository defines methods for item and item media data access.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	// GetByID returns repository.ErrNotFound when the item does not exist.
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// List pages items newest first.
	List(ctx context.Context, filter models.ItemFilter, cursor string, limit int) (repository.Page[models.Item], error)
	// ApplyPatch sets only the fields present in patch. A patch setting status
	// active fails with ErrItemArchived when the stored item is archived.
	ApplyPatch(ctx context.Context, id string, patch models.ItemPatch) error
	// Archive moves the item to archived.
	Archive(ctx context.Context, id string) error
	// ListMedia returns up to limit media of an item, newest first.
	ListMedia(ctx context.Context, itemID string, limit int) ([]models.ItemMedia, error)
	// AddMedia atomically checks the cap, increments mediaCount and stores media.
	// authorize runs against the item read inside the transaction.
	AddMedia(ctx context.Context, media *models.ItemMedia, authorize func(*models.Item) error) error
}
