package items

import (
	"context"

	"secondlife/database/repository"
	itemRepo "secondlife/database/repository/item"
	"secondlife/models"
)

const (
	DefaultListLimit = 12
	MaxListLimit     = 24
	// DetailMediaLimit bounds the media returned with an item detail.
	DetailMediaLimit = 20
)

// ListQuery selects a page of items.
type ListQuery struct {
	Limit  int
	Cursor string
	Status models.ItemStatus
	Mine   bool
}

// Detail is an item with its most recent media.
type Detail struct {
	Item  models.Item        `json:"item"`
	Media []models.ItemMedia `json:"media"`
}

type ItemService interface {
	Create(ctx context.Context, caller *models.AuthContext, input models.CreateItemInput) (string, error)
	List(ctx context.Context, caller *models.AuthContext, q ListQuery) (repository.Page[models.Item], error)
	GetDetail(ctx context.Context, caller *models.AuthContext, itemID string) (*Detail, error)
	Update(ctx context.Context, caller *models.AuthContext, input models.UpdateItemInput) error
	Archive(ctx context.Context, caller *models.AuthContext, itemID string) error
	AddMedia(ctx context.Context, caller *models.AuthContext, input models.AddItemMediaInput) (string, error)
}

// DefaultItemService is the production implementation.
type DefaultItemService struct {
	Repo itemRepo.ItemRepository
}
