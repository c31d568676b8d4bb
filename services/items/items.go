package items

import (
	"context"
	"errors"
	"fmt"

	"secondlife/database/repository"
	itemRepo "secondlife/database/repository/item"
	"secondlife/models"
	"secondlife/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errItemNotFound = utils.NotFound("Item not found.")
	errReactivate   = utils.BadRequest("Archived items cannot be reactivated.")
)

// Create stores a new active item owned by the caller.
func (s *DefaultItemService) Create(ctx context.Context, caller *models.AuthContext, input models.CreateItemInput) (string, error) {
	item := &models.Item{
		ID:          uuid.NewString(),
		OwnerID:     caller.UID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		State:       input.State,
		Status:      models.ItemActive,
		ThemeWeekID: input.ThemeWeekID,
		MediaCount:  0,
	}
	if err := s.Repo.Create(ctx, item); err != nil {
		return "", err
	}
	zap.L().Info("item_created", zap.String("itemId", item.ID), zap.String("ownerId", caller.UID))
	return item.ID, nil
}

// List pages items, optionally restricted to the caller's own.
func (s *DefaultItemService) List(ctx context.Context, caller *models.AuthContext, q ListQuery) (repository.Page[models.Item], error) {
	filter := models.ItemFilter{Status: q.Status}
	if q.Mine {
		filter.OwnerID = caller.UID
	}
	return s.Repo.List(ctx, filter, q.Cursor, q.Limit)
}

// GetDetail returns an item and its newest media. Archived items are hidden
// from everyone but the owner and admins.
func (s *DefaultItemService) GetDetail(ctx context.Context, caller *models.AuthContext, itemID string) (*Detail, error) {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status == models.ItemArchived && !caller.CanManage(item.OwnerID) {
		return nil, errItemNotFound
	}

	media, err := s.Repo.ListMedia(ctx, item.ID, DetailMediaLimit)
	if err != nil {
		return nil, err
	}
	return &Detail{Item: *item, Media: media}, nil
}

// Update merges the provided fields into the item. Only the fields present in
// the patch are written, so concurrent edits to other fields survive.
func (s *DefaultItemService) Update(ctx context.Context, caller *models.AuthContext, input models.UpdateItemInput) error {
	item, err := s.load(ctx, input.ItemID)
	if err != nil {
		return err
	}
	if !caller.CanManage(item.OwnerID) {
		return utils.Forbidden("Not allowed to update this item.")
	}

	patch := input.Data
	if patch.Status != nil && *patch.Status == models.ItemActive && item.Status == models.ItemArchived {
		return errReactivate
	}

	err = s.Repo.ApplyPatch(ctx, item.ID, patch)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errItemNotFound
	case errors.Is(err, itemRepo.ErrItemArchived):
		return errReactivate
	}
	return err
}

// Archive moves an item to the archived status.
func (s *DefaultItemService) Archive(ctx context.Context, caller *models.AuthContext, itemID string) error {
	item, err := s.load(ctx, itemID)
	if err != nil {
		return err
	}
	if !caller.CanManage(item.OwnerID) {
		return utils.Forbidden("Not allowed to archive this item.")
	}

	if err := s.Repo.Archive(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errItemNotFound
		}
		return err
	}
	return nil
}

// AddMedia registers an image under the item's media cap.
func (s *DefaultItemService) AddMedia(ctx context.Context, caller *models.AuthContext, input models.AddItemMediaInput) (string, error) {
	media := &models.ItemMedia{
		ID:     uuid.NewString(),
		ItemID: input.ItemID,
		URL:    input.URL,
		Type:   input.Type,
	}

	err := s.Repo.AddMedia(ctx, media, func(item *models.Item) error {
		if !caller.CanManage(item.OwnerID) {
			return utils.Forbidden("Not allowed to add media to this item.")
		}
		return nil
	})
	switch {
	case err == nil:
		return media.ID, nil
	case errors.Is(err, repository.ErrNotFound):
		return "", errItemNotFound
	case errors.Is(err, itemRepo.ErrMediaLimitReached):
		return "", utils.BadRequest("Maximum media count reached for this item.")
	default:
		var httpErr *utils.HTTPError
		if errors.As(err, &httpErr) {
			return "", httpErr
		}
		return "", fmt.Errorf("add media to item %s: %w", input.ItemID, err)
	}
}

func (s *DefaultItemService) load(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.Repo.GetByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errItemNotFound
	}
	return item, err
}
