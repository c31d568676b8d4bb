package itemRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondlife/database/repository"
	"secondlife/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoItemRepo implements ItemRepository using MongoDB.
type MongoItemRepo struct {
	client    *mongo.Client
	itemColl  *mongo.Collection
	mediaColl *mongo.Collection
}

// NewMongoItemRepo creates a new instance of ItemRepository using MongoDB.
func NewMongoItemRepo(db *mongo.Database) ItemRepository {
	repo := &MongoItemRepo{
		client:    db.Client(),
		itemColl:  db.Collection("items"),
		mediaColl: db.Collection("itemMedia"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create item indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoItemRepo) ensureIndexes() error {
	ctx, cancel := repository.NewContext(context.Background(), repository.IndexTimeout)
	defer cancel()

	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.itemColl.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}

	mediaIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "itemId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.mediaColl.Indexes().CreateMany(ctx, mediaIndexes); err != nil {
		return fmt.Errorf("failed to create item media indexes: %w", err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create inserts a new item document.
func (r *MongoItemRepo) Create(ctx context.Context, item *models.Item) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	ts := now()
	item.CreatedAt = ts
	item.UpdatedAt = ts
	if _, err := r.itemColl.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its id.
func (r *MongoItemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	var item models.Item
	if err := r.itemColl.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch item with id %s: %w", id, err)
	}
	return &item, nil
}

// List pages items by creation time.
func (r *MongoItemRepo) List(ctx context.Context, filter models.ItemFilter, cursor string, limit int) (repository.Page[models.Item], error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["ownerId"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	return repository.FindPage(ctx, r.itemColl, repository.PageQuery{
		Filter:    query,
		SortField: "createdAt",
		Cursor:    cursor,
		Limit:     limit,
	}, func(it models.Item) string { return it.ID })
}

func patchFields(patch models.ItemPatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.ThemeWeekID.Set {
		set["themeWeekId"] = patch.ThemeWeekID.Value
	}
	return set
}

// ApplyPatch merges the present patch fields into the stored item.
func (r *MongoItemRepo) ApplyPatch(ctx context.Context, id string, patch models.ItemPatch) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	set := patchFields(patch)
	set["updatedAt"] = now()

	filter := bson.M{"id": id}
	reactivating := patch.Status != nil && *patch.Status == models.ItemActive
	if reactivating {
		filter["status"] = bson.M{"$ne": models.ItemArchived}
	}

	result, err := r.itemColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update item with id %s: %w", id, err)
	}
	if result.MatchedCount > 0 {
		return nil
	}
	if !reactivating {
		return repository.ErrNotFound
	}

	n, err := r.itemColl.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to check item with id %s: %w", id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return ErrItemArchived
}

// Archive sets the archived status.
func (r *MongoItemRepo) Archive(ctx context.Context, id string) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": models.ItemArchived, "updatedAt": now()}}
	result, err := r.itemColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to archive item with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListMedia returns the newest media of an item.
func (r *MongoItemRepo) ListMedia(ctx context.Context, itemID string, limit int) ([]models.ItemMedia, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.mediaColl.Find(ctx, bson.M{"itemId": itemID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list media for item %s: %w", itemID, err)
	}
	defer cursor.Close(ctx)

	media := make([]models.ItemMedia, 0, limit)
	if err := cursor.All(ctx, &media); err != nil {
		return nil, fmt.Errorf("failed to decode media for item %s: %w", itemID, err)
	}
	return media, nil
}

// AddMedia registers media under the item's cap inside a transaction.
func (r *MongoItemRepo) AddMedia(ctx context.Context, media *models.ItemMedia, authorize func(*models.Item) error) error {
	ctx, cancel := repository.NewContext(ctx, 10*time.Second)
	defer cancel()

	txnFn := func(sc mongo.SessionContext) error {
		var item models.Item
		if err := r.itemColl.FindOne(sc, bson.M{"id": media.ItemID}).Decode(&item); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to fetch item with id %s: %w", media.ItemID, err)
		}
		if authorize != nil {
			if err := authorize(&item); err != nil {
				return err
			}
		}
		if item.MediaCount >= models.MaxItemMedia {
			return ErrMediaLimitReached
		}

		ts := now()
		filter := bson.M{"id": media.ItemID, "mediaCount": bson.M{"$lt": models.MaxItemMedia}}
		update := bson.M{
			"$inc": bson.M{"mediaCount": 1},
			"$set": bson.M{"updatedAt": ts},
		}
		res, err := r.itemColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to increment media count: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrMediaLimitReached
		}

		media.CreatedAt = ts
		if _, err := r.mediaColl.InsertOne(sc, media); err != nil {
			return fmt.Errorf("failed to insert item media: %w", err)
		}
		return nil
	}

	if err := repository.WithTransaction(ctx, r.client, txnFn); err != nil {
		return fmt.Errorf("add media transaction failed: %w", err)
	}
	return nil
}
