package ecoRepo

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

// MongoEcoRepo implements EcoRepository using MongoDB.
type MongoEcoRepo struct {
	contentColl *mongo.Collection
	viewColl    *mongo.Collection
}

// NewMongoEcoRepo creates a new instance of EcoRepository using MongoDB.
func NewMongoEcoRepo(db *mongo.Database) EcoRepository {
	repo := &MongoEcoRepo{
		contentColl: db.Collection("ecoContents"),
		viewColl:    db.Collection("ecoViews"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create eco indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoEcoRepo) ensureIndexes() error {
	ctx, cancel := repository.NewContext(context.Background(), repository.IndexTimeout)
	defer cancel()

	contentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "publishedAt", Value: -1}, {Key: "id", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := r.contentColl.Indexes().CreateMany(ctx, contentIndexes); err != nil {
		return fmt.Errorf("failed to create eco content indexes: %w", err)
	}
	viewIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "contentId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	if _, err := r.viewColl.Indexes().CreateMany(ctx, viewIndexes); err != nil {
		return fmt.Errorf("failed to create eco view indexes: %w", err)
	}
	return nil
}

func buildFilter(filter models.EcoFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.ThemeWeekID != "" {
		query["themeWeekId"] = filter.ThemeWeekID
	}
	if filter.Lang != "" {
		query["lang"] = filter.Lang
	}
	return query
}

// Create inserts a new eco content document.
func (r *MongoEcoRepo) Create(ctx context.Context, content *models.EcoContent) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	content.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.contentColl.InsertOne(ctx, content); err != nil {
		return fmt.Errorf("failed to create eco content: %w", err)
	}
	return nil
}

// GetByID retrieves eco content by id.
func (r *MongoEcoRepo) GetByID(ctx context.Context, id string) (*models.EcoContent, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	var content models.EcoContent
	if err := r.contentColl.FindOne(ctx, bson.M{"id": id}).Decode(&content); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch eco content with id %s: %w", id, err)
	}
	return &content, nil
}

// ListPublished pages publicly visible content.
func (r *MongoEcoRepo) ListPublished(ctx context.Context, filter models.EcoFilter, at time.Time, cursor string, limit int) (repository.Page[models.EcoContent], error) {
	query := buildFilter(filter)
	query["publishedAt"] = bson.M{"$lte": at}

	return repository.FindPage(ctx, r.contentColl, repository.PageQuery{
		Filter:    query,
		SortField: "publishedAt",
		Cursor:    cursor,
		Limit:     limit,
	}, func(c models.EcoContent) string { return c.ID })
}

// ListAll pages every content regardless of publication.
func (r *MongoEcoRepo) ListAll(ctx context.Context, filter models.EcoFilter, cursor string, limit int) (repository.Page[models.EcoContent], error) {
	return repository.FindPage(ctx, r.contentColl, repository.PageQuery{
		Filter:    buildFilter(filter),
		SortField: "createdAt",
		Cursor:    cursor,
		Limit:     limit,
	}, func(c models.EcoContent) string { return c.ID })
}

// RecordView appends a view event.
func (r *MongoEcoRepo) RecordView(ctx context.Context, view *models.EcoView) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	view.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.viewColl.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("failed to record eco view: %w", err)
	}
	return nil
}
