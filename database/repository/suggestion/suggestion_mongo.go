package suggestionRepo

import (
	"context"
	"fmt"
	"time"

	"secondlife/database/repository"
	"secondlife/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSuggestionRepo implements SuggestionRepository using MongoDB.
type MongoSuggestionRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSuggestionRepo creates a new instance of SuggestionRepository using MongoDB.
func NewMongoSuggestionRepo(db *mongo.Database) SuggestionRepository {
	repo := &MongoSuggestionRepo{
		client: db.Client(),
		coll:   db.Collection("aiSuggestions"),
	}

	ctx, cancel := repository.NewContext(context.Background(), repository.IndexTimeout)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "themeWeekId", Value: 1}}},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}},
	})
	if err != nil {
		zap.L().Warn("failed to create suggestion indexes", zap.Error(err))
	}
	return repo
}

// CountByTheme counts a theme's suggestions up to limit.
func (r *MongoSuggestionRepo) CountByTheme(ctx context.Context, themeWeekID string, limit int) (int, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"themeWeekId": themeWeekID},
		options.Count().SetLimit(int64(limit)))
	if err != nil {
		return 0, fmt.Errorf("failed to count suggestions for theme %s: %w", themeWeekID, err)
	}
	return int(n), nil
}

// InsertBatch writes all suggestions in one transaction.
func (r *MongoSuggestionRepo) InsertBatch(ctx context.Context, suggestions []models.AISuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	ctx, cancel := repository.NewContext(ctx, 15*time.Second)
	defer cancel()

	ts := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(suggestions))
	for i := range suggestions {
		if suggestions[i].CreatedAt.IsZero() {
			suggestions[i].CreatedAt = ts
		}
		docs[i] = suggestions[i]
	}

	err := repository.WithTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to insert suggestions: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("suggestion batch transaction failed: %w", err)
	}
	return nil
}

// List pages suggestions.
func (r *MongoSuggestionRepo) List(ctx context.Context, filter models.SuggestionFilter, cursor string, limit int) (repository.Page[models.AISuggestion], error) {
	query := bson.M{"published": filter.Published}
	if filter.ThemeWeekID != "" {
		query["themeWeekId"] = filter.ThemeWeekID
	}
	return repository.FindPage(ctx, r.coll, repository.PageQuery{
		Filter:    query,
		SortField: "createdAt",
		Cursor:    cursor,
		Limit:     limit,
	}, func(s models.AISuggestion) string { return s.ID })
}

// Approve publishes a suggestion and records the approver.
func (r *MongoSuggestionRepo) Approve(ctx context.Context, id, approverID string) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"published": true, "approvedBy": approverID}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to approve suggestion %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a suggestion.
func (r *MongoSuggestionRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete suggestion %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
