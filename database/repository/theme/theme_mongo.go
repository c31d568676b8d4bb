package themeRepo

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

// lockID names the document every theme creation bumps, so overlapping
// transactions conflict instead of both inserting.
const lockID = "themeWeeks"

// MongoThemeRepo implements ThemeRepository using MongoDB.
type MongoThemeRepo struct {
	client   *mongo.Client
	coll     *mongo.Collection
	lockColl *mongo.Collection
}

// NewMongoThemeRepo creates a new instance of ThemeRepository using MongoDB.
func NewMongoThemeRepo(db *mongo.Database) ThemeRepository {
	repo := &MongoThemeRepo{
		client:   db.Client(),
		coll:     db.Collection("themeWeeks"),
		lockColl: db.Collection("locks"),
	}

	ctx, cancel := repository.NewContext(context.Background(), repository.IndexTimeout)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "weekStart", Value: -1}, {Key: "id", Value: -1}}},
	})
	if err != nil {
		zap.L().Warn("failed to create theme indexes", zap.Error(err))
	}
	// Transactions cannot create collections on older servers.
	_, err = repo.lockColl.UpdateOne(ctx, bson.M{"id": lockID},
		bson.M{"$setOnInsert": bson.M{"version": 0}}, options.Update().SetUpsert(true))
	if err != nil {
		zap.L().Warn("failed to seed theme lock", zap.Error(err))
	}
	return repo
}

// StartedBy returns themes whose week has started by at.
func (r *MongoThemeRepo) StartedBy(ctx context.Context, at time.Time, limit int) ([]models.ThemeWeek, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "weekStart", Value: -1}, {Key: "id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"weekStart": bson.M{"$lte": at}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query theme weeks: %w", err)
	}
	defer cursor.Close(ctx)

	themes := make([]models.ThemeWeek, 0, limit)
	if err := cursor.All(ctx, &themes); err != nil {
		return nil, fmt.Errorf("failed to decode theme weeks: %w", err)
	}
	return themes, nil
}

// List pages theme weeks.
func (r *MongoThemeRepo) List(ctx context.Context, cursor string, limit int) (repository.Page[models.ThemeWeek], error) {
	return repository.FindPage(ctx, r.coll, repository.PageQuery{
		SortField: "weekStart",
		Cursor:    cursor,
		Limit:     limit,
	}, func(t models.ThemeWeek) string { return t.ID })
}

// CreateExclusive checks candidates and inserts theme in one transaction.
func (r *MongoThemeRepo) CreateExclusive(ctx context.Context, theme *models.ThemeWeek, check func([]models.ThemeWeek) error) error {
	ctx, cancel := repository.NewContext(ctx, 10*time.Second)
	defer cancel()

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.lockColl.UpdateOne(sc, bson.M{"id": lockID}, bson.M{"$inc": bson.M{"version": 1}},
			options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("failed to acquire theme lock: %w", err)
		}

		cursor, err := r.coll.Find(sc, bson.M{"weekStart": bson.M{"$lte": theme.WeekEnd}},
			options.Find().SetSort(bson.D{{Key: "weekStart", Value: -1}}))
		if err != nil {
			return fmt.Errorf("failed to query overlap candidates: %w", err)
		}
		var candidates []models.ThemeWeek
		if err := cursor.All(sc, &candidates); err != nil {
			return fmt.Errorf("failed to decode overlap candidates: %w", err)
		}
		if err := check(candidates); err != nil {
			return err
		}

		theme.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		if _, err := r.coll.InsertOne(sc, theme); err != nil {
			return fmt.Errorf("failed to create theme week: %w", err)
		}
		return nil
	}

	if err := repository.WithTransaction(ctx, r.client, txnFn); err != nil {
		return fmt.Errorf("create theme transaction failed: %w", err)
	}
	return nil
}
