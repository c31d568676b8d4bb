package userRepo

import (
	"context"
	"errors"
	"fmt"

	"secondlife/database/repository"
	"secondlife/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a user by its uid.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// EnsureEmail sets the email and creates a plain user document when missing.
func (r *MongoUserRepo) EnsureEmail(ctx context.Context, id, email string) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":         bson.M{"email": email},
		"$setOnInsert": bson.M{"role": string(models.RoleUser), "createdAt": now()},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update email for user %s: %w", id, err)
	}
	return nil
}

// List returns up to limit users.
func (r *MongoUserRepo) List(ctx context.Context, limit int) ([]models.User, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0, limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// GetOrCreate inserts defaults when no profile exists and returns the stored document.
func (r *MongoProfileRepo) GetOrCreate(ctx context.Context, defaults *models.Profile) (*models.Profile, error) {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	prefs := defaults.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	update := bson.M{"$setOnInsert": bson.M{
		"displayName": defaults.DisplayName,
		"bio":         defaults.Bio,
		"locationOpt": defaults.LocationOpt,
		"preferences": prefs,
		"updatedAt":   now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": defaults.ID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", defaults.ID, err)
	}
	if profile.Preferences == nil {
		profile.Preferences = map[string]any{}
	}
	return &profile, nil
}

// Upsert writes every profile field.
func (r *MongoProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	ctx, cancel := repository.NewContext(ctx, repository.DefaultTimeout)
	defer cancel()

	profile.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"displayName": profile.DisplayName,
		"bio":         profile.Bio,
		"locationOpt": profile.LocationOpt,
		"preferences": profile.Preferences,
		"updatedAt":   profile.UpdatedAt,
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": profile.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", profile.ID, err)
	}
	return nil
}
