package userRepo

import (
	"context"

	"secondlife/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by uid. Returns repository.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Create inserts a new user record. A concurrent insert of the same uid
	// surfaces as a duplicate key error.
	Create(ctx context.Context, user *models.User) error
	// EnsureEmail records the email on the user, creating a plain user if needed.
	EnsureEmail(ctx context.Context, id, email string) error
	// List returns up to limit users.
	List(ctx context.Context, limit int) ([]models.User, error)
}

// ProfileRepository defines methods for profile data access.
type ProfileRepository interface {
	// GetOrCreate returns the stored profile, inserting defaults first when absent.
	GetOrCreate(ctx context.Context, defaults *models.Profile) (*models.Profile, error)
	// Upsert writes the profile fields, creating the document when needed.
	Upsert(ctx context.Context, profile *models.Profile) error
}
