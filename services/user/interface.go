package user

import (
	"context"

	userRepo "secondlife/database/repository/user"
	"secondlife/models"
)

// AdminListLimit bounds the admin user listing.
const AdminListLimit = 50

type UserService interface {
	// Profile
	GetProfile(ctx context.Context, caller *models.AuthContext) (*models.Profile, error)
	UpsertProfile(ctx context.Context, caller *models.AuthContext, input models.UpsertProfileInput) error

	// Admin / Utility
	ListUsers(ctx context.Context) ([]UserSummary, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Profiles userRepo.ProfileRepository
}

// UserSummary is the admin view of a user record.
type UserSummary struct {
	UID       string  `json:"uid"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CreatedAt *string `json:"createdAt"`
}
