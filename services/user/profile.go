package user

import (
	"context"

	"secondlife/models"
	"secondlife/utils"

	"go.uber.org/zap"
)

// GetProfile returns the caller's profile, creating a default one on first access.
func (s *DefaultUserService) GetProfile(ctx context.Context, caller *models.AuthContext) (*models.Profile, error) {
	defaults := &models.Profile{
		ID:          caller.UID,
		DisplayName: models.DefaultDisplayName(caller.Email),
		Bio:         "",
		Preferences: map[string]any{},
	}
	return s.Profiles.GetOrCreate(ctx, defaults)
}

// UpsertProfile replaces the caller's profile fields and records their email.
func (s *DefaultUserService) UpsertProfile(ctx context.Context, caller *models.AuthContext, input models.UpsertProfileInput) error {
	if !models.ValidPreferences(input.Preferences) {
		return utils.BadRequest("Invalid input.").WithDetails([]utils.FieldIssue{{Field: "preferences", Rule: "preferences"}})
	}

	if err := s.Repo.EnsureEmail(ctx, caller.UID, caller.Email); err != nil {
		return err
	}

	profile := &models.Profile{
		ID:          caller.UID,
		DisplayName: input.DisplayName,
		LocationOpt: input.LocationOpt,
		Preferences: input.Preferences,
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if profile.Preferences == nil {
		profile.Preferences = map[string]any{}
	}
	if err := s.Profiles.Upsert(ctx, profile); err != nil {
		return err
	}
	zap.L().Debug("profile_upserted", zap.String("uid", caller.UID))
	return nil
}
