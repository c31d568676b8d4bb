// Package auth resolves bearer tokens into caller identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"secondlife/database/repository"
	userRepo "secondlife/database/repository/user"
	"secondlife/models"
	"secondlife/utils"

	"go.uber.org/zap"
)

// VerifiedToken is the subset of ID token claims the service relies on.
type VerifiedToken struct {
	UID   string
	Email string
}

// TokenVerifier checks an ID token's signature, expiry and revocation.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*VerifiedToken, error)
}

// Resolver turns an Authorization header into an AuthContext, provisioning the
// user record on first sight.
type Resolver struct {
	verifier TokenVerifier
	users    userRepo.UserRepository
	now      func() time.Time
}

func NewResolver(verifier TokenVerifier, users userRepo.UserRepository) *Resolver {
	return &Resolver{verifier: verifier, users: users, now: time.Now}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) < 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", utils.Unauthorized("Missing bearer token.")
	}
	return parts[1], nil
}

// Resolve authenticates the caller described by header.
func (r *Resolver) Resolve(ctx context.Context, header string) (*models.AuthContext, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	verified, err := r.verifier.Verify(ctx, token)
	if err != nil {
		zap.L().Debug("token verification failed", zap.Error(err))
		return nil, utils.Unauthorized("Invalid or revoked Firebase token.")
	}
	if verified.Email == "" {
		return nil, utils.Unauthorized("Authenticated token has no email.")
	}

	role, err := r.resolveRole(ctx, verified)
	if err != nil {
		return nil, err
	}

	return &models.AuthContext{UID: verified.UID, Email: verified.Email, Role: role}, nil
}

func (r *Resolver) resolveRole(ctx context.Context, verified *VerifiedToken) (models.Role, error) {
	user, err := r.users.GetByID(ctx, verified.UID)
	if err == nil {
		return models.ParseRole(user.Role), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to load user %s: %w", verified.UID, err)
	}

	err = r.users.Create(ctx, &models.User{
		ID:        verified.UID,
		Email:     verified.Email,
		Role:      string(models.RoleUser),
		CreatedAt: r.now().UTC(),
	})
	if err == nil {
		zap.L().Info("user_provisioned", zap.String("uid", verified.UID))
		return models.RoleUser, nil
	}
	if !repository.IsDuplicateKey(err) {
		return "", fmt.Errorf("failed to provision user %s: %w", verified.UID, err)
	}

	// A concurrent first request created the record; trust what it stored.
	user, err = r.users.GetByID(ctx, verified.UID)
	if err != nil {
		return "", fmt.Errorf("failed to reload user %s: %w", verified.UID, err)
	}
	return models.ParseRole(user.Role), nil
}

// AssertAdmin fails with 403 unless the caller is an admin.
func AssertAdmin(a *models.AuthContext) error {
	if a == nil || !a.IsAdmin() {
		return utils.Forbidden("Admin role required.")
	}
	return nil
}
