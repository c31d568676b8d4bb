package user

import (
	"context"
	"time"

	"secondlife/models"
)

// ListUsers returns the first users for the admin console.
func (s *DefaultUserService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.Repo.List(ctx, AdminListLimit)
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{UID: u.ID, Email: u.Email, Role: string(models.ParseRole(u.Role))}
		if !u.CreatedAt.IsZero() {
			created := u.CreatedAt.UTC().Format(time.RFC3339Nano)
			summary.CreatedAt = &created
		}
		out = append(out, summary)
	}
	return out, nil
}
