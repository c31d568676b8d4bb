package user

import (
	"context"
	"net/http"
	"testing"
	"time"

	"secondlife/database/repository"
	"secondlife/models"
	"secondlife/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) EnsureEmail(_ context.Context, id, email string) error {
	if u, ok := f.users[id]; ok {
		u.Email = email
		return nil
	}
	f.users[id] = &models.User{ID: id, Email: email, Role: string(models.RoleUser), CreatedAt: time.Now()}
	return nil
}

func (f *fakeUsers) List(_ context.Context, limit int) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		if len(out) == limit {
			break
		}
		out = append(out, *u)
	}
	return out, nil
}

type fakeProfiles struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfiles) GetOrCreate(_ context.Context, defaults *models.Profile) (*models.Profile, error) {
	if p, ok := f.profiles[defaults.ID]; ok {
		return p, nil
	}
	f.profiles[defaults.ID] = defaults
	return defaults, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func newService() (*DefaultUserService, *fakeUsers, *fakeProfiles) {
	users := &fakeUsers{users: map[string]*models.User{}}
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{}}
	return &DefaultUserService{Repo: users, Profiles: profiles}, users, profiles
}

var caller = &models.AuthContext{UID: "u1", Email: "camille@example.com", Role: models.RoleUser}

func TestGetProfileCreatesDefaults(t *testing.T) {
	svc, _, profiles := newService()

	profile, err := svc.GetProfile(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "camille", profile.DisplayName)
	assert.Empty(t, profile.Bio)
	assert.Nil(t, profile.LocationOpt)
	assert.NotNil(t, profile.Preferences)
	assert.Contains(t, profiles.profiles, "u1")
}

func TestGetProfileKeepsExisting(t *testing.T) {
	svc, _, profiles := newService()
	profiles.profiles["u1"] = &models.Profile{ID: "u1", DisplayName: "Cam"}

	profile, err := svc.GetProfile(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "Cam", profile.DisplayName)
}

func TestUpsertProfileRecordsEmail(t *testing.T) {
	svc, users, profiles := newService()
	bio := "Collector of old radios."

	err := svc.UpsertProfile(context.Background(), caller, models.UpsertProfileInput{
		DisplayName: "Camille",
		Bio:         &bio,
		Preferences: map[string]any{"categories": []any{"books", "audio"}, "radiusKm": float64(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, "camille@example.com", users.users["u1"].Email)
	assert.Equal(t, "Camille", profiles.profiles["u1"].DisplayName)
	assert.Equal(t, bio, profiles.profiles["u1"].Bio)
}

func TestUpsertProfileRejectsNestedPreferences(t *testing.T) {
	svc, users, _ := newService()

	err := svc.UpsertProfile(context.Background(), caller, models.UpsertProfileInput{
		DisplayName: "Camille",
		Preferences: map[string]any{"nested": map[string]any{"a": "b"}},
	})
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, users.users)
}

func TestListUsersCoercesRoles(t *testing.T) {
	svc, users, _ := newService()
	users.users["a"] = &models.User{ID: "a", Email: "a@example.com", Role: "admin", CreatedAt: time.Now()}
	users.users["b"] = &models.User{ID: "b", Email: "b@example.com", Role: "superuser"}

	summaries, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]UserSummary{}
	for _, s := range summaries {
		byID[s.UID] = s
	}
	assert.Equal(t, "admin", byID["a"].Role)
	assert.NotNil(t, byID["a"].CreatedAt)
	assert.Equal(t, "user", byID["b"].Role)
	assert.Nil(t, byID["b"].CreatedAt)
}
