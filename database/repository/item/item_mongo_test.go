package itemRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"secondlife/database/repository"
	"secondlife/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// startMongo runs a single-node replica set so transactions are available.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	return client.Database("secondlife_test")
}

func seedItem(t *testing.T, repo ItemRepository, ownerID string) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "Lampe en laiton",
		Description: "Lampe de bureau des années 70",
		Category:    "maison",
		State:       models.StateGood,
		Status:      models.ItemActive,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func newMedia(itemID string) *models.ItemMedia {
	return &models.ItemMedia{
		ID:     uuid.NewString(),
		ItemID: itemID,
		URL:    "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		Type:   "image/jpeg",
	}
}

func TestAddMediaEnforcesCapUnderConcurrency(t *testing.T) {
	repo := NewMongoItemRepo(startMongo(t))
	item := seedItem(t, repo, "owner-1")
	ctx := context.Background()

	for i := 0; i < models.MaxItemMedia-1; i++ {
		require.NoError(t, repo.AddMedia(ctx, newMedia(item.ID), nil), "media %d", i)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.AddMedia(ctx, newMedia(item.ID), nil)
		}(i)
	}
	wg.Wait()

	succeeded, capped := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrMediaLimitReached):
			capped++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, capped)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxItemMedia, stored.MediaCount)

	media, err := repo.ListMedia(ctx, item.ID, 20)
	require.NoError(t, err)
	assert.Len(t, media, models.MaxItemMedia)
}

func TestAddMediaChecksItemAndCaller(t *testing.T) {
	repo := NewMongoItemRepo(startMongo(t))
	item := seedItem(t, repo, "owner-1")
	ctx := context.Background()

	err := repo.AddMedia(ctx, newMedia("missing"), nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	denied := errors.New("not the owner")
	err = repo.AddMedia(ctx, newMedia(item.ID), func(it *models.Item) error {
		if it.OwnerID != "someone-else" {
			return denied
		}
		return nil
	})
	assert.ErrorIs(t, err, denied)

	media, err := repo.ListMedia(ctx, item.ID, 20)
	require.NoError(t, err)
	assert.NotNil(t, media)
	assert.Empty(t, media)
}

func TestListPagesByCreatedAt(t *testing.T) {
	repo := NewMongoItemRepo(startMongo(t))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seedItem(t, repo, fmt.Sprintf("owner-%d", i%2))
		time.Sleep(5 * time.Millisecond)
	}

	first, err := repo.List(ctx, models.ItemFilter{}, "", 3)
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotNil(t, first.NextCursor)

	second, err := repo.List(ctx, models.ItemFilter{}, *first.NextCursor, 3)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Nil(t, second.NextCursor)
	assert.False(t, second.Items[0].CreatedAt.After(first.Items[2].CreatedAt))

	mine, err := repo.List(ctx, models.ItemFilter{OwnerID: "owner-0"}, "", 10)
	require.NoError(t, err)
	assert.Len(t, mine.Items, 3)
}

func TestApplyPatchWritesOnlyPresentFields(t *testing.T) {
	repo := NewMongoItemRepo(startMongo(t))
	item := seedItem(t, repo, "owner-1")
	ctx := context.Background()

	require.NoError(t, repo.Archive(ctx, item.ID))

	title := "Lampe renommée"
	require.NoError(t, repo.ApplyPatch(ctx, item.ID, models.ItemPatch{Title: &title}))

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, title, stored.Title)
	assert.Equal(t, models.ItemArchived, stored.Status)
	assert.Equal(t, item.Description, stored.Description)

	active := models.ItemActive
	err = repo.ApplyPatch(ctx, item.ID, models.ItemPatch{Status: &active})
	assert.ErrorIs(t, err, ErrItemArchived)
	err = repo.ApplyPatch(ctx, "missing", models.ItemPatch{Status: &active})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemArchived, stored.Status)
}
