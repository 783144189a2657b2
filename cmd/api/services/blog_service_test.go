package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/cmd/api/services"
	"blog-api/cmd/api/services/servicetest"
	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/eventbus"
	"blog-api/config"
	"blog-api/events"
	"blog-api/models"
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*services.BlogService, *servicetest.MemoryStore, *servicetest.RecordingBus) {
	t.Helper()
	store := servicetest.NewMemoryStore()
	bus := &servicetest.RecordingBus{}
	svc := services.NewBlogService(store, bus, config.EventsConfig{Topic: "blog.events"})
	return svc, store, bus
}

func validPatch(title, author, description string) models.BlogPatch {
	return models.BlogPatch{Title: strPtr(title), Author: strPtr(author), Description: strPtr(description)}
}

func TestCreateTrimsAndPublishes(t *testing.T) {
	svc, store, bus := newService(t)
	ctx := trace.WithRequestID(context.Background(), "req-42")

	blog, err := svc.Create(ctx, validPatch("  A ", " Bob", "D  "))
	require.NoError(t, err)

	assert.Equal(t, "A", blog.Title)
	assert.Equal(t, "Bob", blog.Author)
	assert.Equal(t, "D", blog.Description)
	assert.Zero(t, blog.Revision)
	assert.Equal(t, 1, store.Len())

	require.Equal(t, []string{string(events.BlogCreated)}, bus.Types())
	assert.Equal(t, []string{"blog.events"}, bus.Topics)
	payload, err := eventbus.DecodeJSON[events.BlogChangedEvent](bus.Events[0])
	require.NoError(t, err)
	assert.Equal(t, blog.ID, payload.BlogID.Hex())
	assert.Equal(t, "req-42", payload.RequestID)
}

func TestCreateMissingTitleStoresNothing(t *testing.T) {
	svc, store, bus := newService(t)

	_, err := svc.Create(context.Background(), models.BlogPatch{Author: strPtr("Bob"), Description: strPtr("D")})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Zero(t, store.Len())
	assert.Empty(t, bus.Events)
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, services.ErrInvalidID)
}

func TestUpdatePartialBumpsRevision(t *testing.T) {
	svc, _, bus := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, models.BlogPatch{Title: strPtr(" B ")})
	require.NoError(t, err)

	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "Bob", updated.Author)
	assert.Equal(t, "D", updated.Description)
	assert.Equal(t, created.Revision+1, updated.Revision)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, []string{string(events.BlogCreated), string(events.BlogUpdated)}, bus.Types())
}

func TestUpdateEmptyPatchLeavesRecord(t *testing.T) {
	svc, _, _ := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, models.BlogPatch{})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "data", verr.Field)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestUpdateRejectsBlankField(t *testing.T) {
	svc, _, _ := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, models.BlogPatch{Author: strPtr("   ")})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "author", verr.Field)
}

func TestUpdateErrors(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Update(context.Background(), "bad", models.BlogPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, services.ErrInvalidID)

	_, err = svc.Update(context.Background(), primitive.NewObjectID().Hex(), models.BlogPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestConcurrentUpdatesDoNotLoseRevisions(t *testing.T) {
	svc, _, _ := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Update(context.Background(), created.ID, models.BlogPatch{Description: strPtr("D2")})
		}()
	}
	wg.Wait()

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), got.Revision)
}

func TestDelete(t *testing.T) {
	svc, _, bus := newService(t)
	created, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), services.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "zzz"), services.ErrInvalidID)
	assert.Equal(t, []string{string(events.BlogCreated), string(events.BlogDeleted)}, bus.Types())
}

func TestFindByAuthor(t *testing.T) {
	svc, _, _ := newService(t)
	for _, author := range []string{"John", "Alice", "Joanna", "Bob"} {
		_, err := svc.Create(context.Background(), validPatch("t", author, "d"))
		require.NoError(t, err)
	}

	got, err := svc.FindByAuthor(context.Background(), "jo")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "John", got[0].Author)
	assert.Equal(t, "Joanna", got[1].Author)

	_, err = svc.FindByAuthor(context.Background(), "zed")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.FindByAuthor(context.Background(), "  ")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestListAscendingCreation(t *testing.T) {
	svc, _, _ := newService(t)
	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), validPatch(title, "a", "d"))
		require.NoError(t, err)
	}

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "third", got[2].Title)
	assert.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))
}

func TestStoreErrorsPropagate(t *testing.T) {
	svc, store, _ := newService(t)
	boom := errors.New("connection refused")
	store.Err = boom

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	assert.ErrorIs(t, err, boom)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store := servicetest.NewMemoryStore()
	bus := &servicetest.RecordingBus{Err: errors.New("broker down")}
	svc := services.NewBlogService(store, bus, config.EventsConfig{Topic: "t"})

	_, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestNilBusUsesNop(t *testing.T) {
	svc := services.NewBlogService(servicetest.NewMemoryStore(), nil, config.EventsConfig{})
	_, err := svc.Create(context.Background(), validPatch("A", "Bob", "D"))
	assert.NoError(t, err)
}
