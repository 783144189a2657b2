package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/cmd/api/dto"
	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/eventbus"
	"blog-api/cmd/internal/logger"
	"blog-api/config"
	"blog-api/events"
	"blog-api/models"
)

var (
	// ErrInvalidID is returned for ids that are not 24-character ObjectID hex strings.
	ErrInvalidID = errors.New("invalid blog id")
	// ErrNotFound is returned when no post matches.
	ErrNotFound = errors.New("blog not found")
)

// BlogStore is the data-access layer used by BlogService.
// repositories.BlogRepository implements it against MongoDB.
type BlogStore interface {
	Insert(ctx context.Context, b *models.BlogPost) error
	FindAll(ctx context.Context) ([]models.BlogPost, error)
	FindByAuthor(ctx context.Context, pattern string) ([]models.BlogPost, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, bool, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.BlogPatch) (*models.BlogPost, bool, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// BlogService encapsulates post validation, store access, DTO mapping and
// lifecycle event publishing.
type BlogService struct {
	store          BlogStore
	bus            eventbus.EventBus
	topic          string
	publishTimeout time.Duration
}

func NewBlogService(store BlogStore, bus eventbus.EventBus, cfg config.EventsConfig) *BlogService {
	if bus == nil {
		bus = eventbus.NopEventBus{}
	}
	return &BlogService{
		store:          store,
		bus:            bus,
		topic:          cfg.Topic,
		publishTimeout: cfg.PublishTimeout,
	}
}

func parseID(hexID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

func toDTOs(items []models.BlogPost) []dto.BlogDTO {
	out := make([]dto.BlogDTO, 0, len(items))
	for _, b := range items {
		out = append(out, dto.NewBlogDTO(b))
	}
	return out
}

// List returns every post in ascending creation order.
func (s *BlogService) List(ctx context.Context) ([]dto.BlogDTO, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

// GetByID loads a post by its ObjectID hex.
func (s *BlogService) GetByID(ctx context.Context, hexID string) (*dto.BlogDTO, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	b, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	d := dto.NewBlogDTO(*b)
	return &d, nil
}

// FindByAuthor returns posts whose author contains name, ignoring case.
// An empty result is reported as ErrNotFound.
func (s *BlogService) FindByAuthor(ctx context.Context, name string) ([]dto.BlogDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "is required"}
	}
	items, err := s.store.FindByAuthor(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return toDTOs(items), nil
}

// Create validates and stores a new post.
func (s *BlogService) Create(ctx context.Context, patch models.BlogPatch) (*dto.BlogDTO, error) {
	b, err := patch.NewBlogPost()
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewBlogChangedEvent(events.BlogCreated, b, trace.RequestIDFromContext(ctx)))
	d := dto.NewBlogDTO(*b)
	return &d, nil
}

// Update merges the supplied fields and bumps the revision.
func (s *BlogService) Update(ctx context.Context, hexID string, patch models.BlogPatch) (*dto.BlogDTO, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, &models.ValidationError{Field: "data", Reason: "must contain at least one field to update"}
	}
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	b, ok, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.publish(ctx, events.NewBlogChangedEvent(events.BlogUpdated, b, trace.RequestIDFromContext(ctx)))
	d := dto.NewBlogDTO(*b)
	return &d, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, hexID string) error {
	id, err := parseID(hexID)
	if err != nil {
		return err
	}
	ok, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.publish(ctx, events.NewBlogDeletedEvent(id, trace.RequestIDFromContext(ctx)))
	return nil
}

// publish sends a lifecycle event after the store mutation committed.
// Failures are logged only; the mutation already succeeded.
func (s *BlogService) publish(ctx context.Context, evt events.BlogChangedEvent) {
	msg, err := eventbus.NewJSONEvent(evt.ID, string(evt.Type), evt)
	if err != nil {
		logger.Log.Errorf("build event %s: %v", evt.Type, err)
		return
	}

	pubCtx := context.WithoutCancel(ctx)
	if s.publishTimeout > 0 {
		var cancel context.CancelFunc
		pubCtx, cancel = context.WithTimeout(pubCtx, s.publishTimeout)
		defer cancel()
	}
	if err := s.bus.Publish(pubCtx, s.topic, msg); err != nil {
		logger.ErrorWithFields("failed to publish blog event", logger.Fields{
			"event_id":   evt.ID,
			"event_type": string(evt.Type),
			"blog_id":    evt.BlogID.Hex(),
			"request_id": evt.RequestID,
			"error":      err.Error(),
		})
	}
}
