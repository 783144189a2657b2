package events

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	BlogCreated EventType = "blog.created"
	BlogUpdated EventType = "blog.updated"
	BlogDeleted EventType = "blog.deleted"
)

const (
	SourceAPI     = "api"
	SchemaVersion = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	RequestID string    `json:"request_id,omitempty"`
}

func (e BaseEvent) GetType() EventType {
	return e.Type
}

// NewBaseEvent stamps a fresh id and timestamp.
func NewBaseEvent(t EventType, requestID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    SourceAPI,
		Version:   SchemaVersion,
		RequestID: requestID,
	}
}

// BlogChangedEvent is published after a post was created, updated or deleted.
// For deletions only BlogID is set.
type BlogChangedEvent struct {
	BaseEvent
	BlogID   primitive.ObjectID `json:"blog_id"`
	Title    string             `json:"title,omitempty"`
	Author   string             `json:"author,omitempty"`
	Revision int64              `json:"revision"`
}

// NewBlogChangedEvent builds the event for a stored post.
func NewBlogChangedEvent(t EventType, b *models.BlogPost, requestID string) BlogChangedEvent {
	return BlogChangedEvent{
		BaseEvent: NewBaseEvent(t, requestID),
		BlogID:    b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Revision:  b.Revision,
	}
}

// NewBlogDeletedEvent builds the event for a removed post.
func NewBlogDeletedEvent(id primitive.ObjectID, requestID string) BlogChangedEvent {
	return BlogChangedEvent{
		BaseEvent: NewBaseEvent(BlogDeleted, requestID),
		BlogID:    id,
	}
}
