// Package servicetest provides in-memory collaborators for exercising
// BlogService and the HTTP handlers without a running MongoDB or Kafka.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/cmd/internal/eventbus"
	"blog-api/models"
)

// MemoryStore mirrors repositories.BlogRepository semantics in memory.
type MemoryStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.BlogPost
	clock time.Time

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: map[primitive.ObjectID]models.BlogPost{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so creation order is deterministic.
func (m *MemoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *MemoryStore) Insert(_ context.Context, b *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	now := m.tick()
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Revision = 0
	m.posts[b.ID] = *b
	return nil
}

func (m *MemoryStore) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	return m.filter(func(models.BlogPost) bool { return true })
}

func (m *MemoryStore) FindByAuthor(_ context.Context, pattern string) ([]models.BlogPost, error) {
	pattern = strings.ToLower(pattern)
	return m.filter(func(b models.BlogPost) bool {
		return strings.Contains(strings.ToLower(b.Author), pattern)
	})
}

func (m *MemoryStore) filter(keep func(models.BlogPost) bool) ([]models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.BlogPost, 0, len(m.posts))
	for _, b := range m.posts {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.BlogPost, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	b, ok := m.posts[id]
	if !ok {
		return nil, false, nil
	}
	return &b, true, nil
}

func (m *MemoryStore) UpdateByID(_ context.Context, id primitive.ObjectID, patch models.BlogPatch) (*models.BlogPost, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	b, ok := m.posts[id]
	if !ok {
		return nil, false, nil
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	b.UpdatedAt = m.tick()
	b.Revision++
	m.posts[id] = b
	return &b, true, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

// Len reports the number of stored posts.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

// RecordingBus is an eventbus.EventBus that keeps every published event.
type RecordingBus struct {
	mu     sync.Mutex
	Events []eventbus.Event
	Topics []string
	Err    error
}

func (r *RecordingBus) Publish(_ context.Context, topic string, event eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Topics = append(r.Topics, topic)
	r.Events = append(r.Events, event)
	return nil
}

func (r *RecordingBus) Close() {}

// Types returns the published event types in order.
func (r *RecordingBus) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
