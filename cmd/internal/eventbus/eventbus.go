package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event is the envelope written as the Kafka message value.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus publishes events to a topic.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NewJSONEvent encodes payload into an Event. An empty id falls back to a
// nanosecond timestamp.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{ID: id, Type: eventType, Payload: b}, nil
}

// DecodeJSON는 Event.Payload를 제네릭 타입으로 언마샬합니다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal %s payload: %w", evt.Type, err)
	}
	return out, nil
}

// NopEventBus discards every event. Used when no brokers are configured.
type NopEventBus struct{}

func (NopEventBus) Publish(context.Context, string, Event) error { return nil }
func (NopEventBus) Close()                                       {}
