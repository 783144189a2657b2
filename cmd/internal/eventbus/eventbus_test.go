package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	BlogID string `json:"blog_id"`
	Rev    int64  `json:"revision"`
}

func TestNewJSONEventAndDecode(t *testing.T) {
	evt, err := NewJSONEvent("evt-1", "blog.updated", samplePayload{BlogID: "abc", Rev: 2})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", evt.ID)
	assert.Equal(t, "blog.updated", evt.Type)

	out, err := DecodeJSON[samplePayload](evt)
	require.NoError(t, err)
	assert.Equal(t, samplePayload{BlogID: "abc", Rev: 2}, out)
}

func TestNewJSONEventGeneratesID(t *testing.T) {
	evt, err := NewJSONEvent("", "blog.created", map[string]string{})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
}

func TestNewJSONEventRejectsUnmarshalablePayload(t *testing.T) {
	_, err := NewJSONEvent("x", "blog.created", make(chan int))
	assert.Error(t, err)
}

func TestNopEventBus(t *testing.T) {
	var bus EventBus = NopEventBus{}
	assert.NoError(t, bus.Publish(context.Background(), "topic", Event{ID: "1"}))
	bus.Close()
}
