package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFor(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		event  string
		want   string
	}{
		{"booking event", "", "booking.cancelled", "booking.events.v1"},
		{"handover event", "", "handover.leg_completed", "handover.events.v1"},
		{"single segment", "", "booking", "booking.events.v1"},
		{"with prefix", "staging.", "booking.created", "staging.booking.events.v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Worker{TopicPrefix: tt.prefix}
			assert.Equal(t, tt.want, w.topicFor(tt.event))
		})
	}
}

func TestFormatPayload(t *testing.T) {
	occurred := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

	t.Run("wraps the event as a cloud event", func(t *testing.T) {
		w := &Worker{Source: "app://fleetrent-test"}
		doc := &EventDocument{
			Name:       "booking.created",
			Aggregate:  "CR-1",
			Payload:    []byte(`{"Number":"CR-1","CustomerID":"cust-1"}`),
			OccurredAt: occurred,
			Headers:    map[string]string{"traceparent": "00-abc-def-01"},
		}
		payload, headers, err := w.envelope(doc)
		require.NoError(t, err)
		assert.Equal(t, "application/cloudevents+json", headers["content-type"])
		assert.Equal(t, "00-abc-def-01", headers["traceparent"])

		var evt map[string]any
		require.NoError(t, json.Unmarshal(payload, &evt))
		assert.Equal(t, "1.0", evt["specversion"])
		assert.Equal(t, "booking.created.v1", evt["type"])
		assert.Equal(t, "app://fleetrent-test", evt["source"])
		assert.Equal(t, "00-abc-def-01", evt["traceparent"])
		assert.NotEmpty(t, evt["id"])
		data, ok := evt["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "CR-1", data["Number"])
	})

	t.Run("default source", func(t *testing.T) {
		w := &Worker{}
		payload, _, err := w.envelope(&EventDocument{
			Name:       "booking.created",
			Payload:    []byte(`{}`),
			OccurredAt: occurred,
		})
		require.NoError(t, err)
		var evt map[string]any
		require.NoError(t, json.Unmarshal(payload, &evt))
		assert.Equal(t, "app://fleetrent", evt["source"])
	})

	t.Run("rejects undecodable payload", func(t *testing.T) {
		w := &Worker{}
		_, _, err := w.envelope(&EventDocument{Name: "booking.created", Payload: []byte("{not json")})
		assert.Error(t, err)
	})
}

func TestNextRetry(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 10 * time.Second}}

	first := w.nextRetry(0)
	second := w.nextRetry(1)
	beyond := w.nextRetry(5)

	assert.True(t, second.After(first))
	// Past the configured ladder the last step repeats.
	assert.WithinDuration(t, second, beyond, time.Second)

	fallback := (&Worker{}).nextRetry(3)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), fallback, time.Second)
}
