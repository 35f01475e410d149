package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentNotification struct {
	To       string
	Template string
}

type recordingNotifier struct {
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, to, template string, data any) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{To: to, Template: template})
	return nil
}

func message(payload string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: []byte(payload)}
}

func TestEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("booking created notifies the customer", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := EventHandler{Notifier: notifier}

		err := h.Handle(ctx, message(`{"type":"booking.created.v1","data":{"Number":"CR-1","CustomerID":"cust-1"}}`))
		require.NoError(t, err)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "cust-1", notifier.sent[0].To)
		assert.Equal(t, "booking_confirmed", notifier.sent[0].Template)
	})

	t.Run("handover update prefers customer over agent", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := EventHandler{Notifier: notifier}

		err := h.Handle(ctx, message(`{"type":"handover.leg_completed.v1","data":{"CustomerID":"cust-1","AgentID":"agent-1"}}`))
		require.NoError(t, err)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "cust-1", notifier.sent[0].To)
		assert.Equal(t, "handover_update", notifier.sent[0].Template)
	})

	t.Run("falls back to the agent", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := EventHandler{Notifier: notifier}

		err := h.Handle(ctx, message(`{"type":"handover.leg_completed.v1","data":{"AgentID":"agent-1"}}`))
		require.NoError(t, err)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "agent-1", notifier.sent[0].To)
	})

	t.Run("unknown event type is consumed silently", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := EventHandler{Notifier: notifier}

		err := h.Handle(ctx, message(`{"type":"booking.trip_status_advanced.v1","data":{"CustomerID":"cust-1"}}`))
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})

	t.Run("malformed payload is consumed, not retried", func(t *testing.T) {
		h := EventHandler{Notifier: &recordingNotifier{}}
		assert.NoError(t, h.Handle(ctx, message(`{not json`)))
	})

	t.Run("missing recipient is consumed", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := EventHandler{Notifier: notifier}

		err := h.Handle(ctx, message(`{"type":"booking.created.v1","data":{"Number":"CR-1"}}`))
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})

	t.Run("delivery failure is retried", func(t *testing.T) {
		h := EventHandler{Notifier: &recordingNotifier{err: errors.New("push gateway down")}}
		err := h.Handle(ctx, message(`{"type":"booking.created.v1","data":{"CustomerID":"cust-1"}}`))
		assert.Error(t, err)
	})
}
