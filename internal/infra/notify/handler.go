package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"fleetrent/internal/app/policies"
)

// envelope is the CloudEvents shape the outbox worker publishes.
type envelope struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// templates maps event types to notification templates. Events without
// an entry are acknowledged and dropped.
var templates = map[string]string{
	"booking.created.v1":        "booking_confirmed",
	"booking.cancelled.v1":      "booking_cancelled",
	"booking.extended.v1":       "booking_extended",
	"handover.leg_completed.v1": "handover_update",
}

// EventHandler consumes booking lifecycle events and fans them out to
// the notifier. Unknown event types and malformed payloads are marked
// consumed, a redelivery would not fix either.
type EventHandler struct {
	Notifier policies.Notifier
	Logger   *slog.Logger
}

func (h EventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt envelope
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.logger().WarnContext(ctx, "notification event undecodable",
			slog.String("topic", msg.Topic), slog.Any("error", err))
		return nil
	}
	template, ok := templates[evt.Type]
	if !ok {
		return nil
	}
	to := recipient(evt.Data)
	if to == "" {
		h.logger().WarnContext(ctx, "notification event without recipient",
			slog.String("type", evt.Type))
		return nil
	}
	if err := h.Notifier.Send(ctx, to, template, evt.Data); err != nil {
		h.logger().ErrorContext(ctx, "notification delivery failed",
			slog.String("type", evt.Type), slog.String("to", to), slog.Any("error", err))
		return err
	}
	return nil
}

func recipient(data map[string]any) string {
	for _, key := range []string{"CustomerID", "AgentID"} {
		if v, ok := data[key].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (h EventHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
