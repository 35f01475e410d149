package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker drains the outbox store on a fixed tick and relays claimed
// events to the broker in CloudEvents form. A record that fails to
// publish is rescheduled on the backoff ladder and retried; nothing is
// dropped.
type Worker struct {
	Store       *Store
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
}

// drainBatchSize bounds how many records one tick may relay, so a
// backlog cannot starve the poll loop of context cancellation checks.
const drainBatchSize = 32

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain claims and relays pending records until the store runs dry or
// the batch cap is hit.
func (w *Worker) drain(ctx context.Context) error {
	for i := 0; i < drainBatchSize; i++ {
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		w.relay(ctx, doc)
	}
	return nil
}

func (w *Worker) relay(ctx context.Context, doc *EventDocument) {
	payload, headers, err := w.envelope(doc)
	if err != nil {
		w.reschedule(ctx, doc, err)
		return
	}
	if err := w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, headers); err != nil {
		w.reschedule(ctx, doc, err)
		return
	}
	if err := w.Store.MarkSent(ctx, doc.ID); err != nil && w.Logger != nil {
		w.Logger.Warn("outbox mark sent failed", "event", doc.Name, "id", doc.ID, "error", err)
	}
}

func (w *Worker) reschedule(ctx context.Context, doc *EventDocument, cause error) {
	if w.Logger != nil {
		w.Logger.Warn("outbox relay failed",
			"event", doc.Name, "id", doc.ID, "attempts", doc.Attempts, "error", cause)
	}
	_ = w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), cause.Error())
}

// envelope wraps the stored domain payload as a structured CloudEvent.
// A traceparent header recorded at write time rides along so consumers
// can stitch the trace back together.
func (w *Worker) envelope(doc *EventDocument) ([]byte, map[string]string, error) {
	if doc.Headers == nil {
		doc.Headers = map[string]string{}
	}
	data := map[string]any{}
	if err := json.Unmarshal(doc.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            doc.Name + ".v1",
		"source":          w.source(),
		"time":            doc.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := doc.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
	}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

// topicFor derives the topic from the event name's first segment:
// "booking.cancelled" publishes to "booking.events.v1".
func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if w.TopicPrefix != "" {
		topic = w.TopicPrefix + topic
	}
	return topic
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return uuid.NewString()
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://fleetrent"
}
