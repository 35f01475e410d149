package events

import "time"

// DomainEvent is anything an aggregate records for later publication.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events on an aggregate until the
// application layer drains them into the outbox.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// BaseEvent carries the fields shared by every domain event.
type BaseEvent struct {
	Name      string
	Aggregate string
	Time      time.Time
}

func (e BaseEvent) EventName() string   { return e.Name }
func (e BaseEvent) AggregateID() string { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time {
	return e.Time
}
