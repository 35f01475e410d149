package handover

import (
	"time"

	"fleetrent/internal/domain/booking"
)

type LegCompleted struct {
	BookingNumber string
	Leg           Leg
	NewStatus     booking.TripStatus
	AgentID       string
	At            time.Time
}

func (e LegCompleted) EventName() string     { return "handover.leg_completed" }
func (e LegCompleted) AggregateID() string   { return e.BookingNumber }
func (e LegCompleted) OccurredAt() time.Time { return e.At }
