package booking

import (
	"time"

	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
)

type Created struct {
	Number     string
	CarID      car.ID
	CustomerID string
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return e.Number }
func (e Created) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	Number string
	Refund money.Money
	Charge money.Money
	Reason string
	At     time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return e.Number }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type Extended struct {
	Number     string
	NewDropOff time.Time
	Total      money.Money
	At         time.Time
}

func (e Extended) EventName() string     { return "booking.extended" }
func (e Extended) AggregateID() string   { return e.Number }
func (e Extended) OccurredAt() time.Time { return e.At }

type TripStatusAdvanced struct {
	Number string
	Status TripStatus
	At     time.Time
}

func (e TripStatusAdvanced) EventName() string     { return "booking.trip_status_advanced" }
func (e TripStatusAdvanced) AggregateID() string   { return e.Number }
func (e TripStatusAdvanced) OccurredAt() time.Time { return e.At }
