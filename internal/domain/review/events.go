package review

import (
	"time"

	"fleetrent/internal/domain/car"
)

type Submitted struct {
	ReviewID   ID
	CarID      car.ID
	CustomerID string
	Stars      int
	At         time.Time
}

func (e Submitted) EventName() string     { return "review.submitted" }
func (e Submitted) AggregateID() string   { return string(e.ReviewID) }
func (e Submitted) OccurredAt() time.Time { return e.At }

type Updated struct {
	ReviewID ID
	CarID    car.ID
	Stars    int
	At       time.Time
}

func (e Updated) EventName() string     { return "review.updated" }
func (e Updated) AggregateID() string   { return string(e.ReviewID) }
func (e Updated) OccurredAt() time.Time { return e.At }
