package availability

import (
	"errors"
	"time"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
)

var (
	ErrDateRequired = errors.New("availability: pickup date is required")
	ErrInvalidDays  = errors.New("availability: days must be at least 1")
)

// Reason explains a rejection.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonLedgerConflict    Reason = "conflicting booking"
	ReasonCalendarNotListed Reason = "day not listed in availability calendar"
	ReasonCarDeleted        Reason = "car removed from fleet"
)

type Decision struct {
	Available bool
	Reason    Reason
	// ConflictNumber names the overlapping booking when the ledger wins.
	ConflictNumber string
}

// Policy tunes which ledger entries count as conflicts. The zero value
// excludes cancelled and finished trips, which is what every public
// check wants; earlier revisions of the product disagreed on this and
// grew parallel check functions, so the knob is explicit now.
type Policy struct {
	ExcludeStatuses []booking.TripStatus
	// ExcludeNumbers skips specific bookings, used when re-checking a
	// booking that is itself being extended.
	ExcludeNumbers []string
}

func (p Policy) excluded(b *booking.Booking) bool {
	statuses := p.ExcludeStatuses
	if statuses == nil {
		statuses = []booking.TripStatus{booking.StatusCancelled, booking.StatusFinished}
	}
	for _, s := range statuses {
		if b.TripStatus == s {
			return true
		}
	}
	for _, n := range p.ExcludeNumbers {
		if b.Number == n {
			return true
		}
	}
	return false
}

// Resolver decides whether a car is free for a requested day range by
// combining the booking ledger and the car's availability calendar.
// Both constraints are independent and both must pass; the ledger is
// checked first and takes precedence.
type Resolver struct {
	Policy Policy
}

// Check evaluates the half-open range [from, from+days) prior to any
// booking write. from is treated as a calendar date: the time of day is
// dropped and the range starts at UTC midnight.
func (r Resolver) Check(c *car.Car, ledger []*booking.Booking, from time.Time, days int) (Decision, error) {
	if from.IsZero() {
		return Decision{}, ErrDateRequired
	}
	if days < 1 {
		return Decision{}, ErrInvalidDays
	}
	if c.Deleted {
		return Decision{Available: false, Reason: ReasonCarDeleted}, nil
	}
	requested, err := daterange.FromDays(from, days)
	if err != nil {
		return Decision{}, err
	}

	for _, b := range ledger {
		if b.Deleted || r.Policy.excluded(b) {
			continue
		}
		if requested.Overlaps(b.Range) {
			return Decision{Available: false, Reason: ReasonLedgerConflict, ConflictNumber: b.Number}, nil
		}
	}

	available := true
	requested.EachDay(func(day time.Time) bool {
		if !c.Calendar.DayAvailable(day) {
			available = false
			return false
		}
		return true
	})
	if !available {
		return Decision{Available: false, Reason: ReasonCalendarNotListed}, nil
	}
	return Decision{Available: true}, nil
}
