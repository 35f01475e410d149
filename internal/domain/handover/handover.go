package handover

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/car"
)

var (
	ErrNotFound            = errors.New("handover: record not found")
	ErrUnknownLeg          = errors.New("handover: unknown leg")
	ErrSignatureRequired   = errors.New("handover: signature image is required")
	ErrSignatureFormat     = errors.New("handover: signature image format not accepted")
	ErrDefectsRequired     = errors.New("handover: defect annotations are required")
	ErrOdometerRequired    = errors.New("handover: odometer reading must not be negative")
	ErrFuelLevelOutOfRange = errors.New("handover: fuel level must be between 0 and 100")
	ErrLegNotAllowed       = errors.New("handover: leg not allowed from current trip status")
)

// Leg is one of the four custody transfers in a booking's fulfilment.
type Leg string

const (
	LegCompanyToAgent  Leg = "company_to_agent"
	LegAgentToCustomer Leg = "agent_to_customer"
	LegCustomerToAgent Leg = "customer_to_agent"
	LegAgentToCompany  Leg = "agent_to_company"
)

// legRule maps a leg onto the booking trip-status machine: the statuses
// it may start from and the status it advances the booking to.
type legRule struct {
	from []booking.TripStatus
	to   booking.TripStatus
}

var legRules = map[Leg]legRule{
	LegCompanyToAgent:  {from: []booking.TripStatus{booking.StatusUpcoming}, to: booking.StatusDelivering},
	LegAgentToCustomer: {from: []booking.TripStatus{booking.StatusDelivering}, to: booking.StatusInProgress},
	LegCustomerToAgent: {from: []booking.TripStatus{booking.StatusInProgress}, to: booking.StatusDelivering},
	LegAgentToCompany:  {from: []booking.TripStatus{booking.StatusDelivering}, to: booking.StatusFinished},
}

// ParseLeg validates a wire-level leg name.
func ParseLeg(raw string) (Leg, error) {
	leg := Leg(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := legRules[leg]; !ok {
		return "", ErrUnknownLeg
	}
	return leg, nil
}

// NextStatus returns the trip status the leg advances a booking to.
func (l Leg) NextStatus() (booking.TripStatus, error) {
	rule, ok := legRules[l]
	if !ok {
		return "", ErrUnknownLeg
	}
	return rule.to, nil
}

// AllowedFrom reports whether the leg may start from the given status.
func (l Leg) AllowedFrom(status booking.TripStatus) bool {
	rule, ok := legRules[l]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == status {
			return true
		}
	}
	return false
}

// Apply advances the booking through the leg, rejecting the transition
// if the current status does not permit it.
func (l Leg) Apply(b *booking.Booking, now time.Time) error {
	if !l.AllowedFrom(b.TripStatus) {
		return ErrLegNotAllowed
	}
	next, err := l.NextStatus()
	if err != nil {
		return err
	}
	return b.Advance(next, now)
}

// DefectPoint is one annotated blemish observed during a custody transfer.
type DefectPoint struct {
	Area        string `json:"area"`
	Description string `json:"description"`
}

// ImageRef points at an uploaded artifact by generated object name.
type ImageRef struct {
	Name        string
	ContentType string
}

func (r ImageRef) Empty() bool { return r.Name == "" }

// Record is the persisted evidence that one leg has been completed.
// Re-submitting the same booking-number+leg overwrites the record; that
// idempotence is the repository's contract, not the caller's.
type Record struct {
	BookingNumber string
	Leg           Leg
	CarID         car.ID
	CompanyID     car.CompanyID
	CustomerID    string
	AgentID       string
	Defects       []DefectPoint
	OdometerKM    int
	FuelPercent   int
	Notes         string
	Signature     ImageRef
	DefectGallery []ImageRef
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByBookingAndLeg(ctx context.Context, number string, leg Leg) (*Record, error)
	// Upsert writes the record, replacing any prior record for the same
	// booking number and leg.
	Upsert(ctx context.Context, rec *Record) error
	ListByBooking(ctx context.Context, number string) ([]*Record, error)
}
