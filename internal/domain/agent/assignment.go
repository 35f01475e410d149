package agent

import (
	"context"
	"errors"
	"time"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/car"
)

var (
	ErrAssignmentNotFound = errors.New("agent: assignment not found")
	ErrAgentRequired      = errors.New("agent: agent id is required")
	ErrBookingRequired    = errors.New("agent: booking number is required")
)

// Assignment ties an agent to a booking's delivery and collection work.
// Its TripStatus mirrors the booking's; the two are kept in sync by
// separate writes, booking first, so the assignment is a denormalized
// read view and may briefly lag.
type Assignment struct {
	ID            string
	BookingNumber string
	AgentID       string
	CarID         car.ID
	CompanyID     car.CompanyID
	TripStatus    booking.TripStatus
	AssignedAt    time.Time
	UpdatedAt     time.Time
	Deleted       bool
}

type Repository interface {
	ByBookingNumber(ctx context.Context, number string) (*Assignment, error)
	Save(ctx context.Context, a *Assignment) error
	ListByAgent(ctx context.Context, agentID string) ([]*Assignment, error)
	// SyncTripStatus updates the mirrored status for a booking's
	// assignment, reporting ErrAssignmentNotFound when none exists.
	SyncTripStatus(ctx context.Context, number string, status booking.TripStatus) error
}

type CreateParams struct {
	ID            string
	BookingNumber string
	AgentID       string
	CarID         car.ID
	CompanyID     car.CompanyID
	AssignedAt    time.Time
}

func New(params CreateParams) (*Assignment, error) {
	if params.BookingNumber == "" {
		return nil, ErrBookingRequired
	}
	if params.AgentID == "" {
		return nil, ErrAgentRequired
	}
	now := params.AssignedAt.UTC()
	return &Assignment{
		ID:            params.ID,
		BookingNumber: params.BookingNumber,
		AgentID:       params.AgentID,
		CarID:         params.CarID,
		CompanyID:     params.CompanyID,
		TripStatus:    booking.StatusUpcoming,
		AssignedAt:    now,
		UpdatedAt:     now,
	}, nil
}
