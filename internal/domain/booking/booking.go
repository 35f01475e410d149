package booking

import (
	"context"
	"errors"
	"time"

	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/events"
	"fleetrent/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrCustomerRequired = errors.New("booking: customer id is required")
	ErrInvalidState     = errors.New("booking: invalid trip status transition")
	ErrAlreadyCancelled = errors.New("booking: already cancelled")
	ErrAlreadyFinished  = errors.New("booking: trip already finished")
	ErrInvalidTotal     = errors.New("booking: total amount must be positive")
	ErrNumberRequired   = errors.New("booking: booking number is required")
)

type ID string

// TripStatus is the booking's stage in the handover lifecycle. It only
// moves forward; there are no reverse transitions.
type TripStatus string

const (
	StatusUpcoming   TripStatus = "upcoming"
	StatusDelivering TripStatus = "delivering"
	StatusInProgress TripStatus = "inprogress"
	StatusFinished   TripStatus = "finished"
	StatusCancelled  TripStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s TripStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// Booking is a permanent ledger entry: it is soft-marked, never removed.
type Booking struct {
	ID         ID
	Number     string
	CarID      car.ID
	CompanyID  car.CompanyID
	CustomerID string
	Range      daterange.DateRange
	Days       int
	TripStatus TripStatus

	RentPerDay  money.Money
	TotalAmount money.Money
	CouponCode  string

	// Populated once, on cancellation.
	CancellationRate   int
	CancellationCharge money.Money
	AmountReturned     money.Money
	CancelReason       string
	CancelledAt        time.Time

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type ListParams struct {
	CustomerID string
	CompanyID  car.CompanyID
	CarID      car.ID
	Statuses   []TripStatus
	Offset     int
	Limit      int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	ByNumber(ctx context.Context, number string) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	// ActiveByCar returns non-deleted bookings for the car, used by the
	// availability resolver. Status filtering is the resolver's concern.
	ActiveByCar(ctx context.Context, id car.ID) ([]*Booking, error)
	List(ctx context.Context, params ListParams) ([]*Booking, error)
}

type CreateParams struct {
	ID          ID
	Number      string
	CarID       car.ID
	CompanyID   car.CompanyID
	CustomerID  string
	Range       daterange.DateRange
	RentPerDay  money.Money
	TotalAmount money.Money
	CouponCode  string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.Number == "" {
		return nil, ErrNumberRequired
	}
	if params.CustomerID == "" {
		return nil, ErrCustomerRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.TotalAmount.Amount <= 0 {
		return nil, ErrInvalidTotal
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:          params.ID,
		Number:      params.Number,
		CarID:       params.CarID,
		CompanyID:   params.CompanyID,
		CustomerID:  params.CustomerID,
		Range:       params.Range,
		Days:        params.Range.Days(),
		TripStatus:  StatusUpcoming,
		RentPerDay:  params.RentPerDay,
		TotalAmount: params.TotalAmount,
		CouponCode:  params.CouponCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(Created{Number: b.Number, CarID: b.CarID, CustomerID: b.CustomerID, Range: b.Range, Total: b.TotalAmount, At: now})
	return b, nil
}

// forward lists the allowed next statuses for each stage. cancelled is
// reachable from every pre-finished stage and handled in Cancel.
var forward = map[TripStatus][]TripStatus{
	StatusUpcoming:   {StatusDelivering},
	StatusDelivering: {StatusInProgress, StatusFinished},
	StatusInProgress: {StatusDelivering},
}

// Advance moves the trip status one leg forward.
func (b *Booking) Advance(to TripStatus, now time.Time) error {
	if b.TripStatus == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if b.TripStatus == StatusFinished {
		return ErrAlreadyFinished
	}
	allowed := false
	for _, next := range forward[b.TripStatus] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidState
	}
	b.TripStatus = to
	b.UpdatedAt = now.UTC()
	b.Record(TripStatusAdvanced{Number: b.Number, Status: to, At: b.UpdatedAt})
	return nil
}

// Cancel computes the cancellation quote against the company tiers and
// stamps the monetary fields exactly once.
func (b *Booking) Cancel(reason string, cancelAt time.Time, tiers []PolicyTier) (CancellationQuote, error) {
	if b.TripStatus == StatusCancelled {
		return CancellationQuote{}, ErrAlreadyCancelled
	}
	if b.TripStatus == StatusFinished {
		return CancellationQuote{}, ErrAlreadyFinished
	}
	quote := ComputeCancellation(CancellationInput{
		TotalAmount: b.TotalAmount,
		RentPerDay:  b.RentPerDay,
		Days:        b.Days,
		PickupAt:    b.Range.From,
		CancelAt:    cancelAt,
		Tiers:       tiers,
	})
	b.TripStatus = StatusCancelled
	b.CancellationRate = quote.ChargePercent
	b.CancellationCharge = quote.Charge
	b.AmountReturned = quote.Refund
	b.CancelReason = reason
	b.CancelledAt = cancelAt.UTC()
	b.UpdatedAt = cancelAt.UTC()
	b.Record(Cancelled{Number: b.Number, Refund: quote.Refund, Charge: quote.Charge, Reason: reason, At: b.UpdatedAt})
	return quote, nil
}

// Extend pushes the drop-off out by extraDays and adds the extra rent.
// Availability of the extension window is the caller's concern.
func (b *Booking) Extend(extraDays int, now time.Time) error {
	if extraDays < 1 {
		return daterange.ErrInvalidDays
	}
	if b.TripStatus.Terminal() {
		return ErrInvalidState
	}
	b.Range.To = b.Range.To.AddDate(0, 0, extraDays)
	b.Days = b.Range.Days()
	extra := b.RentPerDay.Multiply(int64(extraDays))
	total, err := b.TotalAmount.Add(extra)
	if err != nil {
		return err
	}
	b.TotalAmount = total
	b.UpdatedAt = now.UTC()
	b.Record(Extended{Number: b.Number, NewDropOff: b.Range.To, Total: b.TotalAmount, At: b.UpdatedAt})
	return nil
}

// SoftDelete hides the booking from listings without touching the ledger.
func (b *Booking) SoftDelete(now time.Time) {
	b.Deleted = true
	b.UpdatedAt = now.UTC()
}
