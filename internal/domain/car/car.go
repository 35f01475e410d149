package car

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("car: not found")
	ErrCompanyRequired  = errors.New("car: rental company id is required")
	ErrBrandRequired    = errors.New("car: brand is required")
	ErrModelRequired    = errors.New("car: model is required")
	ErrInvalidSeats     = errors.New("car: seat count must be positive")
	ErrInvalidRentPrice = errors.New("car: rent price must be positive")
	ErrInvalidTransmiss = errors.New("car: unknown transmission")
	ErrDeleted          = errors.New("car: already deleted")
)

type ID string

type CompanyID string

type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

// Car is the rentable vehicle aggregate. Deletion is a soft flag; a car
// is never physically removed so its booking ledger stays intact.
type Car struct {
	ID             ID
	CompanyID      CompanyID
	Brand          string
	Model          string
	Class          string
	Transmission   Transmission
	LicencePlate   string
	Color          string
	Seats          int
	MileageLimitKM int // per-day allowance, 0 means unlimited
	RentPerDay     money.Money
	Calendar       Calendar
	Rating         float64 // denormalized review average, 0 when unreviewed
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

type ListParams struct {
	CompanyID CompanyID
	Offset    int
	Limit     int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Car, error)
	Save(ctx context.Context, car *Car) error
	List(ctx context.Context, params ListParams) ([]*Car, int, error)
}

type CreateParams struct {
	ID             ID
	CompanyID      CompanyID
	Brand          string
	Model          string
	Class          string
	Transmission   Transmission
	LicencePlate   string
	Color          string
	Seats          int
	MileageLimitKM int
	RentPerDay     money.Money
	CreatedAt      time.Time
}

func New(params CreateParams) (*Car, error) {
	if strings.TrimSpace(string(params.CompanyID)) == "" {
		return nil, ErrCompanyRequired
	}
	if strings.TrimSpace(params.Brand) == "" {
		return nil, ErrBrandRequired
	}
	if strings.TrimSpace(params.Model) == "" {
		return nil, ErrModelRequired
	}
	if params.Seats <= 0 {
		return nil, ErrInvalidSeats
	}
	if params.RentPerDay.Amount <= 0 {
		return nil, ErrInvalidRentPrice
	}
	switch params.Transmission {
	case TransmissionManual, TransmissionAutomatic:
	default:
		return nil, ErrInvalidTransmiss
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Car{
		ID:             params.ID,
		CompanyID:      params.CompanyID,
		Brand:          strings.TrimSpace(params.Brand),
		Model:          strings.TrimSpace(params.Model),
		Class:          strings.TrimSpace(params.Class),
		Transmission:   params.Transmission,
		LicencePlate:   strings.TrimSpace(params.LicencePlate),
		Color:          strings.TrimSpace(params.Color),
		Seats:          params.Seats,
		MileageLimitKM: params.MileageLimitKM,
		RentPerDay:     params.RentPerDay,
		Calendar:       NewCalendar(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type UpdateParams struct {
	Class          *string
	Transmission   *Transmission
	LicencePlate   *string
	Color          *string
	Seats          *int
	MileageLimitKM *int
	RentPerDay     *money.Money
}

func (c *Car) Update(params UpdateParams, now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	if params.Seats != nil {
		if *params.Seats <= 0 {
			return ErrInvalidSeats
		}
		c.Seats = *params.Seats
	}
	if params.RentPerDay != nil {
		if params.RentPerDay.Amount <= 0 {
			return ErrInvalidRentPrice
		}
		c.RentPerDay = *params.RentPerDay
	}
	if params.Transmission != nil {
		switch *params.Transmission {
		case TransmissionManual, TransmissionAutomatic:
		default:
			return ErrInvalidTransmiss
		}
		c.Transmission = *params.Transmission
	}
	if params.Class != nil {
		c.Class = strings.TrimSpace(*params.Class)
	}
	if params.LicencePlate != nil {
		c.LicencePlate = strings.TrimSpace(*params.LicencePlate)
	}
	if params.Color != nil {
		c.Color = strings.TrimSpace(*params.Color)
	}
	if params.MileageLimitKM != nil {
		c.MileageLimitKM = *params.MileageLimitKM
	}
	c.UpdatedAt = now.UTC()
	return nil
}

// SoftDelete marks the car removed while keeping the document for the
// booking ledger.
func (c *Car) SoftDelete(now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	c.Deleted = true
	c.UpdatedAt = now.UTC()
	return nil
}

// UpdateRating replaces the denormalized review average. It is valid
// on deleted cars so late review edits keep the mirror honest.
func (c *Car) UpdateRating(average float64, now time.Time) {
	c.Rating = average
	c.UpdatedAt = now.UTC()
}

// SetMonthAvailability replaces the bookable days of a single month.
func (c *Car) SetMonthAvailability(month time.Month, days []time.Time, now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	if err := c.Calendar.SetMonth(month, days); err != nil {
		return err
	}
	c.UpdatedAt = now.UTC()
	return nil
}
