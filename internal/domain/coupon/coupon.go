package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/car"
)

var (
	ErrNotFound       = errors.New("coupon: not found")
	ErrCodeRequired   = errors.New("coupon: code is required")
	ErrInvalidRate    = errors.New("coupon: discount rate must be between 1 and 100")
	ErrNotRedeemable  = errors.New("coupon: not redeemable")
	ErrAlreadyDeleted = errors.New("coupon: already deleted")
)

// Coupon is a company-scoped discount code applied at booking time.
type Coupon struct {
	ID           string
	Code         string
	CompanyID    car.CompanyID
	DiscountRate int
	Description  string
	Banner       string
	Display      bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Coupon, error)
	ByCode(ctx context.Context, code string) (*Coupon, error)
	Save(ctx context.Context, c *Coupon) error
	List(ctx context.Context, companyID car.CompanyID) ([]*Coupon, error)
}

type CreateParams struct {
	ID           string
	Code         string
	CompanyID    car.CompanyID
	DiscountRate int
	Description  string
	Banner       string
	CreatedAt    time.Time
}

func New(params CreateParams) (*Coupon, error) {
	code := NormalizeCode(params.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if params.DiscountRate < 1 || params.DiscountRate > 100 {
		return nil, ErrInvalidRate
	}
	now := params.CreatedAt.UTC()
	return &Coupon{
		ID:           params.ID,
		Code:         code,
		CompanyID:    params.CompanyID,
		DiscountRate: params.DiscountRate,
		Description:  strings.TrimSpace(params.Description),
		Banner:       strings.TrimSpace(params.Banner),
		Display:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeCode uppercases and trims a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type UpdateParams struct {
	DiscountRate *int
	Description  *string
	Banner       *string
	Display      *bool
}

func (c *Coupon) Update(params UpdateParams, now time.Time) error {
	if c.Deleted {
		return ErrAlreadyDeleted
	}
	if params.DiscountRate != nil {
		if *params.DiscountRate < 1 || *params.DiscountRate > 100 {
			return ErrInvalidRate
		}
		c.DiscountRate = *params.DiscountRate
	}
	if params.Description != nil {
		c.Description = strings.TrimSpace(*params.Description)
	}
	if params.Banner != nil {
		c.Banner = strings.TrimSpace(*params.Banner)
	}
	if params.Display != nil {
		c.Display = *params.Display
	}
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Coupon) SoftDelete(now time.Time) error {
	if c.Deleted {
		return ErrAlreadyDeleted
	}
	c.Deleted = true
	c.Display = false
	c.UpdatedAt = now.UTC()
	return nil
}

// Redeem returns the discount rate if the coupon is live.
func (c *Coupon) Redeem() (int, error) {
	if c.Deleted || !c.Display {
		return 0, ErrNotRedeemable
	}
	return c.DiscountRate, nil
}
