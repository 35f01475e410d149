package company

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/car"
)

var (
	ErrNotFound      = errors.New("company: not found")
	ErrNameRequired  = errors.New("company: name is required")
	ErrEmailRequired = errors.New("company: email is required")
	ErrDeleted       = errors.New("company: already deleted")
)

type Address struct {
	Country string
	State   string
	City    string
	Street  string
}

// Company is a rental company: it owns cars, coupons and one
// cancellation policy.
type Company struct {
	ID            car.CompanyID
	Name          string
	Email         string
	Phone         string
	Address       Address
	ServiceActive bool
	// CancellationTiers is the ordered hours-before-pickup policy,
	// normalized on write.
	CancellationTiers []booking.PolicyTier
	Deleted           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int64
}

type ListParams struct {
	OnlyActive bool
	Offset     int
	Limit      int
}

type Repository interface {
	ByID(ctx context.Context, id car.CompanyID) (*Company, error)
	Save(ctx context.Context, c *Company) error
	List(ctx context.Context, params ListParams) ([]*Company, int, error)
}

type CreateParams struct {
	ID        car.CompanyID
	Name      string
	Email     string
	Phone     string
	Address   Address
	CreatedAt time.Time
}

func New(params CreateParams) (*Company, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Company{
		ID:            params.ID,
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(params.Phone),
		Address:       params.Address,
		ServiceActive: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type UpdateParams struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *Address
}

func (c *Company) Update(params UpdateParams, now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return ErrNameRequired
		}
		c.Name = name
	}
	if params.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		if email == "" {
			return ErrEmailRequired
		}
		c.Email = email
	}
	if params.Phone != nil {
		c.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Address != nil {
		c.Address = *params.Address
	}
	c.UpdatedAt = now.UTC()
	return nil
}

// ChangeStatus switches the company's marketplace visibility.
func (c *Company) ChangeStatus(active bool, now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	c.ServiceActive = active
	c.UpdatedAt = now.UTC()
	return nil
}

// SetCancellationPolicy replaces the company's tiers. Tiers are
// normalized so later evaluation order is deterministic.
func (c *Company) SetCancellationPolicy(tiers []booking.PolicyTier, now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	normalized, err := booking.NormalizeTiers(tiers)
	if err != nil {
		return err
	}
	c.CancellationTiers = normalized
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Company) SoftDelete(now time.Time) error {
	if c.Deleted {
		return ErrDeleted
	}
	c.Deleted = true
	c.ServiceActive = false
	c.UpdatedAt = now.UTC()
	return nil
}
