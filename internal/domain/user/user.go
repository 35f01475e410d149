package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/car"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: name is required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrPhoneAlreadyUsed    = errors.New("user: phone already used")
	ErrNotFound            = errors.New("user: not found")
	ErrDeleted             = errors.New("user: already deleted")
)

type ID string

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// KnownRoles lists every role the platform understands.
var KnownRoles = []Role{RoleCustomer, RoleAgent, RoleStaff, RoleAdmin}

// User covers customers, delivery agents, company staff and admins.
// Agents and staff carry the company they work for.
type User struct {
	ID           ID
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	Role         Role
	CompanyID    car.CompanyID
	DeviceToken  string
	Verified     bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ListParams struct {
	Role      Role
	CompanyID car.CompanyID
	Offset    int
	Limit     int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
	List(ctx context.Context, params ListParams) ([]*User, int, error)
}

type CreateParams struct {
	ID           ID
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	Role         Role
	CompanyID    car.CompanyID
	DeviceToken  string
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !roleKnown(params.Role) {
		return nil, ErrInvalidRole
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &User{
		ID:           ID(id),
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		Name:         name,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CompanyID:    params.CompanyID,
		DeviceToken:  strings.TrimSpace(params.DeviceToken),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleKnown(r Role) bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Verify marks the account confirmed (email or phone verification).
func (u *User) Verify(now time.Time) {
	u.Verified = true
	u.UpdatedAt = now.UTC()
}

// UpdateDeviceToken stores the push-notification registration token.
func (u *User) UpdateDeviceToken(token string, now time.Time) {
	u.DeviceToken = strings.TrimSpace(token)
	u.UpdatedAt = now.UTC()
}

func (u *User) SoftDelete(now time.Time) error {
	if u.Deleted {
		return ErrDeleted
	}
	u.Deleted = true
	u.UpdatedAt = now.UTC()
	return nil
}

func (u *User) ChangePasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.UpdatedAt = now.UTC()
	return nil
}
