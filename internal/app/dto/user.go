package dto

import (
	"time"

	domainuser "fleetrent/internal/domain/user"
)

type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CompanyID string    `json:"company_id,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type UserCollection struct {
	Items []UserSummary `json:"items"`
	Total int           `json:"total"`
}

func MapUserSummary(u *domainuser.User) UserSummary {
	return UserSummary{
		ID:        string(u.ID),
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		Role:      string(u.Role),
		CompanyID: string(u.CompanyID),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
