package dto

import (
	"time"

	domainagent "fleetrent/internal/domain/agent"
)

type AgentAssignment struct {
	ID            string    `json:"id"`
	BookingNumber string    `json:"booking_number"`
	AgentID       string    `json:"agent_id"`
	CarID         string    `json:"car_id"`
	CompanyID     string    `json:"company_id"`
	TripStatus    string    `json:"trip_status"`
	AssignedAt    time.Time `json:"assigned_at"`
}

type AgentAssignmentCollection struct {
	Items []AgentAssignment `json:"items"`
}

func MapAgentAssignment(a *domainagent.Assignment) AgentAssignment {
	return AgentAssignment{
		ID:            a.ID,
		BookingNumber: a.BookingNumber,
		AgentID:       a.AgentID,
		CarID:         string(a.CarID),
		CompanyID:     string(a.CompanyID),
		TripStatus:    string(a.TripStatus),
		AssignedAt:    a.AssignedAt,
	}
}
