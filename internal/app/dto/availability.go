package dto

import domainavailability "fleetrent/internal/domain/availability"

type AvailabilityDecision struct {
	Available      bool   `json:"available"`
	Reason         string `json:"reason,omitempty"`
	ConflictNumber string `json:"conflict_booking,omitempty"`
}

func MapAvailabilityDecision(d domainavailability.Decision) AvailabilityDecision {
	return AvailabilityDecision{
		Available:      d.Available,
		Reason:         string(d.Reason),
		ConflictNumber: d.ConflictNumber,
	}
}
