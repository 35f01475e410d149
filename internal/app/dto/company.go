package dto

import (
	domainbooking "fleetrent/internal/domain/booking"
	domaincompany "fleetrent/internal/domain/company"
)

type CompanyAddress struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
	Street  string `json:"street"`
}

type CancellationTier struct {
	Hours int `json:"hours"`
	Rate  int `json:"rate"`
}

type CompanySummary struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       CompanyAddress `json:"address"`
	ServiceActive bool           `json:"service_active"`
}

type CompanyCollection struct {
	Items []CompanySummary `json:"items"`
	Total int              `json:"total"`
}

type CompanyDetails struct {
	CompanySummary
	CancellationTiers []CancellationTier `json:"cancellation_policy"`
}

func MapCancellationTiers(tiers []domainbooking.PolicyTier) []CancellationTier {
	out := make([]CancellationTier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, CancellationTier{Hours: t.Hours, Rate: t.Rate})
	}
	return out
}

func MapCompanySummary(c *domaincompany.Company) CompanySummary {
	return CompanySummary{
		ID:    string(c.ID),
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Address: CompanyAddress{
			Country: c.Address.Country,
			State:   c.Address.State,
			City:    c.Address.City,
			Street:  c.Address.Street,
		},
		ServiceActive: c.ServiceActive,
	}
}

func MapCompanyDetails(c *domaincompany.Company) CompanyDetails {
	return CompanyDetails{
		CompanySummary:    MapCompanySummary(c),
		CancellationTiers: MapCancellationTiers(c.CancellationTiers),
	}
}
