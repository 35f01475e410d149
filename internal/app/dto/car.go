package dto

import (
	"sort"
	"time"

	domaincar "fleetrent/internal/domain/car"
)

type CarSummary struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Class          string   `json:"class"`
	Transmission   string   `json:"transmission"`
	LicencePlate   string   `json:"licence_plate"`
	Color          string   `json:"color"`
	Seats          int      `json:"seats"`
	MileageLimitKM int      `json:"mileage_limit_km"`
	RentPerDay     MoneyDTO `json:"rent_per_day"`
	Rating         float64  `json:"rating"`
}

type CarCollection struct {
	Items []CarSummary `json:"items"`
	Total int          `json:"total"`
}

type CarCalendarMonth struct {
	Month string      `json:"month"`
	Days  []time.Time `json:"days"`
}

type CarDetails struct {
	CarSummary
	Calendar []CarCalendarMonth `json:"calendar"`
}

func MapCarSummary(c *domaincar.Car) CarSummary {
	return CarSummary{
		ID:             string(c.ID),
		CompanyID:      string(c.CompanyID),
		Brand:          c.Brand,
		Model:          c.Model,
		Class:          c.Class,
		Transmission:   string(c.Transmission),
		LicencePlate:   c.LicencePlate,
		Color:          c.Color,
		Seats:          c.Seats,
		MileageLimitKM: c.MileageLimitKM,
		RentPerDay:     MapMoney(c.RentPerDay),
		Rating:         c.Rating,
	}
}

func MapCarDetails(c *domaincar.Car) CarDetails {
	keys := make([]time.Month, 0, len(c.Calendar.Months))
	for month := range c.Calendar.Months {
		keys = append(keys, month)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	months := make([]CarCalendarMonth, 0, len(keys))
	for _, month := range keys {
		months = append(months, CarCalendarMonth{
			Month: month.String(),
			Days:  c.Calendar.MonthDays(month),
		})
	}
	return CarDetails{
		CarSummary: MapCarSummary(c),
		Calendar:   months,
	}
}
