package dto

import (
	"time"

	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type BookingCarSnapshot struct {
	ID           string `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Class        string `json:"class"`
	LicencePlate string `json:"licence_plate"`
}

type BookingSummary struct {
	Number     string             `json:"booking_number"`
	Car        BookingCarSnapshot `json:"car"`
	CustomerID string             `json:"customer_id"`
	PickupDate time.Time          `json:"pickup_date"`
	DropDate   time.Time          `json:"drop_date"`
	Days       int                `json:"days"`
	TripStatus string             `json:"trip_status"`
	RentPerDay MoneyDTO           `json:"rent_per_day"`
	Total      MoneyDTO           `json:"total"`
	CouponCode string             `json:"coupon_code,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

type BookingDetails struct {
	BookingSummary
	CancellationRate   int       `json:"cancellation_rate,omitempty"`
	CancellationCharge *MoneyDTO `json:"cancellation_charge,omitempty"`
	AmountReturned     *MoneyDTO `json:"amount_returned,omitempty"`
	CancelReason       string    `json:"cancel_reason,omitempty"`
	CancelledAt        time.Time `json:"cancelled_at,omitzero"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
	}
}

func MapBookingSummary(b *domainbooking.Booking, c *domaincar.Car) BookingSummary {
	snapshot := BookingCarSnapshot{ID: string(b.CarID)}
	if c != nil {
		snapshot.Brand = c.Brand
		snapshot.Model = c.Model
		snapshot.Class = c.Class
		snapshot.LicencePlate = c.LicencePlate
	}
	return BookingSummary{
		Number:     b.Number,
		Car:        snapshot,
		CustomerID: b.CustomerID,
		PickupDate: b.Range.From,
		DropDate:   b.Range.To,
		Days:       b.Days,
		TripStatus: string(b.TripStatus),
		RentPerDay: MapMoney(b.RentPerDay),
		Total:      MapMoney(b.TotalAmount),
		CouponCode: b.CouponCode,
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookingDetails(b *domainbooking.Booking, c *domaincar.Car) BookingDetails {
	details := BookingDetails{BookingSummary: MapBookingSummary(b, c)}
	if b.TripStatus == domainbooking.StatusCancelled {
		charge := MapMoney(b.CancellationCharge)
		refund := MapMoney(b.AmountReturned)
		details.CancellationRate = b.CancellationRate
		details.CancellationCharge = &charge
		details.AmountReturned = &refund
		details.CancelReason = b.CancelReason
		details.CancelledAt = b.CancelledAt
	}
	return details
}
