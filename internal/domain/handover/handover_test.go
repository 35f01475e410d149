package handover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
)

func TestParseLeg(t *testing.T) {
	t.Run("trims and lowercases", func(t *testing.T) {
		leg, err := ParseLeg("  Company_To_Agent ")
		require.NoError(t, err)
		assert.Equal(t, LegCompanyToAgent, leg)
	})

	t.Run("unknown leg", func(t *testing.T) {
		_, err := ParseLeg("agent_to_agent")
		assert.ErrorIs(t, err, ErrUnknownLeg)
	})
}

func TestLegTransitions(t *testing.T) {
	tests := []struct {
		leg  Leg
		from booking.TripStatus
		to   booking.TripStatus
	}{
		{LegCompanyToAgent, booking.StatusUpcoming, booking.StatusDelivering},
		{LegAgentToCustomer, booking.StatusDelivering, booking.StatusInProgress},
		{LegCustomerToAgent, booking.StatusInProgress, booking.StatusDelivering},
		{LegAgentToCompany, booking.StatusDelivering, booking.StatusFinished},
	}
	for _, tt := range tests {
		t.Run(string(tt.leg), func(t *testing.T) {
			assert.True(t, tt.leg.AllowedFrom(tt.from))
			next, err := tt.leg.NextStatus()
			require.NoError(t, err)
			assert.Equal(t, tt.to, next)
		})
	}
}

func TestLegApply(t *testing.T) {
	now := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

	t.Run("full delivery and return cycle", func(t *testing.T) {
		b := newTripBooking(t)
		require.NoError(t, LegCompanyToAgent.Apply(b, now))
		assert.Equal(t, booking.StatusDelivering, b.TripStatus)
		require.NoError(t, LegAgentToCustomer.Apply(b, now))
		assert.Equal(t, booking.StatusInProgress, b.TripStatus)
		require.NoError(t, LegCustomerToAgent.Apply(b, now))
		require.NoError(t, LegAgentToCompany.Apply(b, now))
		assert.Equal(t, booking.StatusFinished, b.TripStatus)
	})

	t.Run("leg out of order", func(t *testing.T) {
		b := newTripBooking(t)
		assert.ErrorIs(t, LegAgentToCustomer.Apply(b, now), ErrLegNotAllowed)
	})

	t.Run("repeating a completed leg", func(t *testing.T) {
		b := newTripBooking(t)
		require.NoError(t, LegCompanyToAgent.Apply(b, now))
		assert.ErrorIs(t, LegCompanyToAgent.Apply(b, now), ErrLegNotAllowed)
	})

	t.Run("cancelled trip accepts no legs", func(t *testing.T) {
		b := newTripBooking(t)
		_, err := b.Cancel("plans changed", now, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, LegCompanyToAgent.Apply(b, now), ErrLegNotAllowed)
	})
}

func TestArtifactsValidate(t *testing.T) {
	valid := func() Artifacts {
		return Artifacts{
			Defects:     []DefectPoint{{Area: "front bumper", Description: "scratch"}},
			OdometerKM:  42000,
			FuelPercent: 75,
			Signature:   ImageRef{Name: "sig.png", ContentType: "image/png"},
		}
	}

	t.Run("valid bundle", func(t *testing.T) {
		assert.NoError(t, valid().Validate(nil))
	})

	t.Run("signature type matched case-insensitively", func(t *testing.T) {
		a := valid()
		a.Signature.ContentType = "IMAGE/PNG"
		assert.NoError(t, a.Validate(nil))
	})

	t.Run("custom accepted types", func(t *testing.T) {
		a := valid()
		assert.ErrorIs(t, a.Validate([]string{"image/webp"}), ErrSignatureFormat)
	})

	tests := []struct {
		name    string
		mutate  func(*Artifacts)
		wantErr error
	}{
		{"no defects", func(a *Artifacts) { a.Defects = nil }, ErrDefectsRequired},
		{"negative odometer", func(a *Artifacts) { a.OdometerKM = -1 }, ErrOdometerRequired},
		{"fuel above 100", func(a *Artifacts) { a.FuelPercent = 101 }, ErrFuelLevelOutOfRange},
		{"fuel below 0", func(a *Artifacts) { a.FuelPercent = -1 }, ErrFuelLevelOutOfRange},
		{"missing signature", func(a *Artifacts) { a.Signature = ImageRef{} }, ErrSignatureRequired},
		{"rejected signature type", func(a *Artifacts) { a.Signature.ContentType = "application/pdf" }, ErrSignatureFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(&a)
			assert.ErrorIs(t, a.Validate(nil), tt.wantErr)
		})
	}
}

func newTripBooking(t *testing.T) *booking.Booking {
	t.Helper()
	rng, err := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:          "bk-1",
		Number:      "CR-20250701-ABC123",
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(7500, "AED"),
		CreatedAt:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}
