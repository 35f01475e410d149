package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
	"fleetrent/internal/infra/storage/memory"
)

func seedFleet(t *testing.T) memory.Factory {
	t.Helper()
	factory := memory.NewFactory()
	ctx := context.Background()

	car, err := domaincar.New(domaincar.CreateParams{
		ID:           "car-1",
		CompanyID:    "co-1",
		Brand:        "Toyota",
		Model:        "Corolla",
		Transmission: domaincar.TransmissionAutomatic,
		Seats:        5,
		RentPerDay:   money.Must(2500, "AED"),
	})
	require.NoError(t, err)
	var julyDays []time.Time
	for d := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.July; d = d.AddDate(0, 0, 1) {
		julyDays = append(julyDays, d)
	}
	require.NoError(t, car.Calendar.SetMonth(time.July, julyDays))
	require.NoError(t, factory.CarRepo.Save(ctx, car))

	rng, err := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:          "bk-1",
		Number:      "CR-1",
		CarID:       "car-1",
		CompanyID:   "co-1",
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(7500, "AED"),
		CreatedAt:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, factory.BookingRepo.Save(ctx, b))
	return factory
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("free window", func(t *testing.T) {
		handler := &CheckAvailabilityHandler{UoWFactory: seedFleet(t)}
		res, err := handler.Handle(ctx, CheckAvailabilityQuery{
			CarID: "car-1",
			From:  time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
			Days:  3,
		})
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Empty(t, res.Reason)
	})

	t.Run("booked window reports the conflict", func(t *testing.T) {
		handler := &CheckAvailabilityHandler{UoWFactory: seedFleet(t)}
		res, err := handler.Handle(ctx, CheckAvailabilityQuery{
			CarID: "car-1",
			From:  time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC),
			Days:  2,
		})
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.Equal(t, "CR-1", res.ConflictNumber)
	})

	t.Run("unknown car", func(t *testing.T) {
		handler := &CheckAvailabilityHandler{UoWFactory: memory.NewFactory()}
		_, err := handler.Handle(ctx, CheckAvailabilityQuery{
			CarID: "car-404",
			From:  time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
			Days:  3,
		})
		assert.ErrorIs(t, err, domaincar.ErrNotFound)
	})
}
