package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/booking"
	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthDays(y int, m time.Month) []time.Time {
	var days []time.Time
	for d := day(y, m, 1); d.Month() == m; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// testCar is open every day of July and August 2025.
func testCar(t *testing.T) *car.Car {
	t.Helper()
	c, err := car.New(car.CreateParams{
		ID:           "car-1",
		CompanyID:    "co-1",
		Brand:        "Toyota",
		Model:        "Corolla",
		Transmission: car.TransmissionAutomatic,
		Seats:        5,
		RentPerDay:   money.Must(2500, "AED"),
	})
	require.NoError(t, err)
	require.NoError(t, c.Calendar.SetMonth(time.July, monthDays(2025, time.July)))
	require.NoError(t, c.Calendar.SetMonth(time.August, monthDays(2025, time.August)))
	return c
}

func ledgerEntry(t *testing.T, number string, from time.Time, days int, status booking.TripStatus) *booking.Booking {
	t.Helper()
	rng, err := daterange.FromDays(from, days)
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:          booking.ID(number),
		Number:      number,
		CarID:       "car-1",
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(2500, "AED").Multiply(int64(days)),
		CreatedAt:   from.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	b.TripStatus = status
	return b
}

func TestCheckValidation(t *testing.T) {
	r := Resolver{}
	c := testCar(t)

	_, err := r.Check(c, nil, time.Time{}, 3)
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = r.Check(c, nil, day(2025, time.July, 10), 0)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestCheckDeletedCar(t *testing.T) {
	c := testCar(t)
	require.NoError(t, c.SoftDelete(time.Now()))

	decision, err := Resolver{}.Check(c, nil, day(2025, time.July, 10), 3)
	require.NoError(t, err)
	assert.False(t, decision.Available)
	assert.Equal(t, ReasonCarDeleted, decision.Reason)
}

func TestCheckLedger(t *testing.T) {
	r := Resolver{}
	c := testCar(t)

	t.Run("overlap names the conflicting booking", func(t *testing.T) {
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.July, 12), 3, booking.StatusUpcoming),
		}
		decision, err := r.Check(c, ledger, day(2025, time.July, 10), 4)
		require.NoError(t, err)
		assert.False(t, decision.Available)
		assert.Equal(t, ReasonLedgerConflict, decision.Reason)
		assert.Equal(t, "CR-1", decision.ConflictNumber)
	})

	t.Run("back to back bookings do not conflict", func(t *testing.T) {
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.July, 13), 3, booking.StatusUpcoming),
		}
		decision, err := r.Check(c, ledger, day(2025, time.July, 10), 3)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("cancelled and finished trips release the car", func(t *testing.T) {
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.July, 10), 3, booking.StatusCancelled),
			ledgerEntry(t, "CR-2", day(2025, time.July, 10), 3, booking.StatusFinished),
		}
		decision, err := r.Check(c, ledger, day(2025, time.July, 10), 3)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("in-progress trip still blocks", func(t *testing.T) {
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.July, 10), 3, booking.StatusInProgress),
		}
		decision, err := r.Check(c, ledger, day(2025, time.July, 11), 1)
		require.NoError(t, err)
		assert.False(t, decision.Available)
	})

	t.Run("soft-deleted entries are ignored", func(t *testing.T) {
		entry := ledgerEntry(t, "CR-1", day(2025, time.July, 10), 3, booking.StatusUpcoming)
		entry.Deleted = true
		decision, err := r.Check(c, []*booking.Booking{entry}, day(2025, time.July, 10), 3)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("excluded numbers skip their own booking", func(t *testing.T) {
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.July, 10), 3, booking.StatusUpcoming),
		}
		excl := Resolver{Policy: Policy{ExcludeNumbers: []string{"CR-1"}}}
		decision, err := excl.Check(c, ledger, day(2025, time.July, 10), 3)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("ledger checked before calendar", func(t *testing.T) {
		// September has no calendar bucket, and an upcoming booking covers
		// the same window: the ledger reason wins.
		ledger := []*booking.Booking{
			ledgerEntry(t, "CR-1", day(2025, time.September, 10), 3, booking.StatusUpcoming),
		}
		decision, err := r.Check(c, ledger, day(2025, time.September, 10), 3)
		require.NoError(t, err)
		assert.Equal(t, ReasonLedgerConflict, decision.Reason)
	})
}

func TestCheckCalendar(t *testing.T) {
	r := Resolver{}

	t.Run("every requested day must be listed", func(t *testing.T) {
		c := testCar(t)
		days := monthDays(2025, time.July)
		// Remove July 12 from the bucket.
		trimmed := make([]time.Time, 0, len(days)-1)
		for _, d := range days {
			if d.Day() != 12 {
				trimmed = append(trimmed, d)
			}
		}
		require.NoError(t, c.Calendar.SetMonth(time.July, trimmed))

		decision, err := r.Check(c, nil, day(2025, time.July, 10), 4)
		require.NoError(t, err)
		assert.False(t, decision.Available)
		assert.Equal(t, ReasonCalendarNotListed, decision.Reason)

		decision, err = r.Check(c, nil, day(2025, time.July, 10), 2)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("range spanning a month boundary", func(t *testing.T) {
		c := testCar(t)
		decision, err := r.Check(c, nil, day(2025, time.July, 30), 4)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})

	t.Run("month without bucket is unavailable", func(t *testing.T) {
		c := testCar(t)
		decision, err := r.Check(c, nil, day(2025, time.August, 30), 4)
		require.NoError(t, err)
		assert.False(t, decision.Available)
		assert.Equal(t, ReasonCalendarNotListed, decision.Reason)
	})

	t.Run("pickup time of day is dropped", func(t *testing.T) {
		c := testCar(t)
		decision, err := r.Check(c, nil, time.Date(2025, time.July, 10, 22, 15, 0, 0, time.UTC), 3)
		require.NoError(t, err)
		assert.True(t, decision.Available)
	})
}
