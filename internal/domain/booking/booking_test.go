package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	rng, err := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 4)
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:          "bk-1",
		Number:      "CR-20250701-ABC123",
		CarID:       car.ID("car-1"),
		CompanyID:   car.CompanyID("co-1"),
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(10000, "AED"),
		CreatedAt:   time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("starts upcoming with a creation event", func(t *testing.T) {
		b := newTestBooking(t)
		assert.Equal(t, StatusUpcoming, b.TripStatus)
		assert.Equal(t, 4, b.Days)
		require.Len(t, b.PendingEvents(), 1)
		assert.Equal(t, "booking.created", b.PendingEvents()[0].EventName())
	})

	t.Run("requires customer", func(t *testing.T) {
		rng, _ := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 2)
		_, err := New(CreateParams{Number: "CR-X", Range: rng, TotalAmount: money.Must(100, "AED")})
		assert.ErrorIs(t, err, ErrCustomerRequired)
	})

	t.Run("requires number", func(t *testing.T) {
		_, err := New(CreateParams{CustomerID: "cust-1"})
		assert.ErrorIs(t, err, ErrNumberRequired)
	})

	t.Run("requires positive total", func(t *testing.T) {
		rng, _ := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 2)
		_, err := New(CreateParams{Number: "CR-X", CustomerID: "cust-1", Range: rng})
		assert.ErrorIs(t, err, ErrInvalidTotal)
	})
}

func TestAdvance(t *testing.T) {
	now := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

	t.Run("full forward walk", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Advance(StatusDelivering, now))
		require.NoError(t, b.Advance(StatusInProgress, now))
		require.NoError(t, b.Advance(StatusDelivering, now))
		require.NoError(t, b.Advance(StatusFinished, now))
		assert.True(t, b.TripStatus.Terminal())
	})

	t.Run("cannot skip delivery", func(t *testing.T) {
		b := newTestBooking(t)
		assert.ErrorIs(t, b.Advance(StatusInProgress, now), ErrInvalidState)
	})

	t.Run("finished is terminal", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Advance(StatusDelivering, now))
		require.NoError(t, b.Advance(StatusFinished, now))
		assert.ErrorIs(t, b.Advance(StatusDelivering, now), ErrAlreadyFinished)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Cancel("plans changed", now, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Advance(StatusDelivering, now), ErrAlreadyCancelled)
	})
}

func TestCancel(t *testing.T) {
	tiers := []PolicyTier{{Hours: 24, Rate: 50}, {Hours: 48, Rate: 25}}

	t.Run("stamps monetary fields once", func(t *testing.T) {
		b := newTestBooking(t)
		cancelAt := b.Range.From.Add(-30 * time.Hour)
		quote, err := b.Cancel("plans changed", cancelAt, tiers)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.TripStatus)
		assert.Equal(t, 25, b.CancellationRate)
		assert.Equal(t, quote.Charge, b.CancellationCharge)
		assert.Equal(t, quote.Refund, b.AmountReturned)
		assert.Equal(t, "plans changed", b.CancelReason)
		assert.Equal(t, cancelAt, b.CancelledAt)
	})

	t.Run("second cancel rejected", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Cancel("first", time.Now(), tiers)
		require.NoError(t, err)
		_, err = b.Cancel("second", time.Now(), tiers)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("finished trip cannot cancel", func(t *testing.T) {
		b := newTestBooking(t)
		now := time.Now()
		require.NoError(t, b.Advance(StatusDelivering, now))
		require.NoError(t, b.Advance(StatusFinished, now))
		_, err := b.Cancel("too late", now, tiers)
		assert.ErrorIs(t, err, ErrAlreadyFinished)
	})
}

func TestExtend(t *testing.T) {
	now := time.Date(2025, time.July, 11, 9, 0, 0, 0, time.UTC)

	t.Run("pushes drop-off and adds rent", func(t *testing.T) {
		b := newTestBooking(t)
		origTo := b.Range.To
		require.NoError(t, b.Extend(2, now))
		assert.Equal(t, origTo.AddDate(0, 0, 2), b.Range.To)
		assert.Equal(t, 6, b.Days)
		assert.Equal(t, int64(15000), b.TotalAmount.Amount)
	})

	t.Run("rejects zero days", func(t *testing.T) {
		b := newTestBooking(t)
		assert.ErrorIs(t, b.Extend(0, now), daterange.ErrInvalidDays)
	})

	t.Run("rejects terminal trip", func(t *testing.T) {
		b := newTestBooking(t)
		_, err := b.Cancel("done", now, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Extend(1, now), ErrInvalidState)
	})
}

func TestNewNumber(t *testing.T) {
	now := time.Date(2025, time.July, 10, 23, 59, 0, 0, time.UTC)
	number := NewNumber(now)
	assert.Regexp(t, `^CR-20250710-[0-9A-F]{6}$`, number)
	assert.NotEqual(t, number, NewNumber(now))
}
