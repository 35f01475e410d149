package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/shared/money"
)

func TestNormalizeTiers(t *testing.T) {
	t.Run("sorts ascending by hours", func(t *testing.T) {
		got, err := NormalizeTiers([]PolicyTier{
			{Hours: 72, Rate: 10},
			{Hours: 24, Rate: 50},
			{Hours: 48, Rate: 25},
		})
		require.NoError(t, err)
		assert.Equal(t, []PolicyTier{
			{Hours: 24, Rate: 50},
			{Hours: 48, Rate: 25},
			{Hours: 72, Rate: 10},
		}, got)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []PolicyTier{{Hours: 72, Rate: 10}, {Hours: 24, Rate: 50}}
		_, err := NormalizeTiers(in)
		require.NoError(t, err)
		assert.Equal(t, 72, in[0].Hours)
	})

	t.Run("rejects rate above 100", func(t *testing.T) {
		_, err := NormalizeTiers([]PolicyTier{{Hours: 24, Rate: 101}})
		assert.ErrorIs(t, err, ErrInvalidTierRate)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NormalizeTiers([]PolicyTier{{Hours: 24, Rate: -1}})
		assert.ErrorIs(t, err, ErrInvalidTierRate)
	})

	t.Run("rejects negative hours", func(t *testing.T) {
		_, err := NormalizeTiers([]PolicyTier{{Hours: -1, Rate: 10}})
		assert.ErrorIs(t, err, ErrInvalidTierHours)
	})
}

func TestComputeCancellation(t *testing.T) {
	pickup := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	tiers := []PolicyTier{
		{Hours: 24, Rate: 50},
		{Hours: 48, Rate: 25},
		{Hours: 72, Rate: 10},
	}
	input := func(cancelAt time.Time) CancellationInput {
		return CancellationInput{
			TotalAmount: money.Must(10000, "AED"),
			RentPerDay:  money.Must(2500, "AED"),
			Days:        4,
			PickupAt:    pickup,
			CancelAt:    cancelAt,
			Tiers:       tiers,
		}
	}

	t.Run("first matching tier wins", func(t *testing.T) {
		// 30 hours out: the 24h tier does not cover it, the 48h tier does.
		quote := ComputeCancellation(input(pickup.Add(-30 * time.Hour)))
		assert.True(t, quote.Matched)
		assert.Equal(t, 25, quote.ChargePercent)
		assert.Equal(t, int64(2500), quote.Charge.Amount)
		assert.Equal(t, int64(7500), quote.Refund.Amount)
	})

	t.Run("tightest tier at short notice", func(t *testing.T) {
		quote := ComputeCancellation(input(pickup.Add(-2 * time.Hour)))
		assert.Equal(t, 50, quote.ChargePercent)
		assert.Equal(t, int64(5000), quote.Charge.Amount)
		assert.Equal(t, int64(5000), quote.Refund.Amount)
	})

	t.Run("cancel after pickup hits tightest tier", func(t *testing.T) {
		quote := ComputeCancellation(input(pickup.Add(6 * time.Hour)))
		assert.True(t, quote.Matched)
		assert.Equal(t, 50, quote.ChargePercent)
	})

	t.Run("exactly on tier boundary", func(t *testing.T) {
		quote := ComputeCancellation(input(pickup.Add(-24 * time.Hour)))
		assert.Equal(t, 50, quote.ChargePercent)
	})

	t.Run("outside every tier cancels free", func(t *testing.T) {
		quote := ComputeCancellation(input(pickup.Add(-100 * time.Hour)))
		assert.False(t, quote.Matched)
		assert.Equal(t, 0, quote.ChargePercent)
		assert.Equal(t, int64(0), quote.Charge.Amount)
		// Unmatched refund is per-day rent times days, not the discounted
		// booking total.
		assert.Equal(t, int64(10000), quote.Refund.Amount)
	})

	t.Run("unmatched refund ignores coupon discount", func(t *testing.T) {
		in := input(pickup.Add(-100 * time.Hour))
		in.TotalAmount = money.Must(9000, "AED") // total after a 10% coupon
		quote := ComputeCancellation(in)
		assert.Equal(t, int64(10000), quote.Refund.Amount)
	})

	t.Run("no tiers configured", func(t *testing.T) {
		in := input(pickup.Add(-2 * time.Hour))
		in.Tiers = nil
		quote := ComputeCancellation(in)
		assert.False(t, quote.Matched)
		assert.Equal(t, int64(0), quote.Charge.Amount)
	})

	t.Run("deterministic", func(t *testing.T) {
		in := input(pickup.Add(-30 * time.Hour))
		assert.Equal(t, ComputeCancellation(in), ComputeCancellation(in))
	})
}
