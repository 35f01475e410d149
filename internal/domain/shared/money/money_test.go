package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("uppercases currency", func(t *testing.T) {
		m, err := New(1500, "aed")
		require.NoError(t, err)
		assert.Equal(t, "AED", m.Currency)
		assert.Equal(t, int64(1500), m.Amount)
	})

	t.Run("rejects short currency code", func(t *testing.T) {
		_, err := New(100, "ae")
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})
}

func TestArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum, err := Must(100, "AED").Add(Must(250, "AED"))
		require.NoError(t, err)
		assert.Equal(t, int64(350), sum.Amount)
	})

	t.Run("sub", func(t *testing.T) {
		diff, err := Must(250, "AED").Sub(Must(100, "AED"))
		require.NoError(t, err)
		assert.Equal(t, int64(150), diff.Amount)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := Must(100, "AED").Add(Must(100, "USD"))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("multiply", func(t *testing.T) {
		assert.Equal(t, int64(900), Must(300, "AED").Multiply(3).Amount)
	})
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		percent int
		want    int64
	}{
		{"half", 10000, 50, 5000},
		{"rounds down", 999, 10, 99},
		{"zero percent", 10000, 0, 0},
		{"negative clamped to zero", 10000, -5, 0},
		{"above hundred clamped", 10000, 150, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Must(tt.amount, "AED").Percent(tt.percent)
			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, "AED", got.Currency)
		})
	}
}
