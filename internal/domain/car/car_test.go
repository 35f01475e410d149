package car

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/shared/money"
)

func rent(t *testing.T) money.Money {
	t.Helper()
	return money.Must(2500, "AED")
}

func validParams(t *testing.T) CreateParams {
	t.Helper()
	return CreateParams{
		ID:           "car-1",
		CompanyID:    "co-1",
		Brand:        " Toyota ",
		Model:        "Corolla",
		Transmission: TransmissionAutomatic,
		Seats:        5,
		RentPerDay:   rent(t),
	}
}

func TestNewCar(t *testing.T) {
	t.Run("trims fields and starts with empty calendar", func(t *testing.T) {
		c, err := New(validParams(t))
		require.NoError(t, err)
		assert.Equal(t, "Toyota", c.Brand)
		assert.False(t, c.Deleted)
		assert.NotNil(t, c.Calendar.Months)
		assert.Empty(t, c.Calendar.MonthDays(time.July))
	})

	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"missing company", func(p *CreateParams) { p.CompanyID = " " }, ErrCompanyRequired},
		{"missing brand", func(p *CreateParams) { p.Brand = "" }, ErrBrandRequired},
		{"missing model", func(p *CreateParams) { p.Model = "" }, ErrModelRequired},
		{"zero seats", func(p *CreateParams) { p.Seats = 0 }, ErrInvalidSeats},
		{"free rent", func(p *CreateParams) { p.RentPerDay = money.Money{} }, ErrInvalidRentPrice},
		{"unknown transmission", func(p *CreateParams) { p.Transmission = "cvt" }, ErrInvalidTransmiss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams(t)
			tt.mutate(&params)
			_, err := New(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCarUpdate(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	t.Run("partial update", func(t *testing.T) {
		c, err := New(validParams(t))
		require.NoError(t, err)
		seats := 7
		color := " white "
		require.NoError(t, c.Update(UpdateParams{Seats: &seats, Color: &color}, now))
		assert.Equal(t, 7, c.Seats)
		assert.Equal(t, "white", c.Color)
		assert.Equal(t, "Corolla", c.Model)
	})

	t.Run("rejects invalid seats", func(t *testing.T) {
		c, err := New(validParams(t))
		require.NoError(t, err)
		seats := -1
		assert.ErrorIs(t, c.Update(UpdateParams{Seats: &seats}, now), ErrInvalidSeats)
	})

	t.Run("deleted car is frozen", func(t *testing.T) {
		c, err := New(validParams(t))
		require.NoError(t, err)
		require.NoError(t, c.SoftDelete(now))
		assert.ErrorIs(t, c.Update(UpdateParams{}, now), ErrDeleted)
		assert.ErrorIs(t, c.SoftDelete(now), ErrDeleted)
	})
}
