package car

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func julyDay(d int) time.Time {
	return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarSetMonth(t *testing.T) {
	t.Run("normalizes, dedupes and sorts", func(t *testing.T) {
		cal := NewCalendar()
		err := cal.SetMonth(time.July, []time.Time{
			time.Date(2025, time.July, 12, 18, 45, 0, 0, time.UTC),
			julyDay(10),
			julyDay(12),
		})
		require.NoError(t, err)
		days := cal.MonthDays(time.July)
		require.Len(t, days, 2)
		assert.Equal(t, julyDay(10), days[0])
		assert.Equal(t, julyDay(12), days[1])
	})

	t.Run("replaces the whole bucket", func(t *testing.T) {
		cal := NewCalendar()
		require.NoError(t, cal.SetMonth(time.July, []time.Time{julyDay(10)}))
		require.NoError(t, cal.SetMonth(time.July, []time.Time{julyDay(20)}))
		days := cal.MonthDays(time.July)
		require.Len(t, days, 1)
		assert.Equal(t, julyDay(20), days[0])
	})

	t.Run("rejects day from another month", func(t *testing.T) {
		cal := NewCalendar()
		err := cal.SetMonth(time.July, []time.Time{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)})
		assert.ErrorIs(t, err, ErrDayOutsideMonth)
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		cal := NewCalendar()
		assert.ErrorIs(t, cal.SetMonth(0, nil), ErrInvalidMonth)
		assert.ErrorIs(t, cal.SetMonth(13, nil), ErrInvalidMonth)
	})

	t.Run("works on a zero calendar", func(t *testing.T) {
		var cal Calendar
		require.NoError(t, cal.SetMonth(time.July, []time.Time{julyDay(10)}))
		assert.True(t, cal.DayAvailable(julyDay(10)))
	})
}

func TestCalendarDayAvailable(t *testing.T) {
	cal := NewCalendar()
	require.NoError(t, cal.SetMonth(time.July, []time.Time{julyDay(10), julyDay(11)}))

	t.Run("listed day", func(t *testing.T) {
		assert.True(t, cal.DayAvailable(julyDay(10)))
	})

	t.Run("time of day ignored", func(t *testing.T) {
		assert.True(t, cal.DayAvailable(time.Date(2025, time.July, 10, 23, 0, 0, 0, time.UTC)))
	})

	t.Run("unlisted day in listed month", func(t *testing.T) {
		assert.False(t, cal.DayAvailable(julyDay(12)))
	})

	t.Run("month without bucket is fully unavailable", func(t *testing.T) {
		assert.False(t, cal.DayAvailable(time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)))
	})
}

func TestCarSetMonthAvailability(t *testing.T) {
	c, err := New(CreateParams{
		ID:           "car-1",
		CompanyID:    "co-1",
		Brand:        "Toyota",
		Model:        "Corolla",
		Transmission: TransmissionAutomatic,
		Seats:        5,
		RentPerDay:   rent(t),
	})
	require.NoError(t, err)

	require.NoError(t, c.SetMonthAvailability(time.July, []time.Time{julyDay(10)}, time.Now()))
	assert.True(t, c.Calendar.DayAvailable(julyDay(10)))

	require.NoError(t, c.SoftDelete(time.Now()))
	assert.ErrorIs(t, c.SetMonthAvailability(time.July, nil, time.Now()), ErrDeleted)
}
