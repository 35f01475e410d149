package car

import (
	"errors"
	"sort"
	"time"

	"fleetrent/internal/domain/shared/daterange"
)

var (
	ErrInvalidMonth    = errors.New("car: month must be between 1 and 12")
	ErrDayOutsideMonth = errors.New("car: day does not belong to the month bucket")
)

// Calendar is the per-month opt-in availability list: a day is bookable
// only if it appears in its month's bucket. A month with no bucket is
// fully unavailable.
type Calendar struct {
	Months map[time.Month][]time.Time
}

func NewCalendar() Calendar {
	return Calendar{Months: make(map[time.Month][]time.Time)}
}

// SetMonth replaces the bucket for one month. Days are normalized to
// UTC day start, deduplicated and kept sorted; every day must fall in
// the bucket's month.
func (c *Calendar) SetMonth(month time.Month, days []time.Time) error {
	if month < time.January || month > time.December {
		return ErrInvalidMonth
	}
	if c.Months == nil {
		c.Months = make(map[time.Month][]time.Time)
	}
	seen := make(map[time.Time]struct{}, len(days))
	normalized := make([]time.Time, 0, len(days))
	for _, d := range days {
		day := daterange.DayStart(d)
		if day.Month() != month {
			return ErrDayOutsideMonth
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Before(normalized[j]) })
	c.Months[month] = normalized
	return nil
}

// DayAvailable reports whether the calendar explicitly lists the day.
// The lookup is day-granular, so ranges spanning a month boundary
// consult each day's own month bucket.
func (c Calendar) DayAvailable(t time.Time) bool {
	day := daterange.DayStart(t)
	bucket, ok := c.Months[day.Month()]
	if !ok {
		return false
	}
	for _, d := range bucket {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

// MonthDays returns a copy of one month's bucket.
func (c Calendar) MonthDays(month time.Month) []time.Time {
	bucket := c.Months[month]
	out := make([]time.Time, len(bucket))
	copy(out, bucket)
	return out
}
