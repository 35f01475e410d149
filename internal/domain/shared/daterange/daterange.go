package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
	ErrInvalidDays  = errors.New("daterange: days must be at least 1")
)

// DateRange represents a half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

func New(from, to time.Time) (DateRange, error) {
	dr := DateRange{From: from.UTC(), To: to.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// FromDays builds a range of whole days starting at the UTC day of from.
func FromDays(from time.Time, days int) (DateRange, error) {
	if from.IsZero() {
		return DateRange{}, ErrInvalidRange
	}
	if days < 1 {
		return DateRange{}, ErrInvalidDays
	}
	start := DayStart(from)
	return DateRange{From: start, To: start.AddDate(0, 0, days)}, nil
}

// DayStart normalizes a timestamp to UTC midnight of its calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.From.IsZero() || dr.To.IsZero() {
		return ErrInvalidRange
	}
	if !dr.To.After(dr.From) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Days() int {
	return int(dr.To.Sub(dr.From).Hours() / 24)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.From.Before(other.To) && other.From.Before(dr.To)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.From) || t.After(dr.From)) && t.Before(dr.To)
}

// EachDay calls fn with the UTC midnight of every day in the range,
// stopping early if fn returns false.
func (dr DateRange) EachDay(fn func(day time.Time) bool) {
	for d := DayStart(dr.From); d.Before(dr.To); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}
