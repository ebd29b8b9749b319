package calendar

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("check-out must be after check-in")

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Range is the half-open interval [Start, End): a stay from Start to End
// occupies every night from Start up to but excluding End.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is zero or negative for an invalid range.
func (r Range) Nights() int {
	return r.Start.DaysUntil(r.End)
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Days lists every occupied night of the range.
func (r Range) Days() []Date {
	n := r.Nights()
	if n <= 0 {
		return nil
	}
	days := make([]Date, 0, n)
	for d := r.Start; d.Before(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Intersect returns the overlap of r and other, and false when they are
// disjoint.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	out := r
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + ")"
}

// MonthRange covers the whole month: [first day, first day of next month).
func MonthRange(year int, month time.Month) Range {
	start := New(year, month, 1)
	return Range{Start: start, End: New(year, month+1, 1)}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, errors.New("invalid month: expected YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}
