package pricing

import (
	"errors"
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

var (
	ErrPastDate       = errors.New("past dates cannot be repriced")
	ErrInvalidPrice   = errors.New("price must be positive")
	ErrNoSelection    = errors.New("no dates selected")
	ErrNoSuchOverride = errors.New("date has no custom price")
)

// ApplyPrice writes price for every selected date into overrides. It returns
// the dates written, deduplicated and in selection order. Nothing is written
// when any selected date lies before today.
func ApplyPrice(overrides map[calendar.Date]int64, dates []calendar.Date, price int64, today calendar.Date) ([]calendar.Date, error) {
	if len(dates) == 0 {
		return nil, ErrNoSelection
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	for _, d := range dates {
		if d.Before(today) {
			return nil, fmt.Errorf("%w: %s", ErrPastDate, d)
		}
	}

	seen := make(map[calendar.Date]bool, len(dates))
	written := make([]calendar.Date, 0, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		overrides[d] = price
		written = append(written, d)
	}
	return written, nil
}

// RemovePrice drops the override for d so it reverts to the weekday/weekend
// rate.
func RemovePrice(overrides map[calendar.Date]int64, d calendar.Date, today calendar.Date) error {
	if d.Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDate, d)
	}
	if _, ok := overrides[d]; !ok {
		return ErrNoSuchOverride
	}
	delete(overrides, d)
	return nil
}
