package pricing

import (
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

// Rates is everything needed to price a night at one property.
type Rates struct {
	Weekday   int64
	Weekend   int64
	Overrides map[calendar.Date]int64
}

// IsWeekend follows the local market convention: only Saturday night is
// priced at the weekend rate. Sunday is a regular day.
func IsWeekend(d calendar.Date) bool {
	return d.Weekday() == time.Saturday
}

// PriceFor resolves the nightly rate for d: a per-date override wins over the
// weekend rate, which wins over the weekday rate.
func PriceFor(rates Rates, d calendar.Date) int64 {
	if price, ok := rates.Overrides[d]; ok {
		return price
	}
	if IsWeekend(d) {
		return rates.Weekend
	}
	return rates.Weekday
}

// Source tells the calendar UI where a resolved price came from.
type Source string

const (
	SourceOverride Source = "custom"
	SourceWeekend  Source = "weekend"
	SourceWeekday  Source = "weekday"
)

func SourceFor(rates Rates, d calendar.Date) Source {
	if _, ok := rates.Overrides[d]; ok {
		return SourceOverride
	}
	if IsWeekend(d) {
		return SourceWeekend
	}
	return SourceWeekday
}
