package calendar

import "time"

// Selection helpers for the admin price editor. Dates before today are never
// selectable: past prices are immutable.

func SaturdaysInMonth(year int, month time.Month, today Date) []Date {
	var out []Date
	for _, d := range MonthRange(year, month).Days() {
		if d.Weekday() == time.Saturday && !d.Before(today) {
			out = append(out, d)
		}
	}
	return out
}

func FutureDatesInMonth(year int, month time.Month, today Date) []Date {
	var out []Date
	for _, d := range MonthRange(year, month).Days() {
		if !d.Before(today) {
			out = append(out, d)
		}
	}
	return out
}
