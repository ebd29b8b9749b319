package availability

import (
	"sort"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

// Reservation is the slice of a booking the index needs.
type Reservation struct {
	Code   string
	Stay   calendar.Range
	Status booking.Status
}

// Index answers availability questions for one property. It holds only
// reservations whose status blocks dates.
type Index struct {
	reservations []Reservation
}

func NewIndex(reservations []Reservation) *Index {
	idx := &Index{}
	for _, r := range reservations {
		if r.Status.Blocks() && r.Stay.Nights() > 0 {
			idx.reservations = append(idx.reservations, r)
		}
	}
	sort.Slice(idx.reservations, func(i, j int) bool {
		return idx.reservations[i].Stay.Start.Before(idx.reservations[j].Stay.Start)
	})
	return idx
}

// IsRangeFree reports whether no active reservation overlaps stay.
func (idx *Index) IsRangeFree(stay calendar.Range) bool {
	return len(idx.Conflicts(stay, "")) == 0
}

// IsRangeFreeExcept ignores the reservation with the given code, so a
// booking being rescheduled never conflicts with its own current dates.
func (idx *Index) IsRangeFreeExcept(stay calendar.Range, code string) bool {
	return len(idx.Conflicts(stay, code)) == 0
}

func (idx *Index) Conflicts(stay calendar.Range, exceptCode string) []Reservation {
	var out []Reservation
	for _, r := range idx.reservations {
		if exceptCode != "" && r.Code == exceptCode {
			continue
		}
		if r.Stay.Overlaps(stay) {
			out = append(out, r)
		}
	}
	return out
}

func (idx *Index) IsDateFree(d calendar.Date) bool {
	return idx.IsRangeFree(calendar.Range{Start: d, End: d.AddDays(1)})
}

// OccupiedRanges returns the active reservations intersecting window, clipped
// to it.
func (idx *Index) OccupiedRanges(window calendar.Range) []Reservation {
	var out []Reservation
	for _, r := range idx.reservations {
		clipped, ok := r.Stay.Intersect(window)
		if !ok {
			continue
		}
		r.Stay = clipped
		out = append(out, r)
	}
	return out
}

// Position places a day inside the visual bar drawn for its reservation.
type Position string

const (
	PositionSingle Position = "single"
	PositionStart  Position = "start"
	PositionMiddle Position = "middle"
	PositionEnd    Position = "end"
)

type DaySegment struct {
	Date     calendar.Date  `json:"date"`
	Code     string         `json:"code"`
	Status   booking.Status `json:"status"`
	Position Position       `json:"position"`
}

// DaySegments maps every occupied day of window to its reservation and to
// its place in the bar: a day starts a bar when the previous day belongs to a
// different reservation and ends it when the next day does.
func (idx *Index) DaySegments(window calendar.Range) map[calendar.Date]DaySegment {
	owner := make(map[calendar.Date]Reservation)
	for _, r := range idx.reservations {
		for _, d := range r.Stay.Days() {
			if _, taken := owner[d]; !taken {
				owner[d] = r
			}
		}
	}

	out := make(map[calendar.Date]DaySegment)
	for _, d := range window.Days() {
		r, ok := owner[d]
		if !ok {
			continue
		}
		prev, hasPrev := owner[d.AddDays(-1)]
		next, hasNext := owner[d.AddDays(1)]
		continuesBefore := hasPrev && prev.Code == r.Code
		continuesAfter := hasNext && next.Code == r.Code

		pos := PositionSingle
		switch {
		case continuesBefore && continuesAfter:
			pos = PositionMiddle
		case continuesAfter:
			pos = PositionStart
		case continuesBefore:
			pos = PositionEnd
		}
		out[d] = DaySegment{Date: d, Code: r.Code, Status: r.Status, Position: pos}
	}
	return out
}
