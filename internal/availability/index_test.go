package availability

import (
	"testing"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

func stay(start, end string) calendar.Range {
	return calendar.Range{Start: calendar.MustParse(start), End: calendar.MustParse(end)}
}

func TestActiveReservationsBlockOverlaps(t *testing.T) {
	for _, status := range booking.ActiveStatuses {
		idx := NewIndex([]Reservation{{Code: "MPA", Stay: stay("2025-06-10", "2025-06-13"), Status: status}})

		if idx.IsRangeFree(stay("2025-06-12", "2025-06-15")) {
			t.Errorf("%s: overlapping range reported free", status)
		}
		if !idx.IsRangeFree(stay("2025-06-13", "2025-06-15")) {
			t.Errorf("%s: range starting on checkout day must be free", status)
		}
		if !idx.IsRangeFree(stay("2025-06-08", "2025-06-10")) {
			t.Errorf("%s: range ending on check-in day must be free", status)
		}
	}
}

func TestReleasedReservationsDoNotBlock(t *testing.T) {
	for _, status := range []booking.Status{booking.StatusCancelled, booking.StatusCompleted} {
		idx := NewIndex([]Reservation{{Code: "MPA", Stay: stay("2025-06-10", "2025-06-13"), Status: status}})
		if !idx.IsRangeFree(stay("2025-06-10", "2025-06-13")) {
			t.Errorf("%s reservation must not block", status)
		}
	}
}

func TestCancellationFreesRange(t *testing.T) {
	r := Reservation{Code: "MPA", Stay: stay("2025-06-10", "2025-06-13"), Status: booking.StatusConfirmed}
	if NewIndex([]Reservation{r}).IsRangeFree(r.Stay) {
		t.Fatal("confirmed reservation must block its own range")
	}
	r.Status = booking.StatusCancelled
	if !NewIndex([]Reservation{r}).IsRangeFree(r.Stay) {
		t.Error("cancelled reservation must release its range")
	}
}

func TestEmptyIndexIsFree(t *testing.T) {
	if !NewIndex(nil).IsRangeFree(stay("2025-01-01", "2026-01-01")) {
		t.Error("no reservations means everything is free")
	}
}

func TestIsRangeFreeExcept(t *testing.T) {
	idx := NewIndex([]Reservation{
		{Code: "MPA", Stay: stay("2025-06-10", "2025-06-13"), Status: booking.StatusConfirmed},
		{Code: "MPB", Stay: stay("2025-06-15", "2025-06-17"), Status: booking.StatusPending},
	})
	if !idx.IsRangeFreeExcept(stay("2025-06-11", "2025-06-14"), "MPA") {
		t.Error("moving MPA within its own dates must be allowed")
	}
	if idx.IsRangeFreeExcept(stay("2025-06-12", "2025-06-16"), "MPA") {
		t.Error("moving MPA onto MPB must be rejected")
	}
	conflicts := idx.Conflicts(stay("2025-06-01", "2025-06-30"), "")
	if len(conflicts) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(conflicts))
	}
}

func TestOccupiedRangesClipToMonth(t *testing.T) {
	idx := NewIndex([]Reservation{
		{Code: "MPA", Stay: stay("2025-05-30", "2025-06-02"), Status: booking.StatusConfirmed},
		{Code: "MPB", Stay: stay("2025-07-01", "2025-07-03"), Status: booking.StatusConfirmed},
	})
	got := idx.OccupiedRanges(calendar.MonthRange(2025, time.June))
	if len(got) != 1 {
		t.Fatalf("expected 1 range in June, got %d", len(got))
	}
	if got[0].Stay != stay("2025-06-01", "2025-06-02") {
		t.Errorf("expected clipped range, got %s", got[0].Stay)
	}
}

func TestDaySegments(t *testing.T) {
	idx := NewIndex([]Reservation{
		{Code: "MPA", Stay: stay("2025-06-10", "2025-06-13"), Status: booking.StatusConfirmed},
		{Code: "MPB", Stay: stay("2025-06-13", "2025-06-14"), Status: booking.StatusPending},
	})
	segs := idx.DaySegments(calendar.MonthRange(2025, time.June))

	want := map[string]struct {
		code string
		pos  Position
	}{
		"2025-06-10": {"MPA", PositionStart},
		"2025-06-11": {"MPA", PositionMiddle},
		"2025-06-12": {"MPA", PositionEnd},
		"2025-06-13": {"MPB", PositionSingle},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d occupied days, got %d", len(want), len(segs))
	}
	for day, w := range want {
		seg, ok := segs[calendar.MustParse(day)]
		if !ok {
			t.Errorf("%s missing", day)
			continue
		}
		if seg.Code != w.code || seg.Position != w.pos {
			t.Errorf("%s: expected %s/%s, got %s/%s", day, w.code, w.pos, seg.Code, seg.Position)
		}
	}
}
