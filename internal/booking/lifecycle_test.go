package booking

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

func confirmedState() State {
	return State{
		Status:   StatusConfirmed,
		CheckIn:  calendar.MustParse("2025-07-10"),
		CheckOut: calendar.MustParse("2025-07-12"),
	}
}

func TestConfirmIsOneWay(t *testing.T) {
	s := State{Status: StatusPending, CheckIn: calendar.MustParse("2025-07-10"), CheckOut: calendar.MustParse("2025-07-12")}

	if err := Apply(&s, EventConfirm, Params{PaymentMethod: "Chuyển khoản"}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if s.Status != StatusConfirmed || s.PaymentMethod != "Chuyển khoản" {
		t.Errorf("unexpected state after confirm: %+v", s)
	}

	// nothing leads back to pending
	for e, tr := range transitions {
		if tr.to == StatusPending {
			t.Errorf("event %s leads back to pending", e)
		}
	}
	if err := Apply(&s, EventConfirm, Params{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on double confirm, got %v", err)
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		for e := range transitions {
			s := confirmedState()
			s.Status = status
			if err := Apply(&s, e, Params{Today: calendar.MustParse("2030-01-01")}); !errors.Is(err, ErrTerminal) {
				t.Errorf("%s: event %s should be rejected with ErrTerminal, got %v", status, e, err)
			}
			if s.Status != status {
				t.Errorf("%s: status changed by %s", status, e)
			}
		}
	}
}

func TestTransitionTable(t *testing.T) {
	today := calendar.MustParse("2025-07-12")
	tests := []struct {
		from  Status
		event Event
		to    Status
		err   error
	}{
		{StatusPending, EventReject, StatusCancelled, nil},
		{StatusPending, EventGuestCancel, StatusCancelled, nil},
		{StatusPending, EventAdminCancel, StatusCancelled, nil},
		{StatusPending, EventCheckIn, StatusPending, ErrInvalidTransition},
		{StatusConfirmed, EventGuestCancel, StatusConfirmed, ErrInvalidTransition},
		{StatusConfirmed, EventAdminCancel, StatusCancelled, nil},
		{StatusConfirmed, EventCheckIn, StatusCheckedIn, nil},
		{StatusConfirmed, EventComplete, StatusConfirmed, ErrInvalidTransition},
		{StatusCheckedIn, EventComplete, StatusCompleted, nil},
		{StatusCheckedIn, EventAdminCancel, StatusCancelled, nil},
		{StatusCheckedIn, EventConfirm, StatusCheckedIn, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			s := confirmedState()
			s.Status = tt.from
			err := Apply(&s, tt.event, Params{Today: today})
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if s.Status != tt.to {
				t.Errorf("expected status %s, got %s", tt.to, s.Status)
			}
		})
	}
}

func TestCheckInAndCompleteNeedDates(t *testing.T) {
	s := confirmedState()
	if err := Apply(&s, EventCheckIn, Params{Today: calendar.MustParse("2025-07-09")}); !errors.Is(err, ErrCheckInNotReached) {
		t.Errorf("expected ErrCheckInNotReached, got %v", err)
	}
	if err := Apply(&s, EventCheckIn, Params{Today: calendar.MustParse("2025-07-10")}); err != nil {
		t.Fatalf("check-in on arrival day failed: %v", err)
	}
	if err := Apply(&s, EventComplete, Params{Today: calendar.MustParse("2025-07-11")}); !errors.Is(err, ErrCheckOutNotReached) {
		t.Errorf("expected ErrCheckOutNotReached, got %v", err)
	}
	if err := Apply(&s, EventComplete, Params{Today: calendar.MustParse("2025-07-12")}); err != nil {
		t.Fatalf("complete on checkout day failed: %v", err)
	}
	if s.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", s.Status)
	}
}

func TestAcceptReschedule(t *testing.T) {
	s := confirmedState()
	s.RescheduleCount = 2
	proposed := calendar.Range{Start: calendar.MustParse("2025-08-01"), End: calendar.MustParse("2025-08-04")}

	if err := Apply(&s, EventRequestReschedule, Params{Proposed: proposed}); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if s.Status != StatusConfirmed || !s.RescheduleRequested {
		t.Fatalf("request must only set the overlay: %+v", s)
	}
	if err := Apply(&s, EventRequestReschedule, Params{Proposed: proposed}); !errors.Is(err, ErrRescheduleRequested) {
		t.Errorf("expected ErrRescheduleRequested, got %v", err)
	}

	if err := Apply(&s, EventAcceptReschedule, Params{}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if s.CheckIn != proposed.Start || s.CheckOut != proposed.End {
		t.Errorf("dates not applied: %s", s.Stay())
	}
	if s.RescheduleCount != 3 {
		t.Errorf("expected reschedule count 3, got %d", s.RescheduleCount)
	}
	if s.RescheduleRequested || s.NewCheckIn != nil || s.NewCheckOut != nil {
		t.Errorf("overlay not cleared: %+v", s)
	}
	if s.Status != StatusConfirmed {
		t.Errorf("status must stay confirmed, got %s", s.Status)
	}
}

func TestRejectReschedule(t *testing.T) {
	s := confirmedState()
	original := s.Stay()
	proposed := calendar.Range{Start: calendar.MustParse("2025-08-01"), End: calendar.MustParse("2025-08-04")}

	if err := Apply(&s, EventRejectReschedule, Params{}); !errors.Is(err, ErrNoRescheduleRequest) {
		t.Errorf("expected ErrNoRescheduleRequest, got %v", err)
	}
	if err := Apply(&s, EventRequestReschedule, Params{Proposed: proposed}); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := Apply(&s, EventRejectReschedule, Params{}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if s.Stay() != original {
		t.Errorf("reject must keep the dates, got %s", s.Stay())
	}
	if s.RescheduleCount != 0 || s.RescheduleRequested || s.NewCheckIn != nil {
		t.Errorf("unexpected state after reject: %+v", s)
	}
}

func TestRequestRescheduleValidation(t *testing.T) {
	s := confirmedState()
	if err := Can(s, EventRequestReschedule, Params{}); !errors.Is(err, ErrMissingProposedDates) {
		t.Errorf("expected ErrMissingProposedDates, got %v", err)
	}
	if err := Can(s, EventRequestReschedule, Params{Proposed: s.Stay()}); !errors.Is(err, ErrSameDates) {
		t.Errorf("expected ErrSameDates, got %v", err)
	}
	s.Status = StatusPending
	proposed := calendar.Range{Start: calendar.MustParse("2025-08-01"), End: calendar.MustParse("2025-08-04")}
	if err := Can(s, EventRequestReschedule, Params{Proposed: proposed}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending bookings cannot be rescheduled, got %v", err)
	}
}

func TestNewCode(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	code := NewCode(now)
	if !strings.HasPrefix(code, "MP") {
		t.Errorf("expected MP prefix, got %s", code)
	}
	if code != strings.ToUpper(code) {
		t.Errorf("expected upper-case code, got %s", code)
	}
	if NewCode(now.Add(time.Millisecond)) == code {
		t.Error("codes one millisecond apart must differ")
	}
}
