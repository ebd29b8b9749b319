package booking

import (
	"errors"
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

var (
	ErrInvalidTransition    = errors.New("invalid booking transition")
	ErrTerminal             = errors.New("booking is already completed or cancelled")
	ErrNoRescheduleRequest  = errors.New("booking has no pending reschedule request")
	ErrRescheduleRequested  = errors.New("booking already has a pending reschedule request")
	ErrCheckInNotReached    = errors.New("check-in date has not been reached")
	ErrCheckOutNotReached   = errors.New("stay has not ended yet")
	ErrMissingProposedDates = errors.New("reschedule requires new check-in and check-out dates")
	ErrSameDates            = errors.New("proposed dates are identical to the current stay")
)

type Event string

const (
	// EventCreate only labels the first history entry; it is not a transition.
	EventCreate            Event = "create"
	EventConfirm           Event = "confirm"
	EventReject            Event = "reject"
	EventGuestCancel       Event = "guest_cancel"
	EventCheckIn           Event = "check_in"
	EventComplete          Event = "complete"
	EventAdminCancel       Event = "admin_cancel"
	EventRequestReschedule Event = "request_reschedule"
	EventAcceptReschedule  Event = "accept_reschedule"
	EventRejectReschedule  Event = "reject_reschedule"
)

// State is the part of a booking owned by the lifecycle. It is embedded in the
// persisted booking row.
type State struct {
	Status              Status         `json:"status" gorm:"index;not null;default:pending"`
	CheckIn             calendar.Date  `json:"checkIn" gorm:"type:date;not null;index"`
	CheckOut            calendar.Date  `json:"checkOut" gorm:"type:date;not null"`
	PaymentMethod       string         `json:"paymentMethod"`
	RescheduleRequested bool           `json:"rescheduleRequested" gorm:"not null;default:false"`
	NewCheckIn          *calendar.Date `json:"newCheckIn,omitempty" gorm:"type:date"`
	NewCheckOut         *calendar.Date `json:"newCheckOut,omitempty" gorm:"type:date"`
	RescheduleCount     int            `json:"rescheduleCount" gorm:"not null;default:0"`
}

func (s State) Stay() calendar.Range {
	return calendar.Range{Start: s.CheckIn, End: s.CheckOut}
}

func (s State) Nights() int {
	return s.Stay().Nights()
}

// Proposed returns the requested reschedule range, if any.
func (s State) Proposed() (calendar.Range, bool) {
	if !s.RescheduleRequested || s.NewCheckIn == nil || s.NewCheckOut == nil {
		return calendar.Range{}, false
	}
	return calendar.Range{Start: *s.NewCheckIn, End: *s.NewCheckOut}, true
}

// Params carries the event payload.
type Params struct {
	Today         calendar.Date
	PaymentMethod string
	Proposed      calendar.Range
}

// transitions lists, per event, the statuses it may fire from and the status
// it leads to. Reschedule events keep the status unchanged.
var transitions = map[Event]struct {
	from []Status
	to   Status
}{
	EventConfirm:           {[]Status{StatusPending}, StatusConfirmed},
	EventReject:            {[]Status{StatusPending}, StatusCancelled},
	EventGuestCancel:       {[]Status{StatusPending}, StatusCancelled},
	EventCheckIn:           {[]Status{StatusConfirmed}, StatusCheckedIn},
	EventComplete:          {[]Status{StatusCheckedIn}, StatusCompleted},
	EventAdminCancel:       {[]Status{StatusPending, StatusConfirmed, StatusCheckedIn}, StatusCancelled},
	EventRequestReschedule: {[]Status{StatusConfirmed}, StatusConfirmed},
	EventAcceptReschedule:  {[]Status{StatusConfirmed}, StatusConfirmed},
	EventRejectReschedule:  {[]Status{StatusConfirmed}, StatusConfirmed},
}

// Can reports whether e may fire on s. Callers check it before Apply so that
// the user gets a precise reason.
func Can(s State, e Event, p Params) error {
	t, ok := transitions[e]
	if !ok {
		return fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, e)
	}
	if s.Status.IsTerminal() {
		return ErrTerminal
	}
	if !contains(t.from, s.Status) {
		return fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, e, s.Status)
	}

	switch e {
	case EventCheckIn:
		if p.Today.Before(s.CheckIn) {
			return ErrCheckInNotReached
		}
	case EventComplete:
		if p.Today.Before(s.CheckOut) {
			return ErrCheckOutNotReached
		}
	case EventRequestReschedule:
		if s.RescheduleRequested {
			return ErrRescheduleRequested
		}
		if err := p.Proposed.Validate(); err != nil {
			return ErrMissingProposedDates
		}
		if p.Proposed == s.Stay() {
			return ErrSameDates
		}
	case EventAcceptReschedule, EventRejectReschedule:
		if _, ok := s.Proposed(); !ok {
			return ErrNoRescheduleRequest
		}
	}
	return nil
}

// Apply fires e on s, performing the side effects of the transition table.
// It re-checks Can and leaves s untouched on error.
func Apply(s *State, e Event, p Params) error {
	if err := Can(*s, e, p); err != nil {
		return err
	}

	switch e {
	case EventConfirm:
		s.PaymentMethod = p.PaymentMethod
	case EventRequestReschedule:
		start, end := p.Proposed.Start, p.Proposed.End
		s.RescheduleRequested = true
		s.NewCheckIn = &start
		s.NewCheckOut = &end
	case EventAcceptReschedule:
		proposed, _ := s.Proposed()
		s.CheckIn = proposed.Start
		s.CheckOut = proposed.End
		s.RescheduleCount++
		s.clearReschedule()
	case EventRejectReschedule:
		s.clearReschedule()
	case EventReject, EventGuestCancel, EventAdminCancel:
		// a cancelled booking carries no open request
		s.clearReschedule()
	}

	s.Status = transitions[e].to
	return nil
}

func (s *State) clearReschedule() {
	s.RescheduleRequested = false
	s.NewCheckIn = nil
	s.NewCheckOut = nil
}

func contains(list []Status, s Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
