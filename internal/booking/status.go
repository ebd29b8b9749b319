package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled}

// ActiveStatuses are the statuses that occupy the calendar.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn}

func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Blocks reports whether a booking in status s makes its dates unavailable.
// Completed stays lie in the past and cancelled ones are released.
func (s Status) Blocks() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
