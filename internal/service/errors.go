package service

import (
	"errors"
	"fmt"
)

// Kinds. Every error returned by this package matches exactly one of them
// with errors.Is, so the transport layer can pick a status code.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
)

var (
	ErrGuestNameRequired = fmt.Errorf("%w: guest name is required", ErrValidation)
	ErrGuestPhoneInvalid = fmt.Errorf("%w: guest phone is missing or malformed", ErrValidation)
	ErrGuestEmailInvalid = fmt.Errorf("%w: guest e-mail is malformed", ErrValidation)
	ErrGuestsInvalid     = fmt.Errorf("%w: guest count is out of range", ErrValidation)
	ErrTooManyGuests     = fmt.Errorf("%w: guest count exceeds the property capacity", ErrValidation)
	ErrPastCheckIn       = fmt.Errorf("%w: check-in lies in the past", ErrValidation)
	ErrPropertyName      = fmt.Errorf("%w: property name is required", ErrValidation)
	ErrUnknownMode       = fmt.Errorf("%w: unknown selection mode", ErrValidation)
	ErrInvalidRole       = fmt.Errorf("%w: unknown role or status", ErrValidation)

	ErrDatesUnavailable = fmt.Errorf("%w: dates are already booked", ErrConflict)
	ErrPropertyInUse    = fmt.Errorf("%w: property has active bookings", ErrConflict)

	ErrSelfDemotion = fmt.Errorf("%w: admins cannot change their own role or status", ErrForbidden)
)

// validation wraps a domain error from a lower package as a validation
// failure while keeping it matchable.
func validation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func invalidTransition(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
}
