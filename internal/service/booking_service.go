package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/availability"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/events"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/payment"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/pricing"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const DefaultPaymentMethod = "bank_transfer"

// Announcer delivers best-effort notifications after a change is committed.
type Announcer interface {
	NewBooking(b models.Booking)
	BookingEvent(b models.Booking, event booking.Event)
}

type BookingService struct {
	properties *repository.PropertyRepository
	bookings   *repository.BookingRepository
	payments   *payment.QRBuilder
	announcer  Announcer
	publisher  events.Publisher
	clock      calendar.Clock
	loc        *time.Location
	validate   *validator.Validate
	locks      propertyLocks
}

func NewBookingService(
	properties *repository.PropertyRepository,
	bookings *repository.BookingRepository,
	payments *payment.QRBuilder,
	announcer Announcer,
	publisher events.Publisher,
	clock calendar.Clock,
	loc *time.Location,
) *BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BookingService{
		properties: properties,
		bookings:   bookings,
		payments:   payments,
		announcer:  announcer,
		publisher:  publisher,
		clock:      clock,
		loc:        loc,
		validate:   validator.New(),
	}
}

// Today is the current date in the property's local calendar.
func (s *BookingService) Today() calendar.Date {
	return calendar.Today(s.clock, s.loc)
}

type QuoteResult struct {
	pricing.Quote
	Available bool `json:"available"`
}

// Quote prices a candidate stay and reports whether it is still free.
func (s *BookingService) Quote(ctx context.Context, propertyID uint, stay calendar.Range, guests int) (*QuoteResult, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := stay.Validate(); err != nil {
		return nil, validation(err)
	}
	if property.ContactForPrice {
		return nil, validation(pricing.ErrContactForPrice)
	}
	if guests > property.MaxGuests {
		return nil, ErrTooManyGuests
	}

	q, err := pricing.Calculate(property.Rates(), stay)
	if err != nil {
		return nil, validation(err)
	}
	idx, err := s.index(ctx, s.bookings, propertyID)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Quote: q, Available: idx.IsRangeFree(stay)}, nil
}

type CreateBookingInput struct {
	PropertyID uint `validate:"required"`
	CheckIn    calendar.Date
	CheckOut   calendar.Date
	Guests     int    `validate:"min=1,max=50"`
	GuestName  string `validate:"required,max=120"`
	GuestPhone string `validate:"required,min=8,max=16"`
	GuestEmail string `validate:"omitempty,email"`
	Note       string `validate:"max=2000"`
	UserID     *uint
}

type Receipt struct {
	Booking *models.Booking
	// Payment is nil when no bank account is configured.
	Payment *payment.Instructions
}

// Create reserves the stay in status pending. The availability check is
// repeated inside the insert transaction while holding the property lock.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*Receipt, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestPhone = models.NormalizePhone(in.GuestPhone)
	in.GuestEmail = strings.ToLower(strings.TrimSpace(in.GuestEmail))
	in.Note = strings.TrimSpace(in.Note)
	if in.Guests == 0 {
		in.Guests = 1
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	stay := calendar.Range{Start: in.CheckIn, End: in.CheckOut}
	if err := stay.Validate(); err != nil {
		return nil, validation(err)
	}
	if stay.Start.Before(s.Today()) {
		return nil, ErrPastCheckIn
	}

	property, err := s.getProperty(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.ContactForPrice {
		return nil, validation(pricing.ErrContactForPrice)
	}
	if in.Guests > property.MaxGuests {
		return nil, ErrTooManyGuests
	}
	q, err := pricing.Calculate(property.Rates(), stay)
	if err != nil {
		return nil, validation(err)
	}

	b := &models.Booking{
		PropertyID:    property.ID,
		UserID:        in.UserID,
		TotalPrice:    q.TotalPrice,
		DepositAmount: q.Deposit,
		GuestFields: models.GuestFields{
			GuestName:  in.GuestName,
			GuestPhone: in.GuestPhone,
			GuestEmail: in.GuestEmail,
			Guests:     in.Guests,
			Note:       in.Note,
		},
		State: booking.State{
			Status:   booking.StatusPending,
			CheckIn:  stay.Start,
			CheckOut: stay.End,
		},
	}
	b.Normalize()

	unlock := s.locks.lock(property.ID)
	// The property lock does not cover other properties, so a booking
	// elsewhere can take the same code between the check and the insert.
	for attempt := 1; ; attempt++ {
		err = s.bookings.Transaction(ctx, func(repo *repository.BookingRepository) error {
			idx, err := s.index(ctx, repo, property.ID)
			if err != nil {
				return err
			}
			if conflicts := idx.Conflicts(stay, ""); len(conflicts) > 0 {
				return conflictError(conflicts)
			}
			if b.Code, err = s.newCode(ctx, repo); err != nil {
				return err
			}
			return repo.Create(ctx, b)
		})
		if !isCodeViolation(err) || attempt == maxCodeAttempts {
			break
		}
		logrus.WithField("code", b.Code).Warn("Booking code taken concurrently, retrying")
		b.ID, b.Code = 0, ""
	}
	unlock()
	if err != nil {
		if isOverlapViolation(err) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}

	b.Property = property
	logrus.WithFields(logrus.Fields{"code": b.Code, "property": property.ID, "stay": stay.String()}).Info("Booking created")
	s.announce(b, booking.EventCreate)

	receipt := &Receipt{Booking: b}
	instructions, err := s.payments.Deposit(b.Code, b.DepositAmount, b.CreatedAt)
	if err != nil {
		logrus.WithError(err).Warn("No payment instructions for booking")
	} else {
		receipt.Payment = &instructions
	}
	return receipt, nil
}

// PaymentFor rebuilds the deposit instructions of an unpaid booking.
func (s *BookingService) PaymentFor(b *models.Booking) *payment.Instructions {
	if b.Status != booking.StatusPending {
		return nil
	}
	instructions, err := s.payments.Deposit(b.Code, b.DepositAmount, b.CreatedAt)
	if err != nil {
		return nil
	}
	return &instructions
}

// Lookup finds a booking for a guest. The phone must match the one given at
// checkout; a mismatch is reported as not found.
func (s *BookingService) Lookup(ctx context.Context, code, phone string) (*models.Booking, error) {
	b, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if phone == "" || models.NormalizePhone(phone) != b.GuestPhone {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BookingService) GuestCancel(ctx context.Context, code, phone string) (*models.Booking, error) {
	if _, err := s.Lookup(ctx, code, phone); err != nil {
		return nil, err
	}
	return s.fire(ctx, code, booking.EventGuestCancel, booking.Params{}, nil)
}

// RequestReschedule stores the guest's proposed dates on a confirmed
// booking. The dates must be free apart from the booking itself.
func (s *BookingService) RequestReschedule(ctx context.Context, code, phone string, proposed calendar.Range) (*models.Booking, error) {
	b, err := s.Lookup(ctx, code, phone)
	if err != nil {
		return nil, err
	}
	if err := proposed.Validate(); err != nil {
		return nil, validation(err)
	}
	if proposed.Start.Before(s.Today()) {
		return nil, ErrPastCheckIn
	}
	idx, err := s.index(ctx, s.bookings, b.PropertyID)
	if err != nil {
		return nil, err
	}
	if conflicts := idx.Conflicts(proposed, b.Code); len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}
	return s.fire(ctx, code, booking.EventRequestReschedule, booking.Params{Proposed: proposed}, nil)
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error) {
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) Get(ctx context.Context, code string) (*models.Booking, error) {
	b, err := s.bookings.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *BookingService) History(ctx context.Context, code string) ([]models.BookingHistory, error) {
	b, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.bookings.History(ctx, b.Code)
}

func (s *BookingService) Confirm(ctx context.Context, code, paymentMethod string, actorID uint) (*models.Booking, error) {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	return s.fire(ctx, code, booking.EventConfirm, booking.Params{PaymentMethod: paymentMethod}, &actorID)
}

func (s *BookingService) Reject(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventReject, booking.Params{}, &actorID)
}

func (s *BookingService) CheckIn(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventCheckIn, booking.Params{}, &actorID)
}

func (s *BookingService) Complete(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventComplete, booking.Params{}, &actorID)
}

func (s *BookingService) Cancel(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventAdminCancel, booking.Params{}, &actorID)
}

func (s *BookingService) AcceptReschedule(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventAcceptReschedule, booking.Params{}, &actorID)
}

func (s *BookingService) RejectReschedule(ctx context.Context, code string, actorID uint) (*models.Booking, error) {
	return s.fire(ctx, code, booking.EventRejectReschedule, booking.Params{}, &actorID)
}

// fire loads the booking, applies event and stores the result with a history
// snapshot in one transaction. Accepting a reschedule moves the stay, so it
// re-checks the proposed dates under the property lock.
func (s *BookingService) fire(ctx context.Context, code string, event booking.Event, params booking.Params, actorID *uint) (*models.Booking, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if event == booking.EventAcceptReschedule {
		unlock := s.locks.lock(current.PropertyID)
		defer unlock()
	}

	params.Today = s.Today()
	var b *models.Booking
	err = s.bookings.Transaction(ctx, func(repo *repository.BookingRepository) error {
		b, err = repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := booking.Can(b.State, event, params); err != nil {
			return invalidTransition(err)
		}

		if event == booking.EventAcceptReschedule {
			proposed, _ := b.Proposed()
			idx, err := s.index(ctx, repo, b.PropertyID)
			if err != nil {
				return err
			}
			if conflicts := idx.Conflicts(proposed, b.Code); len(conflicts) > 0 {
				return conflictError(conflicts)
			}
		}

		if err := booking.Apply(&b.State, event, params); err != nil {
			return invalidTransition(err)
		}
		return repo.Save(ctx, b, event, actorID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if isOverlapViolation(err) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"code": b.Code, "event": event, "status": b.Status}).Info("Booking updated")
	s.announce(b, event)
	return b, nil
}

func (s *BookingService) announce(b *models.Booking, event booking.Event) {
	if s.announcer != nil {
		if event == booking.EventCreate {
			s.announcer.NewBooking(*b)
		} else {
			s.announcer.BookingEvent(*b, event)
		}
	}

	snapshot := *b
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, &snapshot, event); err != nil {
			logrus.WithError(err).WithField("code", snapshot.Code).Warn("Failed to publish booking event")
		}
	}()
}

func (s *BookingService) getProperty(ctx context.Context, id uint) (*models.Property, error) {
	p, err := s.properties.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *BookingService) index(ctx context.Context, repo *repository.BookingRepository, propertyID uint) (*availability.Index, error) {
	active, err := repo.ActiveForProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	reservations := make([]availability.Reservation, len(active))
	for i := range active {
		reservations[i] = active[i].Reservation()
	}
	return availability.NewIndex(reservations), nil
}

// newCode derives the code from the clock and steps forward a millisecond
// while it collides with an existing booking.
func (s *BookingService) newCode(ctx context.Context, repo *repository.BookingRepository) (string, error) {
	now := s.clock.Now()
	for i := 0; i < 100; i++ {
		code := booking.NewCode(now)
		exists, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		now = now.Add(time.Millisecond)
	}
	return "", fmt.Errorf("could not allocate a booking code")
}

func (s *BookingService) validateInput(in CreateBookingInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return validation(err)
	}
	switch fieldErrors[0].Field() {
	case "GuestName":
		return ErrGuestNameRequired
	case "GuestPhone":
		return ErrGuestPhoneInvalid
	case "GuestEmail":
		return ErrGuestEmailInvalid
	case "Guests":
		return ErrGuestsInvalid
	case "PropertyID":
		return ErrNotFound
	}
	return validation(fieldErrors[0])
}

func conflictError(conflicts []availability.Reservation) error {
	codes := make([]string, len(conflicts))
	for i, c := range conflicts {
		codes[i] = c.Code
	}
	return fmt.Errorf("%w (%s)", ErrDatesUnavailable, strings.Join(codes, ", "))
}

// isOverlapViolation recognises the postgres exclusion constraint that backs
// the in-process lock across instances.
func isOverlapViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "bookings_no_overlap")
}

const maxCodeAttempts = 3

// isCodeViolation matches the unique index on bookings.code as reported by
// postgres ("idx_bookings_code") and sqlite ("bookings.code").
func isCodeViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "idx_bookings_code") || strings.Contains(msg, "bookings.code")
}

// propertyLocks serialises booking writes per property within this process.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (l *propertyLocks) lock(id uint) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
