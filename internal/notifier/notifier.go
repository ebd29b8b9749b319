package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Notifier delivers booking news to staff channels or guests.
type Notifier interface {
	NotifyNewBooking(ctx context.Context, b *models.Booking) error
	NotifyBookingEvent(ctx context.Context, b *models.Booking, event booking.Event) error
}

// Multi fans out to every configured notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyNewBooking(ctx context.Context, b *models.Booking) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyNewBooking(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyBookingEvent(ctx context.Context, b *models.Booking, event booking.Event) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBookingEvent(ctx, b, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Breaker stops calling a channel that keeps failing, so a dead webhook does
// not pile up goroutines.
type Breaker struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker
}

func WithBreaker(name string, next Notifier) *Breaker {
	return &Breaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logrus.WithField("notifier", name).Warnf("Circuit breaker state changed from %s to %s", from, to)
			},
		}),
	}
}

func (b *Breaker) NotifyNewBooking(ctx context.Context, bk *models.Booking) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.NotifyNewBooking(ctx, bk)
	})
	return err
}

func (b *Breaker) NotifyBookingEvent(ctx context.Context, bk *models.Booking, event booking.Event) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.NotifyBookingEvent(ctx, bk, event)
	})
	return err
}

// Async sends in the background. Failures are logged and never reach the
// caller.
type Async struct {
	next    Notifier
	timeout time.Duration
}

func NewAsync(next Notifier, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

func (a *Async) NewBooking(b models.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.NotifyNewBooking(ctx, &b); err != nil {
			logrus.WithError(err).WithField("code", b.Code).Warn("New booking notification failed")
		}
	}()
}

func (a *Async) BookingEvent(b models.Booking, event booking.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.NotifyBookingEvent(ctx, &b, event); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"code": b.Code, "event": event}).Warn("Booking notification failed")
		}
	}()
}

var eventLabels = map[booking.Event]string{
	booking.EventConfirm:           "Đã xác nhận",
	booking.EventReject:            "Bị từ chối",
	booking.EventGuestCancel:       "Khách hủy",
	booking.EventCheckIn:           "Đã nhận phòng",
	booking.EventComplete:          "Đã hoàn thành",
	booking.EventAdminCancel:       "Đã hủy",
	booking.EventRequestReschedule: "Yêu cầu đổi lịch",
	booking.EventAcceptReschedule:  "Đã đổi lịch",
	booking.EventRejectReschedule:  "Từ chối đổi lịch",
}

func EventLabel(e booking.Event) string {
	if label, ok := eventLabels[e]; ok {
		return label
	}
	return string(e)
}

func propertyName(b *models.Booking) string {
	if b.Property != nil && b.Property.Name != "" {
		return b.Property.Name
	}
	return fmt.Sprintf("#%d", b.PropertyID)
}

// FormatVND renders 1500000 as "1.500.000đ".
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "đ"
}

// NewBookingMessage is the plain-text staff alert for a new booking.
func NewBookingMessage(b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏠 Đơn đặt phòng mới %s\n", b.Code)
	fmt.Fprintf(&sb, "Căn: %s\n", propertyName(b))
	fmt.Fprintf(&sb, "Khách: %s - %s\n", b.GuestName, b.GuestPhone)
	fmt.Fprintf(&sb, "Ngày: %s → %s (%d đêm), %d khách\n", b.CheckIn, b.CheckOut, b.Nights(), b.Guests)
	fmt.Fprintf(&sb, "Tổng: %s, cọc: %s", FormatVND(b.TotalPrice), FormatVND(b.DepositAmount))
	if b.Note != "" {
		fmt.Fprintf(&sb, "\nGhi chú: %s", b.Note)
	}
	return sb.String()
}

func BookingEventMessage(b *models.Booking, event booking.Event) string {
	msg := fmt.Sprintf("📋 %s: %s\nCăn: %s\nKhách: %s - %s\nNgày: %s → %s",
		b.Code, EventLabel(event), propertyName(b), b.GuestName, b.GuestPhone, b.CheckIn, b.CheckOut)
	if proposed, ok := b.Proposed(); ok {
		msg += fmt.Sprintf("\nĐề xuất: %s → %s", proposed.Start, proposed.End)
	}
	return msg
}
