package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/sirupsen/logrus"
)

type Category string

const (
	CategoryNewBooking        Category = "new_booking"
	CategoryRescheduleRequest Category = "reschedule_request"
	CategoryImminentCheckIn   Category = "imminent_check_in"
)

type Item struct {
	Category    Category       `json:"category"`
	Code        string         `json:"code"`
	PropertyID  uint           `json:"propertyId"`
	GuestName   string         `json:"guestName"`
	GuestPhone  string         `json:"guestPhone"`
	CheckIn     calendar.Date  `json:"checkIn"`
	CheckOut    calendar.Date  `json:"checkOut"`
	NewCheckIn  *calendar.Date `json:"newCheckIn,omitempty"`
	NewCheckOut *calendar.Date `json:"newCheckOut,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Snapshot is the admin notification list as of GeneratedAt.
type Snapshot struct {
	GeneratedAt        time.Time `json:"generatedAt"`
	NewBookings        []Item    `json:"newBookings"`
	RescheduleRequests []Item    `json:"rescheduleRequests"`
	ImminentCheckIns   []Item    `json:"imminentCheckIns"`
}

func (s Snapshot) Total() int {
	return len(s.NewBookings) + len(s.RescheduleRequests) + len(s.ImminentCheckIns)
}

type BookingLister interface {
	List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error)
}

// Poller rebuilds the snapshot on a ticker.
type Poller struct {
	bookings     BookingLister
	clock        calendar.Clock
	loc          *time.Location
	imminentDays int

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewPoller(bookings BookingLister, clock calendar.Clock, loc *time.Location, imminentDays int) *Poller {
	if imminentDays < 0 {
		imminentDays = 0
	}
	return &Poller{bookings: bookings, clock: clock, loc: loc, imminentDays: imminentDays}
}

// Start refreshes once immediately and then every interval until ctx ends.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	p.refreshLogged(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refreshLogged(ctx)
			}
		}
	}()
}

func (p *Poller) refreshLogged(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to refresh admin notifications")
	}
}

// Refresh refetches pending and confirmed bookings and recomputes the three
// categories. On error the previous snapshot is kept.
func (p *Poller) Refresh(ctx context.Context) error {
	list, _, err := p.bookings.List(ctx, repository.BookingFilter{
		Statuses: []booking.Status{booking.StatusPending, booking.StatusConfirmed},
	})
	if err != nil {
		return err
	}

	snap := Build(list, calendar.Today(p.clock, p.loc), p.imminentDays)
	snap.GeneratedAt = p.clock.Now()

	p.mu.Lock()
	p.snapshot = snap
	p.mu.Unlock()
	return nil
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Build sorts bookings into categories. A confirmed booking checking in
// between today and today+imminentDays (inclusive) is imminent.
func Build(bookings []models.Booking, today calendar.Date, imminentDays int) Snapshot {
	snap := Snapshot{
		NewBookings:        []Item{},
		RescheduleRequests: []Item{},
		ImminentCheckIns:   []Item{},
	}
	horizon := today.AddDays(imminentDays)
	for i := range bookings {
		b := &bookings[i]
		switch b.Status {
		case booking.StatusPending:
			snap.NewBookings = append(snap.NewBookings, itemFor(CategoryNewBooking, b))
		case booking.StatusConfirmed:
			if b.RescheduleRequested {
				snap.RescheduleRequests = append(snap.RescheduleRequests, itemFor(CategoryRescheduleRequest, b))
			}
			if !b.CheckIn.Before(today) && !b.CheckIn.After(horizon) {
				snap.ImminentCheckIns = append(snap.ImminentCheckIns, itemFor(CategoryImminentCheckIn, b))
			}
		}
	}
	return snap
}

func itemFor(c Category, b *models.Booking) Item {
	return Item{
		Category:    c,
		Code:        b.Code,
		PropertyID:  b.PropertyID,
		GuestName:   b.GuestName,
		GuestPhone:  b.GuestPhone,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		NewCheckIn:  b.NewCheckIn,
		NewCheckOut: b.NewCheckOut,
		CreatedAt:   b.CreatedAt,
	}
}
