package models

import (
	"strings"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/availability"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"gorm.io/gorm"
)

type GuestFields struct {
	GuestName  string `json:"guestName" gorm:"not null"`
	GuestPhone string `json:"guestPhone" gorm:"not null;index"`
	GuestEmail string `json:"guestEmail"`
	Guests     int    `json:"guests" gorm:"not null;default:1"`
	Note       string `json:"note"`
}

// Booking is never deleted; cancellation is a status.
type Booking struct {
	gorm.Model
	Code          string    `json:"code" gorm:"uniqueIndex;not null"`
	PropertyID    uint      `json:"propertyId" gorm:"index;not null"`
	Property      *Property `json:"property,omitempty"`
	UserID        *uint     `json:"userId,omitempty" gorm:"index"`
	TotalPrice    int64     `json:"totalPrice" gorm:"not null"`
	DepositAmount int64     `json:"depositAmount" gorm:"not null"`
	GuestFields   `gorm:"embedded"`
	booking.State `gorm:"embedded"`
}

func (b *Booking) Remaining() int64 {
	return b.TotalPrice - b.DepositAmount
}

func (b *Booking) Reservation() availability.Reservation {
	return availability.Reservation{Code: b.Code, Stay: b.Stay(), Status: b.Status}
}

func (b *Booking) Normalize() {
	b.GuestName = strings.TrimSpace(b.GuestName)
	b.GuestPhone = NormalizePhone(b.GuestPhone)
	b.GuestEmail = strings.ToLower(strings.TrimSpace(b.GuestEmail))
	if b.Guests <= 0 {
		b.Guests = 1
	}
	if b.Status == "" {
		b.Status = booking.StatusPending
	}
}

// NormalizePhone keeps digits and a leading plus so that lookups by phone
// tolerate spaces and dots.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BookingHistory is a snapshot written in the same transaction as every
// lifecycle change.
type BookingHistory struct {
	gorm.Model
	BookingID     uint          `json:"bookingId" gorm:"index"`
	Code          string        `json:"code" gorm:"index"`
	Event         booking.Event `json:"event"`
	ActorID       *uint         `json:"actorId,omitempty"`
	TotalPrice    int64         `json:"totalPrice"`
	booking.State `gorm:"embedded"`
}

func NewBookingHistory(b *Booking, event booking.Event, actorID *uint) BookingHistory {
	return BookingHistory{
		BookingID:  b.ID,
		Code:       b.Code,
		Event:      event,
		ActorID:    actorID,
		TotalPrice: b.TotalPrice,
		State:      b.State,
	}
}
