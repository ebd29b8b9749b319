package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"gorm.io/gorm"
)

type BookingFilter struct {
	PropertyID          uint
	Statuses            []booking.Status
	RescheduleRequested *bool
	// Search matches code, guest name, phone or e-mail.
	Search string
	// Bookings whose stay overlaps [From, To).
	From, To calendar.Date
	Limit    int
	Offset   int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Transaction(ctx context.Context, fn func(repo *BookingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Create inserts the booking and its first history entry.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Property").Create(b).Error; err != nil {
		return err
	}
	history := models.NewBookingHistory(b, booking.EventCreate, b.UserID)
	return db.Create(&history).Error
}

// Save persists a lifecycle change together with its history entry.
func (r *BookingRepository) Save(ctx context.Context, b *models.Booking, event booking.Event, actorID *uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Property").Save(b).Error; err != nil {
		return err
	}
	history := models.NewBookingHistory(b, event, actorID)
	return db.Create(&history).Error
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).Preload("Property").Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.PropertyID != 0 {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.RescheduleRequested != nil {
		q = q.Where("reschedule_requested = ?", *f.RescheduleRequested)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		match := r.db.Session(&gorm.Session{NewDB: true}).
			Where("LOWER(code) LIKE ?", like).
			Or("LOWER(guest_name) LIKE ?", like).
			Or("LOWER(guest_email) LIKE ?", like)
		// text without digits must not turn into a match-all phone pattern
		if phone := models.NormalizePhone(s); phone != "" {
			match = match.Or("guest_phone LIKE ?", "%"+phone+"%")
		}
		q = q.Where(match)
	}
	if !f.To.IsZero() {
		q = q.Where("check_in < ?", f.To)
	}
	if !f.From.IsZero() {
		q = q.Where("check_out > ?", f.From)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var bookings []models.Booking
	if err := q.Preload("Property").Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ActiveForProperty returns the bookings that currently occupy dates of the
// property.
func (r *BookingRepository) ActiveForProperty(ctx context.Context, propertyID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND status IN ?", propertyID, booking.ActiveStatuses).
		Order("check_in asc").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) History(ctx context.Context, code string) ([]models.BookingHistory, error) {
	var history []models.BookingHistory
	err := r.db.WithContext(ctx).Where("code = ?", code).Order("created_at desc, id desc").Find(&history).Error
	return history, err
}

// StatsByUser sums non-cancelled bookings per user.
func (r *BookingRepository) StatsByUser(ctx context.Context, userIDs []uint) (map[uint]models.UserStats, error) {
	out := make(map[uint]models.UserStats, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID       uint
		BookingCount int64
		TotalSpend   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("user_id, COUNT(*) AS booking_count, COALESCE(SUM(total_price), 0) AS total_spend").
		Where("user_id IN ? AND status <> ?", userIDs, booking.StatusCancelled).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = models.UserStats{BookingCount: row.BookingCount, TotalSpend: row.TotalSpend}
	}
	return out, nil
}
