package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/availability"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/pricing"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/sirupsen/logrus"
)

type PropertyService struct {
	properties *repository.PropertyRepository
	bookings   *repository.BookingRepository
	clock      calendar.Clock
	loc        *time.Location
}

func NewPropertyService(properties *repository.PropertyRepository, bookings *repository.BookingRepository, clock calendar.Clock, loc *time.Location) *PropertyService {
	return &PropertyService{properties: properties, bookings: bookings, clock: clock, loc: loc}
}

func (s *PropertyService) Today() calendar.Date {
	return calendar.Today(s.clock, s.loc)
}

func (s *PropertyService) List(ctx context.Context, propertyType models.PropertyType) ([]models.Property, error) {
	return s.properties.List(ctx, propertyType)
}

func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	p, err := s.properties.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// Create stores a new property and returns the configuration warnings an
// admin should look at. Warnings never block saving.
func (s *PropertyService) Create(ctx context.Context, p *models.Property) ([]string, error) {
	p.ID = 0
	p.Overrides = nil
	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"property": p.ID, "slug": p.Slug}).Info("Property created")
	return p.Warnings(), nil
}

// Update replaces the editable fields of property id. Date overrides are
// edited through SetPrices and RemovePrice only.
func (s *PropertyService) Update(ctx context.Context, id uint, changes models.Property) (*models.Property, []string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	p.Name = changes.Name
	p.Slug = changes.Slug
	p.Type = changes.Type
	p.Description = changes.Description
	p.Address = changes.Address
	p.WeekdayPrice = changes.WeekdayPrice
	p.WeekendPrice = changes.WeekendPrice
	p.ContactForPrice = changes.ContactForPrice
	p.ContactPriceWeekday = changes.ContactPriceWeekday
	p.ContactPriceWeekend = changes.ContactPriceWeekend
	p.MaxGuests = changes.MaxGuests
	p.Bedrooms = changes.Bedrooms
	p.Bathrooms = changes.Bathrooms
	p.Rating = changes.Rating
	p.Amenities = changes.Amenities
	p.Images = changes.Images

	if err := s.prepare(ctx, p); err != nil {
		return nil, nil, err
	}
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, p.Warnings(), nil
}

// Delete refuses while any booking still occupies dates of the property.
func (s *PropertyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	active, err := s.bookings.ActiveForProperty(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return ErrPropertyInUse
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	logrus.WithField("property", id).Info("Property deleted")
	return nil
}

func (s *PropertyService) prepare(ctx context.Context, p *models.Property) error {
	p.Normalize()
	if p.Name == "" {
		return ErrPropertyName
	}
	if p.WeekdayPrice < 0 || p.WeekendPrice < 0 {
		return validation(pricing.ErrInvalidPrice)
	}

	base := p.Slug
	for i := 2; ; i++ {
		taken, err := s.properties.SlugTaken(ctx, p.Slug, p.ID)
		if err != nil {
			return err
		}
		if !taken {
			return nil
		}
		p.Slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// CalendarDay is one cell of the month view.
type CalendarDay struct {
	Date     calendar.Date         `json:"date"`
	Price    int64                 `json:"price"`
	Source   pricing.Source        `json:"source"`
	Weekend  bool                  `json:"isWeekend"`
	Past     bool                  `json:"isPast"`
	Booked   bool                  `json:"isBooked"`
	Code     string                `json:"bookingCode,omitempty"`
	Status   booking.Status        `json:"bookingStatus,omitempty"`
	Position availability.Position `json:"position,omitempty"`
}

type CalendarMonth struct {
	PropertyID      uint          `json:"propertyId"`
	Month           string        `json:"month"`
	ContactForPrice bool          `json:"isContactForPrice"`
	Days            []CalendarDay `json:"days"`
}

// Calendar resolves the price of every day in the month and marks the days
// occupied by active bookings.
func (s *PropertyService) Calendar(ctx context.Context, id uint, year int, month time.Month) (*CalendarMonth, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ActiveForProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	reservations := make([]availability.Reservation, len(active))
	for i := range active {
		reservations[i] = active[i].Reservation()
	}

	window := calendar.MonthRange(year, month)
	segments := availability.NewIndex(reservations).DaySegments(window)
	rates := p.Rates()
	today := s.Today()

	out := &CalendarMonth{
		PropertyID:      p.ID,
		Month:           fmt.Sprintf("%04d-%02d", year, int(month)),
		ContactForPrice: p.ContactForPrice,
	}
	for _, d := range window.Days() {
		day := CalendarDay{
			Date:    d,
			Weekend: pricing.IsWeekend(d),
			Past:    d.Before(today),
		}
		if !p.ContactForPrice {
			day.Price = pricing.PriceFor(rates, d)
			day.Source = pricing.SourceFor(rates, d)
		}
		if seg, ok := segments[d]; ok {
			day.Booked = true
			day.Code = seg.Code
			day.Status = seg.Status
			day.Position = seg.Position
		}
		out.Days = append(out.Days, day)
	}
	return out, nil
}

// SetPrices writes price on every selected date. Nothing is written when a
// date lies in the past.
func (s *PropertyService) SetPrices(ctx context.Context, id uint, dates []calendar.Date, price int64) ([]calendar.Date, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	written, err := pricing.ApplyPrice(p.CustomPrices(), dates, price, s.Today())
	if err != nil {
		return nil, validation(err)
	}

	changes := make(map[calendar.Date]int64, len(written))
	for _, d := range written {
		changes[d] = price
	}
	if err := s.properties.UpsertOverrides(ctx, id, changes); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"property": id, "dates": len(written), "price": price}).Info("Custom prices set")
	return written, nil
}

// RemovePrice reverts d to the weekday or weekend rate.
func (s *PropertyService) RemovePrice(ctx context.Context, id uint, d calendar.Date) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := pricing.RemovePrice(p.CustomPrices(), d, s.Today()); err != nil {
		if errors.Is(err, pricing.ErrNoSuchOverride) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return validation(err)
	}
	if err := s.properties.DeleteOverride(ctx, id, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type SelectionMode string

const (
	SelectSaturdays SelectionMode = "saturdays"
	SelectFuture    SelectionMode = "future"
)

// SelectDates returns the editable dates of the month for a bulk selection.
func (s *PropertyService) SelectDates(year int, month time.Month, mode SelectionMode) ([]calendar.Date, error) {
	today := s.Today()
	switch mode {
	case SelectSaturdays:
		return calendar.SaturdaysInMonth(year, month, today), nil
	case SelectFuture, "":
		return calendar.FutureDatesInMonth(year, month, today), nil
	}
	return nil, ErrUnknownMode
}
