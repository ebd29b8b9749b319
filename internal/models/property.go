package models

import (
	"strings"
	"unicode"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/pricing"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyVilla    PropertyType = "villa"
	PropertyHomestay PropertyType = "homestay"
)

type Property struct {
	gorm.Model
	Name        string       `json:"name" gorm:"not null"`
	Slug        string       `json:"slug" gorm:"uniqueIndex"`
	Type        PropertyType `json:"type" gorm:"not null;default:villa"`
	Description string       `json:"description"`
	Address     string       `json:"address"`

	WeekdayPrice        int64  `json:"weekdayPrice" gorm:"not null;default:0"`
	WeekendPrice        int64  `json:"weekendPrice" gorm:"not null;default:0"`
	ContactForPrice     bool   `json:"isContactForPrice" gorm:"not null;default:false"`
	ContactPriceWeekday string `json:"contactPriceWeekday"`
	ContactPriceWeekend string `json:"contactPriceWeekend"`

	MaxGuests int     `json:"maxGuests" gorm:"not null;default:1"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Rating    float64 `json:"rating"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`
	// Images are public URLs; the first one is the cover.
	Images datatypes.JSONSlice[string] `json:"images"`

	Overrides []DateOverride `json:"overrides,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// DateOverride replaces the weekday/weekend rate of one property on one date.
type DateOverride struct {
	ID         uint          `json:"-" gorm:"primaryKey"`
	PropertyID uint          `json:"-" gorm:"uniqueIndex:idx_property_date;not null"`
	Date       calendar.Date `json:"date" gorm:"uniqueIndex:idx_property_date;type:date;not null"`
	Price      int64         `json:"price" gorm:"not null"`
}

// CustomPrices returns the overrides keyed by date.
func (p *Property) CustomPrices() map[calendar.Date]int64 {
	out := make(map[calendar.Date]int64, len(p.Overrides))
	for _, o := range p.Overrides {
		out[o.Date] = o.Price
	}
	return out
}

func (p *Property) Rates() pricing.Rates {
	return pricing.Rates{
		Weekday:   p.WeekdayPrice,
		Weekend:   p.WeekendPrice,
		Overrides: p.CustomPrices(),
	}
}

func (p *Property) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Normalize applies the defaults for fields the admin left empty.
func (p *Property) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Type == "" {
		p.Type = PropertyVilla
	}
	if p.MaxGuests <= 0 {
		p.MaxGuests = 1
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}
	if p.Amenities == nil {
		p.Amenities = datatypes.JSONSlice[string]{}
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
}

// Warnings reports configuration problems an admin should fix. They never
// block saving.
func (p *Property) Warnings() []string {
	var warnings []string
	if p.Type != PropertyVilla && p.Type != PropertyHomestay {
		warnings = append(warnings, "unknown property type "+string(p.Type))
	}
	if p.ContactForPrice {
		if p.ContactPriceWeekday == "" && p.ContactPriceWeekend == "" {
			warnings = append(warnings, "contact-for-price property has no price text")
		}
		return warnings
	}
	if p.WeekdayPrice <= 0 {
		warnings = append(warnings, "weekday price is not set")
	}
	if p.WeekendPrice <= 0 {
		warnings = append(warnings, "weekend price is not set")
	}
	if len(p.Images) == 0 {
		warnings = append(warnings, "property has no images")
	}
	return warnings
}

// slugify turns "Villa Biển Đông" into "villa-bien-dong".
func slugify(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, strings.NewReplacer("đ", "d", "Đ", "D").Replace(name))
	if err != nil {
		plain = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
