package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Date is a calendar day without time of day or time zone. Price overrides,
// availability and reservations are all keyed by Date so that no timezone
// arithmetic can shift a booking by one day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the year, month and day of t as seen in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return FromTime(t), nil
}

func MustParse(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current calendar day in loc.
func Today(clock Clock, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(clock.Now().In(loc))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// midnight is the UTC instant used for arithmetic only; it never leaves this
// package.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.midnight().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// DaysUntil returns the number of days from d to other (negative if other is
// earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.midnight().Sub(d.midnight()).Hours() / 24)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Value stores the date as a SQL DATE literal.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan accepts what sqlite and postgres drivers hand back for DATE columns.
// Instants are read in UTC because both drivers report DATE values as UTC
// midnight.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v.UTC())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into calendar.Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	return d.UnmarshalText([]byte(s))
}

// GormDataType keeps the column type stable across dialects.
func (Date) GormDataType() string {
	return "date"
}
