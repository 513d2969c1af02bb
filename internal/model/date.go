package model

import (
	"fmt"
	"time"
)

// dateLayout is the catalog wire format for dates.
const dateLayout = "2006-01-02"

// Date is a civil date without a time component.
// It serializes to JSON as a "YYYY-MM-DD" string, which is the catalog's
// date format. The zero Date is treated as absent and serializes as null.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a time.Time to its civil date in the local zone.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time converts the date to a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String returns the wire representation, or "undated" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return "undated"
	}
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string, or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time().Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}
