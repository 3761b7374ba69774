package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO layout used for all-day dates and identity keys.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ParseInstant accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date,
// which is read as midnight in loc. dateOnly reports the second form.
func ParseInstant(v string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	d, err := ParseDate(v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", v)
	}
	return d.In(loc), true, nil
}

// In returns midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At returns the given wall-clock time of the day in loc.
func (d Date) At(clock time.Duration, loc *time.Location) time.Time {
	h := int(clock / time.Hour)
	m := int((clock % time.Hour) / time.Minute)
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, loc)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) IsZero() bool           { return d == Date{} }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	a := d.In(time.UTC)
	b := other.In(time.UTC)
	return a.Compare(b)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DayBounds returns [midnight, next midnight) of the day in loc.
func DayBounds(d Date, loc *time.Location) (time.Time, time.Time) {
	return d.In(loc), d.AddDays(1).In(loc)
}
