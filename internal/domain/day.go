package domain

import (
	"fmt"
	"time"
)

// Day is a date-only value: a calendar day in the reporting timezone with the
// time component dropped. Using an explicit comparable type instead of
// formatted date strings keeps day-bucketed grouping safe from locale and
// format drift, and makes Day usable directly as a map key.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf truncates a timestamp to its calendar day. No timezone conversion is
// performed; timestamps are assumed to already be in the reporting timezone.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Date < other.Date
}

// After reports whether d falls on a later calendar day than other.
func (d Day) After(other Day) bool {
	return other.Before(d)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// String formats the day as an ISO date, e.g. "2024-01-05".
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}
