// Package daterange normalises inclusive whole-day date ranges.
package daterange

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

// ErrInvalidRange is returned when the end of a range falls before its start.
var ErrInvalidRange = errors.New("invalid range: end before start")

const day = 24 * time.Hour

// Range is an inclusive window from the first instant of Start's day to the
// last instant of End's day, in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// New normalises start and end to whole days.
func New(start, end time.Time) (Range, error) {
	s := StartOfDay(start)
	e := EndOfDay(end)

	if Day(end).Before(Day(start)) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, s.Format(time.DateOnly), e.Format(time.DateOnly))
	}

	return Range{Start: s, End: e}, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Range{}, validate.Field("start", "must be a date in YYYY-MM-DD format")
	}

	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Range{}, validate.Field("end", "must be a date in YYYY-MM-DD format")
	}

	return New(s, e)
}

// ParseOptional returns nil when both bounds are empty, meaning "all time".
// A single missing bound is a validation failure.
func ParseOptional(start, end string) (*Range, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	if start == "" {
		return nil, validate.Field("start", "required when end is set")
	}

	if end == "" {
		return nil, validate.Field("end", "required when start is set")
	}

	r, err := Parse(start, end)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func StartOfDay(t time.Time) time.Time {
	return Day(t)
}

func EndOfDay(t time.Time) time.Time {
	return Day(t).Add(day - time.Nanosecond)
}

// DaysBetween counts whole calendar days from a to b. It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / day)
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days is the number of calendar days covered, counting both ends.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// String renders the range as "2024-01-01_to_2024-01-14".
func (r Range) String() string {
	return r.Start.Format(time.DateOnly) + "_to_" + r.End.Format(time.DateOnly)
}

// Label renders a nil range as "all-time" and anything else via String.
func Label(r *Range) string {
	if r == nil {
		return "all-time"
	}

	return r.String()
}

// Contains is the nil-safe form of Range.Contains: a nil range contains everything.
func Contains(r *Range, t time.Time) bool {
	if r == nil {
		return true
	}

	return r.Contains(t)
}
