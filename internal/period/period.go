package period

import (
	"fmt"
	"math"
	"time"
)

// Kind identifies a summary time scope.
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// Kinds lists all temporal kinds in display order.
var Kinds = []Kind{Daily, Weekly, Monthly}

// WeekStartsOn is the first day of the week for all window and key
// computations. Sunday everywhere; mixing conventions silently shifts
// period boundaries, so no per-caller override exists.
const WeekStartsOn = time.Sunday

// Range is a time window. Both bounds are inclusive: a capture created
// exactly at Start or End belongs to the range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, bounds inclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Resolve maps a kind and a reference instant to its current window.
// All windows end at now, not at the calendar boundary, so mid-period
// eligibility never counts the future.
func Resolve(kind Kind, now time.Time) (Range, error) {
	switch kind {
	case Daily:
		return Range{Start: StartOfDay(now), End: now}, nil
	case Weekly:
		return Range{Start: StartOfWeek(now), End: now}, nil
	case Monthly:
		return Range{Start: StartOfMonth(now), End: now}, nil
	default:
		return Range{}, fmt.Errorf("unknown period kind: %q", kind)
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent week-start day
// (Sunday) at or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()) - int(WeekStartsOn)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last calendar day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DayKey returns the stable "yyyy-MM-dd" key for t's calendar day,
// using local-zone fields. Two instants on the same local day always
// produce the same key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the day key of the week containing t (the key of its
// week-start day).
func WeekKey(t time.Time) string {
	return DayKey(StartOfWeek(t))
}

// MonthKey returns the stable "yyyy-MM" key for t's calendar month.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Key returns the cache key for the period of the given kind containing t.
func Key(kind Kind, t time.Time) (string, error) {
	switch kind {
	case Daily:
		return DayKey(t), nil
	case Weekly:
		return WeekKey(t), nil
	case Monthly:
		return MonthKey(t), nil
	default:
		return "", fmt.Errorf("unknown period kind: %q", kind)
	}
}

// DaysBetween returns the number of whole calendar days from a to b
// (start-of-day to start-of-day). Negative when b precedes a.
// Rounded, not truncated: DST shifts make some local days 23 or 25 hours.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24))
}
