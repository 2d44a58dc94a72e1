package report

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date-only format used for week keys and daily buckets.
const DateLayout = "2006-01-02"

// Window is the half-open UTC interval [Start, End) of one reporting week.
// Start is a Monday at 00:00 UTC and End is exactly seven calendar days later.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWeek returns the window of the UTC calendar week containing ref.
func ResolveWeek(ref time.Time) Window {
	ref = ref.UTC()
	offset := (int(ref.Weekday()) + 6) % 7 // days since Monday
	start := time.Date(ref.Year(), ref.Month(), ref.Day()-offset, 0, 0, 0, 0, time.UTC)
	return windowFrom(start)
}

// ParseWeekStart interprets s (YYYY-MM-DD) as midnight UTC and uses it as the
// window start. Malformed dates and dates that are not Mondays are rejected
// with ErrInvalidArgument.
func ParseWeekStart(s string) (Window, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Window{}, fmt.Errorf("%w: weekStart %q must be YYYY-MM-DD", ErrInvalidArgument, s)
	}
	if start.Weekday() != time.Monday {
		return Window{}, fmt.Errorf("%w: weekStart %s is a %s, expected a Monday", ErrInvalidArgument, s, start.Weekday())
	}
	return windowFrom(start), nil
}

// Resolve picks the explicit week start when given, otherwise the week of now.
func Resolve(weekStart string, now time.Time) (Window, error) {
	if strings.TrimSpace(weekStart) == "" {
		return ResolveWeek(now), nil
	}
	return ParseWeekStart(weekStart)
}

func windowFrom(start time.Time) Window {
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WeekStart is the date-only key of the window.
func (w Window) WeekStart() string {
	return w.Start.Format(DateLayout)
}

// WeekEndDisplay is the last calendar day inside the window (End minus 1ms),
// for display only. Filtering always uses the half-open interval.
func (w Window) WeekEndDisplay() string {
	return w.End.Add(-time.Millisecond).UTC().Format(DateLayout)
}
