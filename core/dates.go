package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical YYYY-MM-DD form used in fields, URLs and
// backend requests.
const DateLayout = "2006-01-02"

// ErrInvalidDate reports input that cannot be read as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// NormalizeDate reads any parseable date string and returns the calendar
// day at UTC midnight plus its canonical form. Any time of day is dropped;
// an explicit offset keeps the day as written.
func NormalizeDate(raw string) (time.Time, string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, "", fmt.Errorf("%w: empty input", ErrInvalidDate)
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
	}

	day := CalendarDay(t)
	return day, day.Format(DateLayout), nil
}

// CalendarDay truncates t to midnight UTC of the day it names in its own
// location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a day in canonical form.
func FormatDate(t time.Time) string {
	return CalendarDay(t).Format(DateLayout)
}

// AddDays shifts a calendar day by n days.
func AddDays(t time.Time, n int) time.Time {
	return CalendarDay(t).AddDate(0, 0, n)
}

// AddMonths shifts a calendar day by n months, clamping to the last day of
// the target month instead of overflowing into the next one.
func AddMonths(t time.Time, n int) time.Time {
	day := CalendarDay(t)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := DaysIn(first.Year(), first.Month())
	d := day.Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days of a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
