package core

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDate_AcceptsCommonForms(t *testing.T) {
	cases := map[string]string{
		"2030-01-01":           "2030-01-01",
		"  2030-01-01 ":        "2030-01-01",
		"2030-01-01T18:30:00Z": "2030-01-01",
		"2024/02/29":           "2024-02-29",
		"January 5, 2031":      "2031-01-05",
		"Mar 3, 2029":          "2029-03-03",
	}
	for in, want := range cases {
		_, got, err := NormalizeDate(in)
		if err != nil {
			t.Fatalf("NormalizeDate(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDate_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-date", "next tuesday-ish"} {
		if _, _, err := NormalizeDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("NormalizeDate(%q) err = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestNormalizeDate_RoundTrip(t *testing.T) {
	start := time.Date(1899, 12, 25, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 365*250; d += 13 {
		day := start.AddDate(0, 0, d)
		_, canon, err := NormalizeDate(day.Format("January 2, 2006"))
		if err != nil {
			t.Fatalf("normalize %s: %v", day, err)
		}
		again, canon2, err := NormalizeDate(canon)
		if err != nil {
			t.Fatalf("re-parse %q: %v", canon, err)
		}
		if canon2 != canon || !again.Equal(day) {
			t.Fatalf("round trip of %s gave %q then %q", day.Format(DateLayout), canon, canon2)
		}
	}
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	jan31 := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(AddMonths(jan31, 1)); got != "2030-02-28" {
		t.Fatalf("AddMonths(jan31, 1) = %s, want 2030-02-28", got)
	}
	if got := FormatDate(AddMonths(jan31, -2)); got != "2029-11-30" {
		t.Fatalf("AddMonths(jan31, -2) = %s, want 2029-11-30", got)
	}
	if got := FormatDate(AddDays(jan31, 1)); got != "2030-02-01" {
		t.Fatalf("AddDays(jan31, 1) = %s, want 2030-02-01", got)
	}
}

func TestDaysIn(t *testing.T) {
	if DaysIn(2024, time.February) != 29 || DaysIn(2023, time.February) != 28 || DaysIn(2030, time.December) != 31 {
		t.Fatalf("DaysIn returned wrong month lengths")
	}
}
