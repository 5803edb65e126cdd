package ephemeris

import (
	"math"
	"time"
)

// SolarRotation is the synodic Carrington rotation period in days. Active
// regions tend to face Earth again one rotation later.
const SolarRotation = 27.2753

// ReferenceStorm anchors the recurrence on the G5 storm of May 2024.
var ReferenceStorm = time.Date(2024, time.May, 10, 17, 0, 0, 0, time.UTC)

// NextStorm returns the first recurrence strictly after t, to the minute.
func NextStorm(t time.Time) time.Time {
	elapsed := JulianDay(t) - JulianDay(ReferenceStorm)
	k := math.Floor(elapsed/SolarRotation) + 1
	for {
		next := addDays(ReferenceStorm, k*SolarRotation)
		if next.After(t) {
			return next
		}
		k++
	}
}

// addDays adds a fractional day count without overflowing time.Duration.
func addDays(t time.Time, days float64) time.Time {
	whole := math.Floor(days)
	minutes := math.Round((days - whole) * 24 * 60)
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(minutes) * time.Minute).UTC()
}
