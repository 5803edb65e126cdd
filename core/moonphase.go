package core

import (
	"math"
	"time"
)

// SynodicMonth is the mean lunation length in days.
const SynodicMonth = 29.53058867

// ReferenceNewMoon is a known new moon used as the lunation epoch.
var ReferenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Phase is a named lunation bucket plus the image shown for it.
type Phase struct {
	Name    string
	AssetID string
}

var (
	NewMoon        = Phase{Name: "New Moon", AssetID: "new-moon"}
	WaxingCrescent = Phase{Name: "Waxing Crescent", AssetID: "waxing-crescent"}
	FirstQuarter   = Phase{Name: "First Quarter", AssetID: "first-quarter"}
	WaxingGibbous  = Phase{Name: "Waxing Gibbous", AssetID: "waxing-gibbous"}
	FullMoon       = Phase{Name: "Full Moon", AssetID: "full-moon"}
	WaningGibbous  = Phase{Name: "Waning Gibbous", AssetID: "waning-gibbous"}
	LastQuarter    = Phase{Name: "Last Quarter", AssetID: "last-quarter"}
	WaningCrescent = Phase{Name: "Waning Crescent", AssetID: "waning-crescent"}
)

// phaseBounds are exclusive upper bounds in days, one sixteenth of a
// lunation either side of each principal phase.
var phaseBounds = []struct {
	upper float64
	phase Phase
}{
	{1.84566, NewMoon},
	{5.53699, WaxingCrescent},
	{9.22831, FirstQuarter},
	{12.91963, WaxingGibbous},
	{16.61096, FullMoon},
	{20.30228, WaningGibbous},
	{23.99361, LastQuarter},
	{27.68493, WaningCrescent},
}

// MoonAge returns the lunation age in days for the given date, in
// [0, SynodicMonth).
func MoonAge(date time.Time) float64 {
	days := date.Sub(ReferenceNewMoon).Hours() / 24
	return math.Mod(math.Mod(days, SynodicMonth)+SynodicMonth, SynodicMonth)
}

// PhaseForAge classifies a lunation age. Ages past the last bound, and
// anything the float arithmetic pushes out of range, read as a new moon.
func PhaseForAge(age float64) Phase {
	for _, b := range phaseBounds {
		if age < b.upper {
			if age < 0 {
				break
			}
			return b.phase
		}
	}
	return NewMoon
}

// MoonPhase maps a calendar date onto its lunation phase. Callers reject
// unparseable dates before getting here.
func MoonPhase(date time.Time) Phase {
	return PhaseForAge(MoonAge(date))
}

// Phases lists every distinct phase in lunation order.
func Phases() []Phase {
	out := make([]Phase, 0, len(phaseBounds))
	for _, b := range phaseBounds {
		out = append(out, b.phase)
	}
	return out
}
