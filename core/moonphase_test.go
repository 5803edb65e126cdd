package core

import (
	"testing"
	"time"
)

func TestPhaseForAge_Boundaries(t *testing.T) {
	cases := []struct {
		age  float64
		want Phase
	}{
		{0, NewMoon},
		{1.84565, NewMoon},
		{1.84567, WaxingCrescent},
		{5.53698, WaxingCrescent},
		{5.53700, FirstQuarter},
		{9.22832, WaxingGibbous},
		{12.91964, FullMoon},
		{16.61097, WaningGibbous},
		{20.30229, LastQuarter},
		{23.99362, WaningCrescent},
		{27.68492, WaningCrescent},
		{27.68494, NewMoon},
		{29.53058866, NewMoon},
	}
	for _, tc := range cases {
		if got := PhaseForAge(tc.age); got != tc.want {
			t.Fatalf("PhaseForAge(%v) = %q, want %q", tc.age, got.Name, tc.want.Name)
		}
	}
}

func TestPhaseForAge_TotalOverCycle(t *testing.T) {
	order := map[string]int{}
	for i, p := range Phases() {
		order[p.Name] = i
	}
	if len(order) != 8 {
		t.Fatalf("expected 8 distinct phases, got %d", len(order))
	}

	prev := 0
	wrapped := false
	for age := 0.0; age < SynodicMonth; age += 0.0005 {
		p := PhaseForAge(age)
		idx, ok := order[p.Name]
		if !ok {
			t.Fatalf("age %v mapped to unknown phase %q", age, p.Name)
		}
		switch {
		case idx == prev, idx == prev+1:
		case idx == 0 && prev == len(order)-1 && !wrapped:
			wrapped = true
		default:
			t.Fatalf("age %v jumped from phase %d to %d", age, prev, idx)
		}
		prev = idx
	}
	if !wrapped {
		t.Fatalf("cycle never returned to New Moon")
	}
}

func TestMoonAge_InRange(t *testing.T) {
	start := time.Date(1890, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 365*300; d += 17 {
		age := MoonAge(start.AddDate(0, 0, d))
		if age < 0 || age >= SynodicMonth {
			t.Fatalf("age %v out of range for day %d", age, d)
		}
	}
}

func TestMoonPhase_KnownDates(t *testing.T) {
	cases := []struct {
		date time.Time
		want Phase
	}{
		{time.Date(2000, 1, 6, 0, 0, 0, 0, time.UTC), NewMoon},
		{time.Date(2000, 1, 21, 0, 0, 0, 0, time.UTC), FullMoon},
		{time.Date(2000, 1, 14, 0, 0, 0, 0, time.UTC), FirstQuarter},
	}
	for _, tc := range cases {
		if got := MoonPhase(tc.date); got != tc.want {
			t.Fatalf("MoonPhase(%s) = %q (age %.3f), want %q", tc.date.Format(DateLayout), got.Name, MoonAge(tc.date), tc.want.Name)
		}
	}
}
