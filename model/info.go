package model

import "time"

// PlanetInfo is the descriptive record the backend returns for one body on
// one date. Date-relative fields are zero for the Sun.
type PlanetInfo struct {
	Planet BodyID `json:"planet"`
	Date   string `json:"date"`

	DayLengthHours      float64 `json:"day_length_hours"`
	YearLengthDays      float64 `json:"year_length_days"`
	YearLengthLocalDays float64 `json:"year_length_local_days"`
	Gravity             float64 `json:"gravity"`
	MeanTemperatureC    float64 `json:"mean_temperature_c"`
	Moons               int     `json:"moons"`

	Atmosphere  string `json:"atmosphere"`
	Composition string `json:"composition"`

	YearProgress   float64 `json:"year_progress"`
	DayOfYearEarth float64 `json:"day_of_year_earth"`
	DayOfYearLocal float64 `json:"day_of_year_local"`
}

// Annotation is static per-body text supplied once at load and merged into
// the info popup at render time.
type Annotation struct {
	Title string `json:"title" yaml:"title"`
	Notes string `json:"notes" yaml:"notes"`
}

// Annotations maps bodies onto their static annotation.
type Annotations map[BodyID]Annotation

// SpaceWeather carries the single derived field shown for the Sun.
type SpaceWeather struct {
	Date      string    `json:"date"`
	NextStorm time.Time `json:"next_storm"`
}
