package domain

import "time"

// RawRecord is one data row of a site table as read from disk, fields still
// unparsed text. Produced by the forecastdir adapter.
type RawRecord struct {
	Token string // timestamp token, e.g. "SAT12.06" style fixed-width encoding
	Speed string // wind speed, knots
	Dir   string // wind direction, degrees
	Gust  string // wind gust, knots
}

// Observation is one timestamped measurement for one site. Immutable once
// parsed; rows that fail parsing never become Observations.
type Observation struct {
	Time      time.Time
	WindSpeed float64 // knots
	WindDir   float64 // degrees, [0,360)
	WindGust  float64 // knots
}

// SiteSeries is a site's observations ordered by time. Rebuilt fresh every
// run; no cross-run state.
type SiteSeries struct {
	Site string
	Obs  []Observation
}

// WindowConfig holds the thresholds for wind-window detection.
type WindowConfig struct {
	DayStartHour   int     // inclusive lower time-of-day bound, hour
	DayEndHour     int     // inclusive upper time-of-day bound, hour
	MinWindKnots   float64 // minimum usable wind speed
	MinBlockLength int     // minimum number of qualifying observations
}

// WindWindow is a site's qualifying wind window, at most one per run.
type WindWindow struct {
	Site     string
	Start    time.Time
	End      time.Time
	AvgSpeed float64 // arithmetic mean, rounded to 1 decimal
	MeanDir  float64 // circular mean, rounded to nearest degree
	Span     string  // display form, "dd/mm HH:MM-HH:MM"
}

// ScoreWeights weight the normalized speed and duration components of the
// ranking score. They should sum to 1; that is the caller's responsibility
// and is not enforced.
type ScoreWeights struct {
	Wind     float64
	Duration float64
}

// SummaryEntry is one ranked row of the run summary.
type SummaryEntry struct {
	Site          string    `json:"site"`
	Window        string    `json:"window"`
	AvgSpeed      float64   `json:"avg_wind_knots"`
	MeanDir       float64   `json:"dir"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
	NormSpeed     float64   `json:"norm_wind"`
	NormDuration  float64   `json:"norm_duration"`
	Score         float64   `json:"score"`
}

// RunSummary is the score-descending ranking of all sites that produced a
// window this run. Handed by value to downstream consumers, which must not
// mutate it.
type RunSummary []SummaryEntry

// Top returns the first n entries, or all of them when fewer exist.
func (rs RunSummary) Top(n int) []SummaryEntry {
	if n < 0 || n > len(rs) {
		n = len(rs)
	}
	return rs[:n]
}
