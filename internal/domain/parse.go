package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseTimestampToken decodes a fixed-width timestamp token into a calendar
// time in the run clock's year and month. Valid tokens are exactly 7 or 9
// characters: day at [2:4], hour at [5:7], minute at [7:9] for 9-character
// tokens (otherwise :00).
//
// It never fails the run: any malformed token (wrong length, non-digit
// fields, day/hour/minute outside the calendar) returns ok == false and the
// caller drops the row.
func ParseTimestampToken(token string) (time.Time, bool) {
	if len(token) != 7 && len(token) != 9 {
		return time.Time{}, false
	}

	day, ok := atoiDigits(token[2:4])
	if !ok {
		return time.Time{}, false
	}
	hour, ok := atoiDigits(token[5:7])
	if !ok {
		return time.Time{}, false
	}
	minute := 0
	if len(token) == 9 {
		if minute, ok = atoiDigits(token[7:9]); !ok {
			return time.Time{}, false
		}
	}

	now := clock.Now()
	t := time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, time.Local)
	// time.Date normalizes out-of-range components (day 32 becomes the next
	// month) instead of failing, so round-trip the fields to reject them.
	if t.Day() != day || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}

// atoiDigits parses a string of ASCII digits only. Unlike strconv.Atoi it
// rejects signs and whitespace.
func atoiDigits(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// BuildSiteSeries parses raw data rows into a time-ordered series for one
// site. A row is dropped whole when its timestamp token is malformed or any
// of its three measurements fails numeric coercion — invalid values never
// propagate into statistics.
func BuildSiteSeries(site string, rows []RawRecord) SiteSeries {
	obs := make([]Observation, 0, len(rows))
	for _, row := range rows {
		t, ok := ParseTimestampToken(row.Token)
		if !ok {
			continue
		}
		speed, ok := parseMeasurement(row.Speed)
		if !ok {
			continue
		}
		dir, ok := parseMeasurement(row.Dir)
		if !ok {
			continue
		}
		gust, ok := parseMeasurement(row.Gust)
		if !ok {
			continue
		}
		obs = append(obs, Observation{Time: t, WindSpeed: speed, WindDir: dir, WindGust: gust})
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Time.Before(obs[j].Time) })
	return SiteSeries{Site: site, Obs: obs}
}

// parseMeasurement coerces a measurement field to a finite float64.
// "NaN" and infinities parse but would poison downstream means, so they are
// rejected like any other malformed value.
func parseMeasurement(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
