package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// spanRe parses a window span back into its calendar parts. Start and end
// share the displayed day/month; overnight ends are corrected below.
var spanRe = regexp.MustCompile(`^(\d{2})/(\d{2}) (\d{2}):(\d{2})-(\d{2}):(\d{2})$`)

// BuildRunSummary turns the per-site wind windows into the ranked run
// summary: duration from the window span (end earlier than start means the
// window crossed midnight in the display format, so 24h is added), min-max
// normalization of average speed and duration across the whole set, then
//
//	score = Wind*normSpeed + Duration*normDuration
//
// sorted descending, ties broken by site name for deterministic output.
//
// When every entry shares the same speed (or duration) the min-max range is
// zero; that dimension normalizes to 0.5 for all entries rather than
// dividing by zero. Any other degenerate value (unparseable span,
// non-finite score) is an error: a corrupted score would misrank sites with
// no visible signal, so no partial summary is ever returned.
func BuildRunSummary(windows []WindWindow, weights ScoreWeights) (RunSummary, error) {
	entries := make(RunSummary, 0, len(windows))
	year := clock.Now().Year()

	for _, win := range windows {
		start, end, err := parseSpan(win.Span, year)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", win.Site, err)
		}
		entries = append(entries, SummaryEntry{
			Site:          win.Site,
			Window:        win.Span,
			AvgSpeed:      win.AvgSpeed,
			MeanDir:       win.MeanDir,
			Start:         start,
			End:           end,
			DurationHours: end.Sub(start).Hours(),
		})
	}

	if len(entries) == 0 {
		return entries, nil
	}

	speeds := make([]float64, len(entries))
	durations := make([]float64, len(entries))
	for i, e := range entries {
		speeds[i] = e.AvgSpeed
		durations[i] = e.DurationHours
	}

	for i := range entries {
		entries[i].NormSpeed = normalize(entries[i].AvgSpeed, speeds)
		entries[i].NormDuration = normalize(entries[i].DurationHours, durations)
		score := weights.Wind*entries[i].NormSpeed + weights.Duration*entries[i].NormDuration
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("site %s: non-finite score", entries[i].Site)
		}
		entries[i].Score = score
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Site < entries[j].Site
	})

	return entries, nil
}

// parseSpan decodes "dd/mm HH:MM-HH:MM" into start and end times in the
// given year, adding a day to the end when the display format wrapped past
// midnight.
func parseSpan(span string, year int) (time.Time, time.Time, error) {
	m := spanRe.FindStringSubmatch(span)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed window span %q", span)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	startHour, _ := strconv.Atoi(m[3])
	startMin, _ := strconv.Atoi(m[4])
	endHour, _ := strconv.Atoi(m[5])
	endMin, _ := strconv.Atoi(m[6])

	start := time.Date(year, time.Month(month), day, startHour, startMin, 0, 0, time.Local)
	end := time.Date(year, time.Month(month), day, endHour, endMin, 0, 0, time.Local)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// normalize min-max scales v against the set's range, mapping an all-equal
// set to 0.5 instead of dividing by zero.
func normalize(v float64, set []float64) float64 {
	lo, hi := set[0], set[0]
	for _, s := range set[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if hi == lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
