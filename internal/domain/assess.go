package domain

// Verdict thresholds for the day after the forecast start, in knots.
// Above strongKnots is windsurfing weather; within (wingKnots, strongKnots]
// is wing-foiling weather.
const (
	strongKnots = 20.0
	wingKnots   = 15.0
)

const (
	VerdictWindsurf = "Good for windsurfing tomorrow!"
	VerdictWing     = "Good for wing foiling tomorrow!"
	VerdictNoWind   = "Not enough wind for good windsurfing tomorrow."
)

// DayAfterAssessment grades tomorrow's wind for a site: at least two
// readings above 20 kn on the day after the forecast start is windsurfing
// weather, otherwise at least two readings between 15 and 20 kn is wing
// weather. Used in chart titles; plays no part in ranking.
func DayAfterAssessment(series SiteSeries) string {
	if len(series.Obs) == 0 {
		return VerdictNoWind
	}

	firstDay := series.Obs[0].Time
	for _, o := range series.Obs[1:] {
		if o.Time.Before(firstDay) {
			firstDay = o.Time
		}
	}
	tomorrow := firstDay.AddDate(0, 0, 1)
	ty, tm, td := tomorrow.Date()

	var strong, moderate int
	for _, o := range series.Obs {
		y, m, d := o.Time.Date()
		if y != ty || m != tm || d != td {
			continue
		}
		switch {
		case o.WindSpeed > strongKnots:
			strong++
		case o.WindSpeed > wingKnots:
			moderate++
		}
	}

	switch {
	case strong >= 2:
		return VerdictWindsurf
	case moderate >= 2:
		return VerdictWing
	default:
		return VerdictNoWind
	}
}
