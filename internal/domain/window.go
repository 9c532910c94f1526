package domain

import (
	"fmt"
	"math"
)

// spanLayout formats window bounds for display, e.g. "07/05 11:00-17:00".
const (
	spanStartLayout = "02/01 15:04"
	spanEndLayout   = "15:04"
)

// DetectWindow decides whether a site's series contains a usable wind
// window. Observations are restricted to time-of-day within
// [DayStartHour:00, DayEndHour:00] — both bounds inclusive — and to
// WindSpeed >= MinWindKnots. When at least MinBlockLength observations
// qualify, the window spans the subset's minimum to maximum timestamp with
// the subset's average speed and circular mean direction; otherwise the
// result is nil.
//
// The qualifying subset is deliberately not checked for contiguity: a
// window may span gaps in qualifying hours. Adding a contiguity check would
// change ranking outcomes across existing forecast cycles.
func DetectWindow(series SiteSeries, cfg WindowConfig) (*WindWindow, error) {
	lo := cfg.DayStartHour * 60
	hi := cfg.DayEndHour * 60

	var qual []Observation
	for _, o := range series.Obs {
		minuteOfDay := o.Time.Hour()*60 + o.Time.Minute()
		if minuteOfDay < lo || minuteOfDay > hi {
			continue
		}
		if o.WindSpeed < cfg.MinWindKnots {
			continue
		}
		qual = append(qual, o)
	}

	if len(qual) == 0 || len(qual) < cfg.MinBlockLength {
		return nil, nil
	}

	start, end := qual[0].Time, qual[0].Time
	var speedSum float64
	dirs := make([]float64, len(qual))
	for i, o := range qual {
		if o.Time.Before(start) {
			start = o.Time
		}
		if o.Time.After(end) {
			end = o.Time
		}
		speedSum += o.WindSpeed
		dirs[i] = o.WindDir
	}

	meanDir, err := CircularMean(dirs)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", series.Site, err)
	}

	return &WindWindow{
		Site:     series.Site,
		Start:    start,
		End:      end,
		AvgSpeed: math.Round(speedSum/float64(len(qual))*10) / 10,
		MeanDir:  math.Round(meanDir),
		Span:     start.Format(spanStartLayout) + "-" + end.Format(spanEndLayout),
	}, nil
}
