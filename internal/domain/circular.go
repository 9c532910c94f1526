package domain

import (
	"errors"
	"math"
)

// ErrNoDirections is returned when a circular mean is requested over zero
// observations. A mean of nothing is undefined, not zero.
var ErrNoDirections = errors.New("circular mean of empty input")

// CircularMean returns the circular mean of direction values in degrees,
// normalized to [0,360).
//
// The arithmetic mean is wrong across the 0/360 wraparound (350° and 10°
// must average to 0°, not 180°), so directions are summed as unit vectors:
// sum the sine and cosine components, take atan2 of the sums, and fold the
// result back into [0,360).
//
// When the vector sum is (near) zero — e.g. [0, 90, 180, 270] — the
// direction is statistically undefined; the result is whatever atan2 yields
// for the residual floating-point components, normalized into range. That
// value is deterministic for a given input.
func CircularMean(degrees []float64) (float64, error) {
	if len(degrees) == 0 {
		return 0, ErrNoDirections
	}

	var sinSum, cosSum float64
	for _, d := range degrees {
		r := d * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}

	mean := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	return math.Mod(mean+360, 360), nil
}
