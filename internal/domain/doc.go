// Package domain models openskiron kite-forecast data and the wind-window
// extraction and ranking logic built on top of it.
//
// # Data Source
//
// Forecasts come from the openskiron.org "all_1km_files" archive: one text
// table per site, refreshed once per forecast cycle. The first two rows of
// each table are header/metadata; every following row is
//
//	<timestamp token> <wind speed kn> <wind direction deg> <wind gust kn>
//
// delimited by whitespace or commas. The site name is the file name without
// its extension.
//
// # Timestamp Tokens
//
// Tokens are fixed-width: day-of-month at positions [2:4], hour at [5:7],
// and an optional minute at [7:9] when the token is 9 characters long.
// The year and month are not encoded; they come from the run clock, so a
// forecast cycle is always interpreted in the month it was downloaded.
// Timestamps are naive local times; no timezone handling anywhere.
//
// # Wind Windows
//
// A wind window is the subset of a site's observations that fall within the
// configured daytime hours and at or above the minimum usable wind speed.
// When that subset has at least MinBlockLength readings, the window spans
// the subset's earliest to latest timestamp. The subset is not checked for
// contiguity; see [DetectWindow].
//
// # Ranking
//
// Sites with a window are ranked by a weighted composite of min-max
// normalized average speed and window duration. Degenerate statistics
// (empty circular-mean input, non-finite scores) fail loudly rather than
// leak NaN into the ranking; see [BuildRunSummary].
package domain
