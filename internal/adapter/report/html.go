// Package report renders the ranked run summary as a self-contained HTML
// page: the summary table plus one inline SVG chart per qualifying site.
// The file opens in any browser with no external assets.
package report

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/galshore/wind-window-report/internal/domain"
)

// Arrow maps a meteorological wind direction (degrees the wind blows FROM)
// to the arrow it blows TOWARDS, in 45° sectors.
func Arrow(deg float64) string {
	arrows := []string{"⬆", "↗", "➡", "↘", "⬇", "↙", "⬅", "↖"}
	blowingTo := math.Mod(deg+180+360, 360)
	sector := int(math.Mod(blowingTo+22.5, 360) / 45)
	return arrows[sector%8]
}

// Generate writes the report for one run to path. An empty summary renders
// a "no wind today" placeholder instead of charts.
func Generate(path string, summary domain.RunSummary, series map[string]domain.SiteSeries) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := pageTmpl.Execute(f, buildPage(summary, series)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

type page struct {
	Generated string
	Entries   []entryView
	Charts    []chart
}

type entryView struct {
	Rank     int
	Site     string
	Window   string
	AvgSpeed string
	Dir      string
	Arrow    string
	Duration string
	Score    string
}

type chart struct {
	Site      string
	Verdict   string
	Width     int
	Height    int
	SpeedPts  string
	GustPts   string
	Labels    []chartLabel
	Ticks     []chartTick
	AxisY     int
	TickY     int
}

type chartLabel struct {
	X     int
	Y     int
	Speed string
	Arrow string
}

type chartTick struct {
	X    int
	Text string
}

const (
	chartStep   = 30 // horizontal pixels per observation
	chartHeight = 240
	chartPad    = 30
)

func buildPage(summary domain.RunSummary, series map[string]domain.SiteSeries) page {
	p := page{Generated: time.Now().Format("2006-01-02 15:04")}

	for i, e := range summary {
		p.Entries = append(p.Entries, entryView{
			Rank:     i + 1,
			Site:     e.Site,
			Window:   e.Window,
			AvgSpeed: fmt.Sprintf("%.1f kn", e.AvgSpeed),
			Dir:      fmt.Sprintf("%.0f°", e.MeanDir),
			Arrow:    Arrow(e.MeanDir),
			Duration: humanize.FtoaWithDigits(e.DurationHours, 1) + " h",
			Score:    fmt.Sprintf("%.2f", e.Score),
		})

		if s, ok := series[e.Site]; ok && len(s.Obs) > 0 {
			p.Charts = append(p.Charts, buildChart(s))
		}
	}
	return p
}

func buildChart(s domain.SiteSeries) chart {
	n := len(s.Obs)
	width := chartPad*2 + (n-1)*chartStep
	if n == 1 {
		width = chartPad * 2
	}

	maxVal := 1.0
	for _, o := range s.Obs {
		maxVal = math.Max(maxVal, math.Max(o.WindSpeed, o.WindGust))
	}
	scale := float64(chartHeight-2*chartPad) / maxVal

	c := chart{
		Site:    s.Site,
		Verdict: domain.DayAfterAssessment(s),
		Width:   width,
		Height:  chartHeight,
		AxisY:   chartHeight - chartPad,
		TickY:   chartHeight - chartPad + 14,
	}

	var speedPts, gustPts []string
	for i, o := range s.Obs {
		x := chartPad + i*chartStep
		ySpeed := chartHeight - chartPad - int(o.WindSpeed*scale)
		yGust := chartHeight - chartPad - int(o.WindGust*scale)
		speedPts = append(speedPts, fmt.Sprintf("%d,%d", x, ySpeed))
		gustPts = append(gustPts, fmt.Sprintf("%d,%d", x, yGust))

		c.Labels = append(c.Labels, chartLabel{
			X:     x,
			Y:     ySpeed - 6,
			Speed: fmt.Sprintf("%.0f", o.WindSpeed),
			Arrow: Arrow(o.WindDir),
		})
		if i%3 == 0 {
			c.Ticks = append(c.Ticks, chartTick{X: x, Text: o.Time.Format("02-01 15:04")})
		}
	}
	c.SpeedPts = strings.Join(speedPts, " ")
	c.GustPts = strings.Join(gustPts, " ")
	return c
}

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Wind Forecast Report</title>
  <style>
    body { font-family: Arial, Helvetica, sans-serif; margin: 0; padding: 16px; background: #f0f4f8; color: #222; }
    h1 { text-align: center; font-size: 1.6em; margin: 0 0 8px; }
    .generated { text-align: center; color: #666; font-size: 0.85em; margin-bottom: 24px; }
    h2 { font-size: 1.1em; color: #2c5f8a; margin: 28px 0 10px; border-bottom: 2px solid #2c5f8a; padding-bottom: 4px; }
    table { width: 100%; border-collapse: collapse; background: #fff; box-shadow: 0 1px 6px rgba(0,0,0,0.1); }
    th { background: #2c5f8a; color: #fff; padding: 10px 14px; text-align: left; }
    td { padding: 8px 14px; border-bottom: 1px solid #e4e9ee; }
    tr:nth-child(even) td { background: #f7fafc; }
    .chart-wrapper { background: #fff; margin: 16px 0; padding: 12px; overflow-x: auto; box-shadow: 0 1px 6px rgba(0,0,0,0.1); }
    .chart-title { font-weight: bold; margin-bottom: 6px; }
    .verdict { color: #666; font-weight: normal; }
    .placeholder { text-align: center; padding: 40px; color: #666; font-size: 1.2em; }
  </style>
</head>
<body>
  <h1>Wind Forecast Report</h1>
  <div class="generated">generated {{.Generated}}</div>
{{if .Entries}}
  <h2>Ranked Wind Windows</h2>
  <table>
    <tr><th>#</th><th>Site</th><th>Window</th><th>Avg Wind</th><th>Direction</th><th>Duration</th><th>Score</th></tr>
{{range .Entries}}    <tr><td>{{.Rank}}</td><td>{{.Site}}</td><td>{{.Window}}</td><td>{{.AvgSpeed}}</td><td>{{.Arrow}} {{.Dir}}</td><td>{{.Duration}}</td><td>{{.Score}}</td></tr>
{{end}}  </table>

  <h2>Site Forecasts</h2>
{{range $c := .Charts}}  <div class="chart-wrapper">
    <div class="chart-title">{{$c.Site}} <span class="verdict">| {{$c.Verdict}}</span></div>
    <svg width="{{$c.Width}}" height="{{$c.Height}}" xmlns="http://www.w3.org/2000/svg">
      <line x1="0" y1="{{$c.AxisY}}" x2="{{$c.Width}}" y2="{{$c.AxisY}}" stroke="#ccc"/>
      <polyline points="{{$c.GustPts}}" fill="none" stroke="red" stroke-width="1.5" stroke-dasharray="5,4"/>
      <polyline points="{{$c.SpeedPts}}" fill="none" stroke="gray" stroke-width="1.5"/>
{{range $c.Labels}}      <text x="{{.X}}" y="{{.Y}}" font-size="9" text-anchor="middle">{{.Speed}}</text>
      <text x="{{.X}}" y="{{.Y}}" dy="-10" font-size="10" text-anchor="middle">{{.Arrow}}</text>
{{end}}{{range $c.Ticks}}      <text x="{{.X}}" y="{{$c.TickY}}" font-size="8" text-anchor="middle">{{.Text}}</text>
{{end}}    </svg>
  </div>
{{end}}{{else}}
  <div class="placeholder">📭 No wind today — no site met the usable-wind criteria this cycle.</div>
{{end}}
</body>
</html>
`))
