package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/galshore/wind-window-report/internal/domain"
	"github.com/galshore/wind-window-report/internal/observability"
	"github.com/hashicorp/go-multierror"
)

// SeriesSource supplies the raw per-site forecast tables for one run.
type SeriesSource interface {
	// Sites lists the site names found in the source.
	Sites(ctx context.Context) ([]string, error)
	// ReadRows returns one site's data rows, header rows already skipped.
	ReadRows(ctx context.Context, site string) ([]domain.RawRecord, error)
}

// SiteFailure records a site that was skipped because its table could not
// be read or parsed.
type SiteFailure struct {
	Site string
	Err  error
}

// Result is the outcome of one run: the ranked summary, the series of every
// site that produced a window (kept for chart rendering), and the per-site
// failures that were isolated along the way.
type Result struct {
	Summary  domain.RunSummary
	Series   map[string]domain.SiteSeries
	Failures []SiteFailure
}

// FailureErr aggregates the per-site failures into a single error, or nil
// when every site was processed.
func (r Result) FailureErr() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, fmt.Errorf("site %s: %w", f.Site, f.Err))
	}
	return merr.ErrorOrNil()
}

// Pipeline fans out window detection across all site tables and fans the
// results into a ranked run summary.
type Pipeline struct {
	source  SeriesSource
	window  domain.WindowConfig
	weights domain.ScoreWeights
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline over the given source and thresholds.
func New(source SeriesSource, window domain.WindowConfig, weights domain.ScoreWeights, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		window:  window,
		weights: weights,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes one forecast cycle. A site that fails to read is logged,
// recorded in Result.Failures, and skipped; the run continues. Degenerate
// statistics (empty circular-mean input, non-finite scores) abort the run
// instead — a corrupted score would misrank sites with no visible signal.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	sites, err := p.source.Sites(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list sites: %w", err)
	}
	sort.Strings(sites)
	p.logger.Info("run started", "sites", len(sites))

	result := Result{Series: make(map[string]domain.SiteSeries)}
	var windows []domain.WindWindow

	for _, site := range sites {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		p.metrics.SitesProcessed.Inc()
		rows, err := p.source.ReadRows(ctx, site)
		if err != nil {
			p.logger.Warn("site skipped", "site", site, "error", err)
			p.metrics.SiteErrors.Inc()
			result.Failures = append(result.Failures, SiteFailure{Site: site, Err: err})
			continue
		}

		series := domain.BuildSiteSeries(site, rows)
		if dropped := len(rows) - len(series.Obs); dropped > 0 {
			p.logger.Debug("rows dropped", "site", site, "dropped", dropped)
			p.metrics.RowsDropped.Add(float64(dropped))
		}

		window, err := domain.DetectWindow(series, p.window)
		if err != nil {
			return Result{}, fmt.Errorf("detect window: %w", err)
		}
		if window == nil {
			continue
		}

		p.metrics.WindowsFound.Inc()
		windows = append(windows, *window)
		result.Series[site] = series
	}

	summary, err := domain.BuildRunSummary(windows, p.weights)
	if err != nil {
		return Result{}, fmt.Errorf("rank summary: %w", err)
	}
	result.Summary = summary

	p.metrics.QualifyingSites.Set(float64(len(summary)))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("run finished",
		"sites", len(sites),
		"failures", len(result.Failures),
		"windows", len(summary),
		"duration", time.Since(start),
	)

	return result, nil
}
