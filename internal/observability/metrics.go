package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// forecast run.
type Metrics struct {
	SitesProcessed prometheus.Counter
	SiteErrors     prometheus.Counter
	RowsDropped    prometheus.Counter
	WindowsFound   prometheus.Counter

	RunDuration     prometheus.Histogram
	QualifyingSites prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all run metrics on a private registry,
// so a batch process can push exactly its own series to a Pushgateway.
func NewMetrics() *Metrics {
	m := &Metrics{
		SitesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windreport",
			Name:      "sites_processed_total",
			Help:      "Site files read during the run, including failed ones.",
		}),
		SiteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windreport",
			Name:      "site_errors_total",
			Help:      "Site files skipped because they could not be read or parsed.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windreport",
			Name:      "rows_dropped_total",
			Help:      "Data rows dropped for malformed timestamps or measurements.",
		}),
		WindowsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windreport",
			Name:      "windows_found_total",
			Help:      "Sites that produced a qualifying wind window.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windreport",
			Name:      "run_duration_seconds",
			Help:      "Duration of the complete extract-rank run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		QualifyingSites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windreport",
			Name:      "qualifying_sites",
			Help:      "Summary entries in the last completed run.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SitesProcessed,
		m.SiteErrors,
		m.RowsDropped,
		m.WindowsFound,
		m.RunDuration,
		m.QualifyingSites,
	)

	return m
}

// Push sends the run's metrics to a Prometheus Pushgateway under the given
// job name. Batch jobs exit before a scraper could reach them, so push is
// the delivery path.
func (m *Metrics) Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
