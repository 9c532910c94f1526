package observability

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	m.SitesProcessed.Inc()
	m.SitesProcessed.Inc()
	m.SiteErrors.Inc()
	m.RowsDropped.Add(3)
	m.WindowsFound.Inc()
	m.QualifyingSites.Set(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SitesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SiteErrors))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsFound))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.QualifyingSites))
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Two runs in one process must not collide on registration.
	a := NewMetrics()
	b := NewMetrics()
	a.SitesProcessed.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SitesProcessed))
}

func TestPush(t *testing.T) {
	var gotPath string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	m := NewMetrics()
	m.WindowsFound.Inc()

	require.NoError(t, m.Push(srv.URL, "windreport"))
	assert.Equal(t, "/metrics/job/windreport", gotPath)
	assert.Contains(t, gotBody, "windreport_windows_found_total")
}

func TestPush_GatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	m := NewMetrics()
	err := m.Push(srv.URL, "windreport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push metrics")
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("debug", "text")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = NewLogger("warn", "json")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	// Unknown values fall back to info/json rather than failing.
	logger = NewLogger("verbose", "yaml")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
