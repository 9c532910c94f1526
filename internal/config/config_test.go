package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "INDEX_URL", "ZIP_FILE", "EXTRACT_DIR", "FETCH_ENABLED",
		"HTTP_TIMEOUT", "DAY_START_HOUR", "DAY_END_HOUR", "MIN_WIND_KNOTS",
		"MIN_BLOCK_LENGTH", "WIND_WEIGHT", "DURATION_WEIGHT", "OUTPUT_DIR",
		"CSV_SUMMARY", "HTML_REPORT", "TOP_SITES_TO_SEND", "TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID", "TELEGRAM_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"KAFKA_ENABLED", "LOG_LEVEL", "LOG_FORMAT", "PUSHGATEWAY_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://openskiron.org/kite_gribs/", cfg.IndexURL)
	assert.Equal(t, "data/forecast_data.zip", cfg.ZipFile)
	assert.Equal(t, "data/unzipped_forecasts", cfg.ExtractDir)
	assert.True(t, cfg.FetchEnabled)
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)

	assert.Equal(t, 6, cfg.DayStartHour)
	assert.Equal(t, 20, cfg.DayEndHour)
	assert.Equal(t, 15.0, cfg.MinWindKnots)
	assert.Equal(t, 2, cfg.MinBlockLength)
	assert.Equal(t, 0.6, cfg.WindWeight)
	assert.Equal(t, 0.4, cfg.DurationWeight)

	assert.Equal(t, "output/wind_windows_summary.csv", cfg.CSVSummary)
	assert.Equal(t, "output/wind_report.html", cfg.HTMLReport)
	assert.Equal(t, 6, cfg.TopSitesToSend)

	assert.False(t, cfg.TelegramEnabled)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "wind-window-summaries", cfg.KafkaTopic)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAY_START_HOUR", "8")
	t.Setenv("DAY_END_HOUR", "18")
	t.Setenv("MIN_WIND_KNOTS", "12.5")
	t.Setenv("MIN_BLOCK_LENGTH", "3")
	t.Setenv("WIND_WEIGHT", "0.7")
	t.Setenv("DURATION_WEIGHT", "0.3")
	t.Setenv("FETCH_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token123")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("HTTP_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.DayStartHour)
	assert.Equal(t, 18, cfg.DayEndHour)
	assert.Equal(t, 12.5, cfg.MinWindKnots)
	assert.Equal(t, 3, cfg.MinBlockLength)
	assert.Equal(t, 0.7, cfg.WindWeight)
	assert.Equal(t, 0.3, cfg.DurationWeight)
	assert.False(t, cfg.FetchEnabled)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled, "brokers imply kafka")
	assert.True(t, cfg.TelegramEnabled, "token implies telegram")
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
DAY_START_HOUR: 9
MIN_WIND_KNOTS: 18
LOG_FORMAT: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	// Environment still wins over the file.
	t.Setenv("MIN_WIND_KNOTS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.DayStartHour)
	assert.Equal(t, 20.0, cfg.MinWindKnots)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 20, cfg.DayEndHour, "untouched keys keep their defaults")
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read CONFIG_FILE")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0o644))
		t.Setenv("CONFIG_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse CONFIG_FILE")
	})
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"day start out of range", map[string]string{"DAY_START_HOUR": "24"}, "DAY_START_HOUR"},
		{"day end out of range", map[string]string{"DAY_END_HOUR": "-1"}, "DAY_END_HOUR"},
		{"start after end", map[string]string{"DAY_START_HOUR": "18", "DAY_END_HOUR": "6"}, "must not be after"},
		{"negative knots", map[string]string{"MIN_WIND_KNOTS": "-1"}, "MIN_WIND_KNOTS"},
		{"zero block length", map[string]string{"MIN_BLOCK_LENGTH": "0"}, "MIN_BLOCK_LENGTH"},
		{"negative weight", map[string]string{"WIND_WEIGHT": "-0.2"}, "weights"},
		{"non-numeric hour", map[string]string{"DAY_START_HOUR": "noon"}, "DAY_START_HOUR"},
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "fast"}, "HTTP_TIMEOUT"},
		{"telegram without chat id", map[string]string{"TELEGRAM_ENABLED": "true", "TELEGRAM_BOT_TOKEN": "tok"}, "TELEGRAM_CHAT_ID"},
		{"kafka without brokers", map[string]string{"KAFKA_ENABLED": "true"}, "KAFKA_BROKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
