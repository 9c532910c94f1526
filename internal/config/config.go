package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all job settings. Values come from an optional YAML file
// (CONFIG_FILE), overridden by environment variables, with defaults where
// both are unset. An optional .env file is loaded into the environment
// first.
type Config struct {
	// Fetch.
	IndexURL     string
	ZipFile      string
	ExtractDir   string
	FetchEnabled bool
	HTTPTimeout  time.Duration

	// Core thresholds.
	DayStartHour   int
	DayEndHour     int
	MinWindKnots   float64
	MinBlockLength int
	WindWeight     float64
	DurationWeight float64

	// Output.
	OutputDir  string
	CSVSummary string
	HTMLReport string

	// Delivery.
	TopSitesToSend  int
	TelegramToken   string
	TelegramChatID  string
	TelegramEnabled bool
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaEnabled    bool

	// Observability.
	LogLevel       string
	LogFormat      string
	PushgatewayURL string
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	// Best effort: a missing .env is the normal case outside development.
	_ = godotenv.Load()

	file, err := loadFileValues(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v, ok := file[key]; ok && v != "" {
			return v
		}
		return def
	}

	dayStart, err := parseInt(get("DAY_START_HOUR", "6"), "DAY_START_HOUR")
	if err != nil {
		return nil, err
	}
	dayEnd, err := parseInt(get("DAY_END_HOUR", "20"), "DAY_END_HOUR")
	if err != nil {
		return nil, err
	}
	minWind, err := parseFloat(get("MIN_WIND_KNOTS", "15"), "MIN_WIND_KNOTS")
	if err != nil {
		return nil, err
	}
	minBlock, err := parseInt(get("MIN_BLOCK_LENGTH", "2"), "MIN_BLOCK_LENGTH")
	if err != nil {
		return nil, err
	}
	windWeight, err := parseFloat(get("WIND_WEIGHT", "0.6"), "WIND_WEIGHT")
	if err != nil {
		return nil, err
	}
	durationWeight, err := parseFloat(get("DURATION_WEIGHT", "0.4"), "DURATION_WEIGHT")
	if err != nil {
		return nil, err
	}
	topSites, err := parseInt(get("TOP_SITES_TO_SEND", "6"), "TOP_SITES_TO_SEND")
	if err != nil {
		return nil, err
	}
	httpTimeout, err := time.ParseDuration(get("HTTP_TIMEOUT", "2m"))
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	telegramToken := get("TELEGRAM_BOT_TOKEN", "")
	telegramEnabled := telegramToken != ""
	if v := get("TELEGRAM_ENABLED", ""); v != "" {
		telegramEnabled = v == "true"
	}

	kafkaBrokers := splitBrokers(get("KAFKA_BROKERS", ""))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := get("KAFKA_ENABLED", ""); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		IndexURL:     get("INDEX_URL", "https://openskiron.org/kite_gribs/"),
		ZipFile:      get("ZIP_FILE", "data/forecast_data.zip"),
		ExtractDir:   get("EXTRACT_DIR", "data/unzipped_forecasts"),
		FetchEnabled: get("FETCH_ENABLED", "true") == "true",
		HTTPTimeout:  httpTimeout,

		DayStartHour:   dayStart,
		DayEndHour:     dayEnd,
		MinWindKnots:   minWind,
		MinBlockLength: minBlock,
		WindWeight:     windWeight,
		DurationWeight: durationWeight,

		OutputDir:  get("OUTPUT_DIR", "output"),
		CSVSummary: get("CSV_SUMMARY", "output/wind_windows_summary.csv"),
		HTMLReport: get("HTML_REPORT", "output/wind_report.html"),

		TopSitesToSend:  topSites,
		TelegramToken:   telegramToken,
		TelegramChatID:  get("TELEGRAM_CHAT_ID", ""),
		TelegramEnabled: telegramEnabled,
		KafkaBrokers:    kafkaBrokers,
		KafkaTopic:      get("KAFKA_TOPIC", "wind-window-summaries"),
		KafkaEnabled:    kafkaEnabled,

		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "json"),
		PushgatewayURL: get("PUSHGATEWAY_URL", ""),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		return errors.New("DAY_START_HOUR must be within 0-23")
	}
	if c.DayEndHour < 0 || c.DayEndHour > 23 {
		return errors.New("DAY_END_HOUR must be within 0-23")
	}
	if c.DayStartHour > c.DayEndHour {
		return errors.New("DAY_START_HOUR must not be after DAY_END_HOUR")
	}
	if c.MinWindKnots < 0 {
		return errors.New("MIN_WIND_KNOTS must not be negative")
	}
	if c.MinBlockLength < 1 {
		return errors.New("MIN_BLOCK_LENGTH must be at least 1")
	}
	// Weights should sum to 1, but that is the operator's call and is not
	// enforced; only nonsensical negatives are rejected.
	if c.WindWeight < 0 || c.DurationWeight < 0 {
		return errors.New("score weights must not be negative")
	}
	if c.TopSitesToSend < 0 {
		return errors.New("TOP_SITES_TO_SEND must not be negative")
	}
	if c.TelegramEnabled && (c.TelegramToken == "" || c.TelegramChatID == "") {
		return errors.New("TELEGRAM_ENABLED is true but TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is not set")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.FetchEnabled && c.IndexURL == "" {
		return errors.New("INDEX_URL is required when FETCH_ENABLED is true")
	}
	return nil
}

// loadFileValues reads the optional YAML config file into a flat key/value
// map. Keys use the same names as the environment variables.
func loadFileValues(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE: %w", err)
	}
	vals := make(map[string]string, len(raw))
	for k, v := range raw {
		vals[k] = fmt.Sprintf("%v", v)
	}
	return vals, nil
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return n, nil
}

func parseFloat(s, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return f, nil
}
