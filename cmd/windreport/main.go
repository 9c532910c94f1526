// Command windreport runs one forecast cycle: fetch the latest openskiron
// archive, extract wind windows per site, rank them, and hand the summary
// to the export, report, and delivery adapters.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/galshore/wind-window-report/internal/adapter/export"
	"github.com/galshore/wind-window-report/internal/adapter/forecastdir"
	kafkaadapter "github.com/galshore/wind-window-report/internal/adapter/kafka"
	"github.com/galshore/wind-window-report/internal/adapter/openskiron"
	"github.com/galshore/wind-window-report/internal/adapter/report"
	"github.com/galshore/wind-window-report/internal/adapter/telegram"
	"github.com/galshore/wind-window-report/internal/config"
	"github.com/galshore/wind-window-report/internal/domain"
	"github.com/galshore/wind-window-report/internal/observability"
	"github.com/galshore/wind-window-report/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).With("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, runID); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) error {
	metrics := observability.NewMetrics()

	if cfg.FetchEnabled {
		fetcher := openskiron.NewClient(cfg.IndexURL, cfg.HTTPTimeout, logger)
		if err := fetcher.FetchLatest(ctx, cfg.ZipFile, cfg.ExtractDir); err != nil {
			return fmt.Errorf("fetch forecast archive: %w", err)
		}
	} else {
		logger.Info("fetch disabled, using existing forecast dir", "dir", cfg.ExtractDir)
	}

	window := domain.WindowConfig{
		DayStartHour:   cfg.DayStartHour,
		DayEndHour:     cfg.DayEndHour,
		MinWindKnots:   cfg.MinWindKnots,
		MinBlockLength: cfg.MinBlockLength,
	}
	weights := domain.ScoreWeights{Wind: cfg.WindWeight, Duration: cfg.DurationWeight}

	source := forecastdir.New(cfg.ExtractDir, logger)
	p := pipeline.New(source, window, weights, logger, metrics)

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if ferr := result.FailureErr(); ferr != nil {
		logger.Warn("some sites were skipped", "error", ferr)
	}

	if len(result.Summary) == 0 {
		logger.Info("no forecasts found with strong wind")
		fmt.Println("📭 No wind today.")
		return pushMetrics(cfg, metrics, logger)
	}

	if err := export.WriteCSV(cfg.CSVSummary, result.Summary); err != nil {
		return err
	}
	if err := report.Generate(cfg.HTMLReport, result.Summary, result.Series); err != nil {
		return err
	}
	logger.Info("artifacts written", "csv", cfg.CSVSummary, "html", cfg.HTMLReport)

	printTop(result.Summary, cfg.TopSitesToSend)

	if cfg.TelegramEnabled {
		tg := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID, cfg.HTTPTimeout, logger)
		if err := tg.SendSummary(ctx, result.Summary, cfg.TopSitesToSend); err != nil {
			return fmt.Errorf("telegram summary: %w", err)
		}
		if err := tg.SendDocument(ctx, cfg.CSVSummary, "Wind windows summary"); err != nil {
			return fmt.Errorf("telegram csv: %w", err)
		}
		if err := tg.SendDocument(ctx, cfg.HTMLReport, "Interactive report"); err != nil {
			return fmt.Errorf("telegram report: %w", err)
		}
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		if err := writer.PublishSummary(ctx, result.Summary, runID); err != nil {
			return err
		}
	}

	return pushMetrics(cfg, metrics, logger)
}

// printTop echoes the ranked head of the table to the terminal.
func printTop(summary domain.RunSummary, n int) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	bold.Println("Top wind windows:")
	for i, e := range summary.Top(n) {
		green.Printf("%2d. %-28s", i+1, e.Site)
		fmt.Printf(" %s  avg %.1f kn  %s %.0f°  score %.2f\n",
			e.Window, e.AvgSpeed, report.Arrow(e.MeanDir), e.MeanDir, e.Score)
	}
}

func pushMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) error {
	if cfg.PushgatewayURL == "" {
		return nil
	}
	// Metrics delivery is best effort: a gateway outage must not fail a run
	// whose artifacts are already written.
	if err := metrics.Push(cfg.PushgatewayURL, "windreport"); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
	return nil
}
