// Package export writes the ranked run summary as a flat delimited file for
// audit. One header row, one line per entry, sorted order preserved.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/galshore/wind-window-report/internal/domain"
)

// timeLayout formats the derived start/end columns.
const timeLayout = "2006-01-02 15:04"

var header = []string{
	"Site", "Window", "Avg Wind (knots)", "Dir",
	"Start", "End", "Duration", "Norm_Wind", "Norm_Duration", "Score",
}

// WriteCSV writes the summary to path, creating parent directories as
// needed.
func WriteCSV(path string, summary domain.RunSummary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range summary {
		record := []string{
			e.Site,
			e.Window,
			strconv.FormatFloat(e.AvgSpeed, 'f', 1, 64),
			strconv.FormatFloat(e.MeanDir, 'f', 0, 64),
			e.Start.Format(timeLayout),
			e.End.Format(timeLayout),
			strconv.FormatFloat(e.DurationHours, 'f', 2, 64),
			strconv.FormatFloat(e.NormSpeed, 'f', 4, 64),
			strconv.FormatFloat(e.NormDuration, 'f', 4, 64),
			strconv.FormatFloat(e.Score, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write entry for %s: %w", e.Site, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return nil
}
