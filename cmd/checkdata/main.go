// Command checkdata validates an extracted forecast directory before a run:
// site tables exist, timestamp tokens parse, and measurement fields are
// numeric. It prints a per-phase pass/fail report and exits non-zero on
// failure.
//
// Usage:
//
//	go run ./cmd/checkdata -dir data/unzipped_forecasts
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/galshore/wind-window-report/internal/adapter/forecastdir"
	"github.com/galshore/wind-window-report/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "extracted forecast directory to validate")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	source := forecastdir.New(dir, logger)

	fmt.Println("=== Forecast Data Validation ===")
	fmt.Println()

	sites, err := source.Sites(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: list sites: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateStructure(sites),
		validateRows(ctx, source, sites),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Printf("all phases passed (%d sites)\n", len(sites))
	return 0
}

func validateStructure(sites []string) *phase {
	p := &phase{name: "directory structure"}
	if len(sites) == 0 {
		p.errorf("no site tables found")
	}
	for _, site := range sites {
		if strings.TrimSpace(site) == "" {
			p.errorf("empty site name")
		}
	}
	return p
}

// validateRows checks every table's data rows: tokens must parse and the
// three measurements must be numeric. A site whose rows are mostly invalid
// would silently vanish from the run, so surface it here.
func validateRows(ctx context.Context, source *forecastdir.Source, sites []string) *phase {
	p := &phase{name: "data rows"}
	for _, site := range sites {
		rows, err := source.ReadRows(ctx, site)
		if err != nil {
			p.errorf("%s: %v", site, err)
			continue
		}
		if len(rows) == 0 {
			p.errorf("%s: no data rows", site)
			continue
		}

		var badToken, badValue int
		for _, row := range rows {
			if _, ok := domain.ParseTimestampToken(row.Token); !ok {
				badToken++
				continue
			}
			for _, field := range []string{row.Speed, row.Dir, row.Gust} {
				if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
					badValue++
					break
				}
			}
		}
		if badToken*2 > len(rows) {
			p.errorf("%s: %d/%d rows have malformed timestamp tokens", site, badToken, len(rows))
		}
		if badValue*2 > len(rows) {
			p.errorf("%s: %d/%d rows have non-numeric measurements", site, badValue, len(rows))
		}
	}
	return p
}
