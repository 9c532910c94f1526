// Package forecastdir reads an extracted openskiron forecast directory:
// one text table per site, first two rows header/metadata, data rows
// whitespace- or comma-delimited. It implements pipeline.SeriesSource.
package forecastdir

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/galshore/wind-window-report/internal/domain"
)

// headerRows is the number of non-data rows at the top of every site table.
const headerRows = 2

// Source reads site tables from a directory tree.
type Source struct {
	dir    string
	logger *slog.Logger
	paths  map[string]string // site name -> file path, filled by Sites
}

// New creates a Source over the given extracted-forecast directory.
func New(dir string, logger *slog.Logger) *Source {
	return &Source{dir: dir, logger: logger}
}

// Sites walks the directory for .csv tables (extension matched
// case-insensitively) and returns their site names: the file name with the
// extension removed, nothing else.
func (s *Source) Sites(ctx context.Context) ([]string, error) {
	s.paths = make(map[string]string)

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		name := d.Name()
		site := name[:len(name)-len(filepath.Ext(name))]
		if prev, ok := s.paths[site]; ok {
			s.logger.Warn("duplicate site file ignored", "site", site, "kept", prev, "ignored", path)
			return nil
		}
		s.paths[site] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.dir, err)
	}

	sites := make([]string, 0, len(s.paths))
	for site := range s.paths {
		sites = append(sites, site)
	}
	return sites, nil
}

// ReadRows returns one site's data rows with the header rows skipped.
// Structurally short rows are padded with empty fields so the domain layer
// counts them among the dropped rows.
func (s *Source) ReadRows(_ context.Context, site string) ([]domain.RawRecord, error) {
	path, ok := s.paths[site]
	if !ok {
		return nil, fmt.Errorf("unknown site %q", site)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site table: %w", err)
	}
	defer f.Close()

	var rows []domain.RawRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line <= headerRows {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rows = append(rows, splitRow(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read site table: %w", err)
	}
	return rows, nil
}

// splitRow splits a data row on any run of whitespace or commas. The source
// tables mix both delimiters, so this is deliberately not RFC-4180 CSV.
func splitRow(line string) domain.RawRecord {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	return domain.RawRecord{
		Token: fields[0],
		Speed: fields[1],
		Dir:   fields[2],
		Gust:  fields[3],
	}
}
