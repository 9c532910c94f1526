// Package openskiron discovers, downloads, and extracts the latest
// "all_1km_files" kite-forecast archive from openskiron.org, leaving a
// directory of per-site tables for the pipeline to consume.
package openskiron

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/dustin/go-humanize"
)

// archiveLinkRe matches href values pointing at a forecast archive, e.g.
// "20250507-all_1km_files.zip". The date prefix makes links sort by recency.
var archiveLinkRe = regexp.MustCompile(`href="([^"]*all_1km_files\.zip)"`)

// Client fetches forecast archives.
type Client struct {
	indexURL   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a fetch client for the given download-index page.
func NewClient(indexURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		indexURL: indexURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchLatest downloads the newest archive behind the index page into
// zipPath and re-extracts it into extractDir, replacing whatever a previous
// run left there.
func (c *Client) FetchLatest(ctx context.Context, zipPath, extractDir string) error {
	archiveURL, err := c.LatestArchiveURL(ctx)
	if err != nil {
		return err
	}

	if err := c.Download(ctx, archiveURL, zipPath); err != nil {
		return err
	}

	if err := os.RemoveAll(extractDir); err != nil {
		return fmt.Errorf("clear extract dir: %w", err)
	}
	if err := extractZip(zipPath, extractDir); err != nil {
		return fmt.Errorf("extract %s: %w", zipPath, err)
	}

	c.logger.Info("forecast archive extracted", "url", archiveURL, "dir", extractDir)
	return nil
}

// LatestArchiveURL scrapes the index page for archive links and returns the
// lexicographically newest one, resolved against the index URL.
func (c *Client) LatestArchiveURL(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.indexURL)
	if err != nil {
		return "", fmt.Errorf("fetch index page: %w", err)
	}

	matches := archiveLinkRe.FindAllStringSubmatch(string(body), -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("no forecast archive links on %s", c.indexURL)
	}

	links := make([]string, len(matches))
	for i, m := range matches {
		links[i] = m[1]
	}
	sort.Sort(sort.Reverse(sort.StringSlice(links)))

	base, err := url.Parse(c.indexURL)
	if err != nil {
		return "", fmt.Errorf("parse index URL: %w", err)
	}
	ref, err := url.Parse(links[0])
	if err != nil {
		return "", fmt.Errorf("parse archive link %q: %w", links[0], err)
	}
	latest := base.ResolveReference(ref).String()

	c.logger.Info("latest forecast archive found", "url", latest, "candidates", len(links))
	return latest, nil
}

// Download fetches the archive into destPath, creating parent directories
// as needed.
func (c *Client) Download(ctx context.Context, archiveURL, destPath string) error {
	body, err := c.get(ctx, archiveURL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}
	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	c.logger.Info("archive downloaded", "path", destPath, "size", humanize.Bytes(uint64(len(body))))
	return nil
}

// get performs a GET with retry on transport errors, rate limiting, and
// server errors. The forecast mirror is flaky around publication time.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", "windreport/1.0")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying fetch", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// extractZip unpacks the archive into destDir, rejecting entries that would
// escape it.
func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes extract dir", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extract %q: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
