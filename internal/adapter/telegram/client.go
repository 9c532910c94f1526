// Package telegram delivers the run's artifacts to a chat: a ranked top-N
// text message plus the CSV and HTML files as documents.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/galshore/wind-window-report/internal/domain"
)

// defaultBaseURL is the Telegram Bot API endpoint. Tests point BaseURL at
// an httptest server instead.
const defaultBaseURL = "https://api.telegram.org"

// Client posts to one chat via a bot token.
type Client struct {
	BaseURL string

	token      string
	chatID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Telegram delivery client.
func NewClient(token, chatID string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		token:   token,
		chatID:  chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SendSummary posts the top-N ranked windows as a text message.
func (c *Client) SendSummary(ctx context.Context, summary domain.RunSummary, topN int) error {
	var b strings.Builder
	b.WriteString("🏄 Wind window forecast:\n")
	for _, e := range summary.Top(topN) {
		fmt.Fprintf(&b, "📍 %s (%.0f°): %s | avg %.1f kn\n", e.Site, e.MeanDir, e.Window, e.AvgSpeed)
	}

	form := url.Values{
		"chat_id": {c.chatID},
		"text":    {b.String()},
	}
	return c.post(ctx, "sendMessage", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
}

// SendDocument posts a file to the chat with an optional caption.
func (c *Client) SendDocument(ctx context.Context, path, caption string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", c.chatID); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return fmt.Errorf("build form: %w", err)
		}
	}
	part, err := mw.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	return c.post(ctx, "sendDocument", mw.FormDataContentType(), bytes.NewReader(body.Bytes()))
}

// post sends one Bot API call, retrying rate limits and server errors.
// The request body must be replayable, hence the bytes.Reader inputs.
func (c *Client) post(ctx context.Context, method, contentType string, body io.ReadSeeker) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.BaseURL, c.token, method)

	err := retry.Do(
		func() error {
			if _, err := body.Seek(0, io.SeekStart); err != nil {
				return retry.Unrecoverable(err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", contentType)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("telegram %s: HTTP %d", method, resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return retry.Unrecoverable(fmt.Errorf("telegram %s: HTTP %d: %s", method, resp.StatusCode, respBody))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying telegram call", "attempt", n+1, "method", method, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	c.logger.Info("telegram delivery sent", "method", method)
	return nil
}
