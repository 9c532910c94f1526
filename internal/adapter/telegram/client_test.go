package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galshore/wind-window-report/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-token", "chat-42", 5*time.Second, slog.New(slog.DiscardHandler))
	c.BaseURL = srv.URL
	return c
}

func sampleSummary() domain.RunSummary {
	return domain.RunSummary{
		{Site: "Gale_Point", Window: "07/05 11:00-15:00", AvgSpeed: 20.4, MeanDir: 270},
		{Site: "Calm_Cove", Window: "07/05 12:00-14:00", AvgSpeed: 15.0, MeanDir: 180},
	}
}

func TestSendSummary(t *testing.T) {
	var gotPath string
	var gotText, gotChatID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendSummary(context.Background(), sampleSummary(), 1)
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "chat-42", gotChatID)
	assert.Contains(t, gotText, "📍 Gale_Point (270°): 07/05 11:00-15:00 | avg 20.4 kn")
	assert.NotContains(t, gotText, "Calm_Cove", "only top-N sites are sent")
}

func TestSendDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.csv")
	require.NoError(t, os.WriteFile(path, []byte("Site,Score\nGale_Point,1.0\n"), 0o644))

	var gotCaption, gotFilename, gotContent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotCaption = r.PostFormValue("caption")

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		buf := make([]byte, header.Size)
		n, _ := file.Read(buf)
		gotContent = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendDocument(context.Background(), path, "Wind windows summary")
	require.NoError(t, err)

	assert.Equal(t, "Wind windows summary", gotCaption)
	assert.Equal(t, "summary.csv", gotFilename)
	assert.Contains(t, gotContent, "Gale_Point,1.0")
}

func TestSendDocument_MissingFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := client.SendDocument(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document")
}

func TestPost_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// The retried request body must be replayed in full.
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "chat-42", r.PostFormValue("chat_id"))
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendSummary(context.Background(), sampleSummary(), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPost_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := client.SendSummary(context.Background(), sampleSummary(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "chat not found")
	assert.Equal(t, int32(1), calls.Load())
}
