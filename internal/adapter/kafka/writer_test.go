package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galshore/wind-window-report/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	entry := domain.SummaryEntry{
		Site:          "Gale_Point",
		Window:        "07/05 11:00-15:00",
		AvgSpeed:      20.4,
		MeanDir:       270,
		Start:         time.Date(2025, time.May, 7, 11, 0, 0, 0, time.UTC),
		End:           time.Date(2025, time.May, 7, 15, 0, 0, 0, time.UTC),
		DurationHours: 4,
		NormSpeed:     1,
		NormDuration:  1,
		Score:         1,
	}

	msg, err := serializeToMessage(entry, "run-123")
	require.NoError(t, err)

	assert.Equal(t, []byte("Gale_Point"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Gale_Point", decoded["site"])
	assert.Equal(t, "07/05 11:00-15:00", decoded["window"])
	assert.Equal(t, 20.4, decoded["avg_wind_knots"])
	assert.Equal(t, 270.0, decoded["dir"])
	assert.Equal(t, 4.0, decoded["duration_hours"])
	assert.Equal(t, 1.0, decoded["score"])

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "run-123", headers["run_id"])

	generatedAt, err := time.Parse(time.RFC3339, headers["generated_at"])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), generatedAt, time.Minute)
}
