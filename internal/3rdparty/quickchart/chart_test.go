package quickchart_test

import (
	"net/url"
	"testing"

	"github.com/axenvault/axenbot/internal/3rdparty/quickchart"
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *quickchart.Builder {
	return &quickchart.Builder{
		URL:          "https://quickchart.io/chart",
		DatasetLabel: "DOT Simulated Trend",
	}
}

func TestBuilder_RenderChartURL(t *testing.T) {
	chartURL, err := newBuilder().RenderChartURL([]string{"0:00", "1:00"}, []float64{4.2, 4.21})
	require.NoError(t, err)

	parsed, err := url.Parse(chartURL)
	require.NoError(t, err)
	assert.Equal(t, "quickchart.io", parsed.Host)
	assert.Equal(t, "/chart", parsed.Path)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(parsed.Query().Get("c")), &cfg))
	assert.Equal(t, "line", cfg["type"])

	data := cfg["data"].(map[string]any)
	assert.Equal(t, []any{"0:00", "1:00"}, data["labels"])

	datasets := data["datasets"].([]any)
	require.Len(t, datasets, 1)
	dataset := datasets[0].(map[string]any)
	assert.Equal(t, "DOT Simulated Trend", dataset["label"])
	assert.Equal(t, []any{4.2, 4.21}, dataset["data"])
	assert.Equal(t, false, dataset["fill"])
	assert.Equal(t, "rgb(75, 192, 192)", dataset["borderColor"])
	assert.Equal(t, 0.3, dataset["tension"])
}

func TestBuilder_LengthMismatch(t *testing.T) {
	chartURL, err := newBuilder().RenderChartURL([]string{"0:00"}, []float64{1, 2})
	assert.Empty(t, chartURL)
	assert.True(t, errors.Is(err, strategy.ErrValidation))
}

func TestBuilder_Empty(t *testing.T) {
	_, err := newBuilder().RenderChartURL(nil, nil)
	assert.NoError(t, err)
}
