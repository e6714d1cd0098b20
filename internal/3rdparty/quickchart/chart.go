package quickchart

import (
	"context"
	"net/url"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/goccy/go-json"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/pkg/errors"
)

type Config struct {
	URL          string `yaml:"url,omitempty" doc:"Chart rendering endpoint." default:"https://quickchart.io/chart"`
	DatasetLabel string `yaml:"datasetLabel,omitempty" doc:"Legend label of the price dataset." default:"DOT Simulated Trend"`
}

type Context interface {
	QuickChartConfig() Config
}

type Renderer[C Context] struct {
	*Builder
}

func (r Renderer[C]) String() string {
	return "quickchart.renderer"
}

func (r *Renderer[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if r.Builder != nil {
		return nil
	}

	config := app.Config().QuickChartConfig()
	if _, err := url.Parse(config.URL); err != nil {
		return errors.Wrap(err, "parse url")
	}

	r.Builder = &Builder{
		URL:          config.URL,
		DatasetLabel: config.DatasetLabel,
	}

	return nil
}

type (
	chart struct {
		Type    string  `json:"type"`
		Data    data    `json:"data"`
		Options options `json:"options"`
	}

	data struct {
		Labels   []string  `json:"labels"`
		Datasets []dataset `json:"datasets"`
	}

	dataset struct {
		Label       string    `json:"label"`
		Data        []float64 `json:"data"`
		Fill        bool      `json:"fill"`
		BorderColor string    `json:"borderColor"`
		Tension     float64   `json:"tension"`
	}

	ticks struct {
		Ticks color `json:"ticks"`
	}

	color struct {
		Color string `json:"color"`
	}

	options struct {
		Scales struct {
			X ticks `json:"x"`
			Y ticks `json:"y"`
		} `json:"scales"`
		Plugins struct {
			Legend struct {
				Labels color `json:"labels"`
			} `json:"legend"`
		} `json:"plugins"`
	}
)

const (
	lineColor = "rgb(75, 192, 192)"
	textColor = "white"
)

// Builder encodes a line chart into a chart service URL. It makes no requests itself.
type Builder struct {
	URL          string
	DatasetLabel string
}

func (b *Builder) RenderChartURL(labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", errors.Wrapf(strategy.ErrValidation, "labels (%d) and values (%d) length mismatch", len(labels), len(values))
	}

	cfg := chart{
		Type: "line",
		Data: data{
			Labels: labels,
			Datasets: []dataset{{
				Label:       b.DatasetLabel,
				Data:        values,
				Fill:        false,
				BorderColor: lineColor,
				Tension:     0.3,
			}},
		},
	}

	cfg.Options.Scales.X.Ticks.Color = textColor
	cfg.Options.Scales.Y.Ticks.Color = textColor
	cfg.Options.Plugins.Legend.Labels.Color = textColor

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "encode chart")
	}

	endpoint, err := url.Parse(b.URL)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
	}

	query := endpoint.Query()
	query.Set("c", string(encoded))
	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}
