package market

import (
	"context"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

type Report struct {
	Price    float64
	Series   strategy.Series
	ChartURL string
}

// Reporter composes a price report: quote, synthetic trend and chart.
type Reporter struct {
	Quotes      strategy.QuoteSource
	Synthesizer strategy.Synthesizer
	Charts      strategy.ChartRenderer
	AssetID     string
	Currency    string
	Points      int
}

func (r *Reporter) String() string {
	return "market.reporter"
}

func (r *Reporter) Report(ctx context.Context) (*Report, error) {
	quote := r.Quotes.GetQuote(ctx, r.AssetID, r.Currency)
	if !quote.Success || !quote.Price.Valid {
		logf.Get(r).Warnf(ctx, "quote %s/%s failed: %s", r.AssetID, r.Currency, quote.ErrorMessage.String)
		return nil, errors.Wrap(strategy.ErrTransport, quote.ErrorMessage.String)
	}

	price := quote.Price.Float64
	series, err := r.Synthesizer.Synthesize(price, r.Points)
	if err != nil {
		return nil, errors.Wrap(err, "synthesize")
	}

	chartURL, err := r.Charts.RenderChartURL(series.Labels, series.Values)
	if err != nil {
		return nil, errors.Wrap(err, "render chart")
	}

	logf.Get(r).Debugf(ctx, "%s/%s = %.2f", r.AssetID, r.Currency, price)
	return &Report{
		Price:    price,
		Series:   series,
		ChartURL: chartURL,
	}, nil
}
