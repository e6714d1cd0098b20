package coingecko

import (
	"context"
	"net/http"
	"strings"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/httpf"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

const FailureMessage = "Failed to fetch current price"

type Config struct {
	URL     string       `yaml:"url,omitempty" doc:"Simple price endpoint." default:"https://api.coingecko.com/api/v3/simple/price"`
	Timeout flu.Duration `yaml:"timeout,omitempty" doc:"Request timeout." default:"15s"`
}

type Context interface {
	CoinGeckoConfig() Config
}

type Client[C Context] struct {
	*API
}

func (c Client[C]) String() string {
	return "coingecko.client"
}

func (c *Client[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if c.API != nil {
		return nil
	}

	config := app.Config().CoinGeckoConfig()
	if config.URL == "" {
		return errors.New("url is empty")
	}

	c.API = &API{
		Client: &http.Client{
			Transport: httpf.NewDefaultTransport(),
			Timeout:   config.Timeout.Value,
		},
		URL: config.URL,
	}

	return nil
}

type API struct {
	Client httpf.Client
	URL    string
}

func (a *API) String() string {
	return "coingecko.client"
}

func (a *API) Do(req *http.Request) (*http.Response, error) {
	resp, err := a.Client.Do(req)
	logf.Get(a).Resultf(req.Context(), logf.Trace, logf.Warn, "%s => %v", &httpf.RequestBuilder{Request: req}, err)
	return resp, err
}

// SimplePrice returns prices keyed by asset ID and then by currency.
func (a *API) SimplePrice(ctx context.Context, ids, currencies []string) (map[string]map[string]float64, error) {
	prices := make(map[string]map[string]float64)
	if err := httpf.GET(a.URL).
		Query("ids", strings.Join(ids, ",")).
		Query("vs_currencies", strings.Join(currencies, ",")).
		Exchange(ctx, a).
		CheckStatus(http.StatusOK).
		DecodeBody(flu.JSON(&prices)).
		Error(); err != nil {
		return nil, errors.Wrap(strategy.ErrTransport, err.Error())
	}

	return prices, nil
}

func (a *API) GetQuote(ctx context.Context, assetID, currency string) strategy.Quote {
	prices, err := a.SimplePrice(ctx, []string{assetID}, []string{currency})
	if err != nil {
		logf.Get(a).Warnf(ctx, "get %s/%s price: %v", assetID, currency, err)
		return strategy.FailedQuote(FailureMessage)
	}

	price, ok := prices[assetID][currency]
	if !ok {
		logf.Get(a).Warnf(ctx, "no %s/%s price in response", assetID, currency)
		return strategy.FailedQuote(FailureMessage)
	}

	return strategy.QuoteOf(price)
}
