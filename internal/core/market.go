package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/3rdparty/coingecko"
	"github.com/axenvault/axenbot/internal/3rdparty/quickchart"
	"github.com/axenvault/axenbot/internal/market"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/pkg/errors"
)

type MarketConfig struct {
	AssetID  string `yaml:"assetId,omitempty" doc:"CoinGecko asset ID to quote." default:"polkadot" validate:"required"`
	Currency string `yaml:"currency,omitempty" doc:"Quote currency." default:"usd" validate:"required"`
	Points   int    `yaml:"points,omitempty" doc:"Number of points in the synthetic price trend." default:"10" validate:"min=1,max=1000"`
	Seed     uint64 `yaml:"seed,omitempty" doc:"Random walk seed. Current time is used when empty."`
}

type MarketContext interface {
	coingecko.Context
	quickchart.Context
	MarketConfig() MarketConfig
}

type Market[C MarketContext] struct {
	*market.Reporter
}

func (m Market[C]) String() string {
	return "market.reporter"
}

func (m *Market[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if m.Reporter != nil {
		return nil
	}

	config := app.Config().MarketConfig()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validate config")
	}

	var quotes coingecko.Client[C]
	if err := app.Use(ctx, &quotes, false); err != nil {
		return err
	}

	var charts quickchart.Renderer[C]
	if err := app.Use(ctx, &charts, false); err != nil {
		return err
	}

	walk := new(market.Walk)
	if config.Seed != 0 {
		walk.Random = market.NewRandom(config.Seed)
	}

	m.Reporter = &market.Reporter{
		Quotes:      quotes,
		Synthesizer: walk,
		Charts:      charts,
		AssetID:     config.AssetID,
		Currency:    config.Currency,
		Points:      config.Points,
	}

	return nil
}
