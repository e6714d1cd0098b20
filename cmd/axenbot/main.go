package main

import (
	"context"

	"github.com/axenvault/axenbot/internal/3rdparty/coingecko"
	"github.com/axenvault/axenbot/internal/3rdparty/evm"
	"github.com/axenvault/axenbot/internal/3rdparty/quickchart"
	"github.com/axenvault/axenbot/internal/core"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/gormf"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/telegram-bot-api/ext/tapp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type C struct {
	Telegram tapp.Config `yaml:"telegram" doc:"Bot-related settings."`

	Db apfel.GormConfig `yaml:"db,omitempty" doc:"Subscriber database connection settings. Supported drivers: postgres, sqlite. Subscribers are kept in memory when empty."`

	Engine core.EngineConfig `yaml:"engine,omitempty" doc:"Strategy alert delivery settings."`

	Market struct {
		core.MarketConfig `yaml:",inline"`
		CoinGecko         coingecko.Config  `yaml:"coingecko,omitempty" doc:"coingecko.com-related settings."`
		QuickChart        quickchart.Config `yaml:"quickchart,omitempty" doc:"quickchart.io-related settings."`
	} `yaml:"market,omitempty" doc:"Price report settings."`

	Vault evm.Config `yaml:"vault,omitempty" doc:"Vault contract settings."`

	WebApp core.WebAppConfig `yaml:"webApp,omitempty" doc:"Deposit and withdraw web app settings."`

	Logging    apfel.LogfConfig       `yaml:"logging,omitempty" doc:"Logging settings."`
	Prometheus apfel.PrometheusConfig `yaml:"prometheus,omitempty" doc:"Prometheus settings."`
}

func (c C) LogfConfig() apfel.LogfConfig             { return c.Logging }
func (c C) PrometheusConfig() apfel.PrometheusConfig { return c.Prometheus }
func (c C) TelegramConfig() tapp.Config              { return c.Telegram }
func (c C) StorageConfig() apfel.GormConfig          { return c.Db }
func (c C) EngineConfig() core.EngineConfig          { return c.Engine }
func (c C) MarketConfig() core.MarketConfig          { return c.Market.MarketConfig }
func (c C) CoinGeckoConfig() coingecko.Config        { return c.Market.CoinGecko }
func (c C) QuickChartConfig() quickchart.Config      { return c.Market.QuickChart }
func (c C) VaultConfig() evm.Config                  { return c.Vault }
func (c C) WebAppConfig() core.WebAppConfig          { return c.WebApp }

var GitCommit = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := apfel.Boot[C]{
		Name:    "axenbot",
		Version: GitCommit,
	}.App(ctx)
	defer flu.CloseQuietly(app)

	var (
		gorm = &apfel.Gorm[C]{
			Drivers: map[string]apfel.GormDriver{
				"postgres": postgres.Open,
				"sqlite":   sqlite.Open,
			},
			Config: gorm.Config{
				Logger: gormf.LogfLogger(app, "gorm.sql"),
			},
		}

		engine   core.Engine[C]
		telegram core.Telegram[C]
	)

	app.Uses(ctx,
		new(apfel.Logf[C]),
		new(apfel.Prometheus[C]),
		&telegram,
		gorm,
		&engine,
		new(core.Interface[C]),
	)

	if err := engine.RestoreActive(ctx); err != nil {
		logf.Panicf(ctx, "restore active: %+v", err)
	}

	telegram.Run(ctx)
}
