package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/3rdparty/evm"
	"github.com/axenvault/axenbot/internal/core/internal/iface"
	"github.com/axenvault/axenbot/internal/core/internal/router"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/telegram-bot-api/ext/tapp"
	"github.com/pkg/errors"
)

type WebAppConfig struct {
	DepositURL  string `yaml:"depositUrl,omitempty" doc:"Deposit web app page." default:"https://botaxen.netlify.app/deposit.html" validate:"url"`
	WithdrawURL string `yaml:"withdrawUrl,omitempty" doc:"Withdraw web app page." default:"https://botaxen.netlify.app/withdraw.html" validate:"url"`
}

type InterfaceContext interface {
	EngineContext
	MarketContext
	evm.Context
	WebAppConfig() WebAppConfig
}

type Interface[C InterfaceContext] struct {
	*iface.Impl
}

func (i Interface[C]) String() string {
	return iface.ServiceID
}

func (i *Interface[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if i.Impl != nil {
		return nil
	}

	config := app.Config().WebAppConfig()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validate config")
	}

	var bot Telegram[C]
	if err := app.Use(ctx, &bot, false); err != nil {
		return err
	}

	var notifier Notifier[C]
	if err := app.Use(ctx, &notifier, false); err != nil {
		return err
	}

	var engine Engine[C]
	if err := app.Use(ctx, &engine, false); err != nil {
		return err
	}

	var market Market[C]
	if err := app.Use(ctx, &market, false); err != nil {
		return err
	}

	i.Impl = &iface.Impl{
		Notifier: notifier,
		Engine:   engine,
		Reporter: market,
		WebApp: iface.WebApp{
			DepositURL:  config.DepositURL,
			WithdrawURL: config.WithdrawURL,
		},
		Strategies: engine.Catalog.Len(),
	}

	var vault evm.Client[C]
	switch err := app.Use(ctx, &vault, false); {
	case errors.Is(err, apfel.ErrDisabled):
		logf.Get(i).Warnf(ctx, "vault is disabled")
	case err != nil:
		return err
	default:
		i.Vault = vault
	}

	return nil
}

func (i *Interface[C]) CommandScope() tapp.CommandScope {
	return tapp.Public
}

func (i *Interface[C]) Labels() router.Labels {
	return iface.Labels
}
