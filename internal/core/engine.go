package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/core/internal/engine"
	"github.com/axenvault/axenbot/internal/core/internal/iface"
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/telegram-bot-api"
	"github.com/pkg/errors"
)

var DefaultMessages = engine.Messages{
	Subscribed: "🧠 You have successfully *subscribed* to strategy notifications!\n\n" +
		"Expect expert strategies delivered right here! 🚀",
	AlreadySubscribed: "✅ You are already subscribed!",
}

type EngineConfig struct {
	Interval flu.Duration `yaml:"interval,omitempty" doc:"Delay between consecutive strategy alerts." default:"30s"`
	Catalog  string       `yaml:"catalog,omitempty" doc:"Path to a YAML file with strategy alerts under the 'strategies' key. Built-in alerts are used when empty."`
	Silent   bool         `yaml:"silent,omitempty" doc:"Deliver scheduled strategy alerts without notification sound."`
}

type EngineContext interface {
	TelegramContext
	StorageContext
	EngineConfig() EngineConfig
}

type Engine[C EngineContext] struct {
	*engine.Impl
}

func (e Engine[C]) String() string {
	return engine.ServiceID
}

func (e *Engine[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if e.Impl != nil {
		return nil
	}

	config := app.Config().EngineConfig()
	if config.Interval.Value <= 0 {
		return errors.Errorf("interval must be positive, got %s", config.Interval.Value)
	}

	catalog := strategy.DefaultCatalog()
	if config.Catalog != "" {
		var err error
		if catalog, err = strategy.LoadCatalog(flu.File(config.Catalog)); err != nil {
			return errors.Wrap(err, "load catalog")
		}
	}

	var storage Storage[C]
	if err := app.Use(ctx, &storage, false); err != nil {
		return err
	}

	var executor TaskExecutor[C]
	if err := app.Use(ctx, &executor, false); err != nil {
		return err
	}

	var notifier Notifier[C]
	if err := app.Use(ctx, &notifier, false); err != nil {
		return err
	}

	var metrics apfel.Prometheus[C]
	if err := app.Use(ctx, &metrics, false); err != nil {
		return err
	}

	e.Impl = &engine.Impl{
		Storage:  storage,
		Executor: executor,
		Notifier: notifier,
		Metrics:  metrics.Registry().WithPrefix("app_engine"),
		Catalog:  catalog,
		Messages: DefaultMessages,
		Replies: &strategy.Options{
			ParseMode:   telegram.Markdown,
			ReplyMarkup: iface.MainKeyboard,
		},
		Alerts: &strategy.Options{
			ParseMode:   telegram.Markdown,
			ReplyMarkup: iface.MainKeyboard,
			Silent:      config.Silent,
		},
		Interval: config.Interval.Value,
	}

	logf.Get(e).Infof(ctx, "loaded %d strategies, interval %s", catalog.Len(), config.Interval.Value)
	return nil
}
