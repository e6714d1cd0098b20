package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/core/internal/router"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/me3x"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/jfk9w-go/telegram-bot-api"
	"github.com/jfk9w-go/telegram-bot-api/ext/tapp"
)

type TelegramContext interface {
	tapp.Context
	apfel.PrometheusContext
}

// Labeled is implemented by listeners which handle reply keyboard labels.
type Labeled interface {
	Labels() router.Labels
}

// Telegram owns the bot and routes commands and keyboard labels to registered listeners.
type Telegram[C TelegramContext] struct {
	bot      *telegram.Bot
	commands tapp.Commands
	registry telegram.CommandRegistry
	labels   router.Labels
	metrics  me3x.Registry
}

func (m *Telegram[C]) String() string {
	return "telegram.bot"
}

func (m *Telegram[C]) Bot() *telegram.Bot {
	return m.bot
}

func (m *Telegram[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	var metrics apfel.Prometheus[C]
	if err := app.Use(ctx, &metrics, false); err != nil {
		return err
	}

	m.bot = telegram.NewBot(app, nil, app.Config().TelegramConfig().Token)
	m.commands = make(tapp.Commands)
	m.registry = make(telegram.CommandRegistry)
	m.labels = make(router.Labels)
	m.metrics = metrics.Registry().WithPrefix("app_telegram")
	return nil
}

func (m *Telegram[C]) AfterInclude(ctx context.Context, app apfel.MixinApp[C], mixin apfel.Mixin[C]) error {
	if _, ok := mixin.(tapp.Listener); !ok {
		return nil
	}

	local := make(telegram.CommandRegistry)
	if err := local.From(mixin); err != nil {
		logf.Get(m).Printf(ctx, "register %s error: %v", mixin, err)
		return nil
	}

	scope := tapp.Public
	if scoped, ok := mixin.(tapp.Scoped); ok {
		scope = scoped.CommandScope()
	}

	for key, listener := range local {
		key := key
		scope.Transform(func(scope telegram.BotCommandScope) { m.commands.AddAll(scope, key) })
		m.registry.Add(key, scope.Wrap(listener))
		logf.Get(m).Infof(ctx, "register command %s @ [%s] for %s", key, mixin, scope)
	}

	if labeled, ok := mixin.(Labeled); ok {
		for label, key := range labeled.Labels() {
			m.labels[label] = key
			logf.Get(m).Infof(ctx, "register label [%s] => %s for %s", label, key, mixin)
		}
	}

	return nil
}

func (m *Telegram[C]) OnCommand(ctx context.Context, client telegram.Client, cmd *telegram.Command) error {
	if _, ok := m.registry[cmd.Key]; !ok {
		return nil
	}

	err := m.registry.OnCommand(ctx, client, cmd)
	m.metrics.Counter("commands", me3x.Labels{}.
		Add("key", cmd.Key).
		Add("ok", err == nil)).
		Inc()

	return err
}

// Run serves updates until a shutdown signal is received or ctx is done.
func (m *Telegram[C]) Run(ctx context.Context) {
	defer logf.Get(m).Infof(ctx, "stopped")
	if err := m.commands.Set(ctx, m.bot); err != nil {
		logf.Get(m).Warnf(ctx, "set commands: %v", err)
	}

	r := &router.Router{
		Username: m.bot.Username(),
		Labels:   m.labels,
		Handler:  m.bot,
		Listener: m,
	}

	updates := m.bot.Listen(*telegram.DefaultCommandsOptions)
	serving := make(chan struct{})
	go func() {
		defer close(serving)
		r.Serve(ctx, updates)
	}()

	logf.Get(m).Infof(ctx, "started")
	syncf.AwaitSignal(ctx)
	flu.CloseQuietly(m.bot)
	<-serving
}
