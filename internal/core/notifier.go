package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/core/internal/dispatch"
	"github.com/jfk9w-go/flu/apfel"
)

type Notifier[C TelegramContext] struct {
	*dispatch.Telegram
}

func (n Notifier[C]) String() string {
	return dispatch.ServiceID
}

func (n *Notifier[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if n.Telegram != nil {
		return nil
	}

	var bot Telegram[C]
	if err := app.Use(ctx, &bot, false); err != nil {
		return err
	}

	n.Telegram = &dispatch.Telegram{Sender: bot.Bot()}
	return nil
}
