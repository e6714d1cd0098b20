package dispatch

import (
	"context"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/telegram-bot-api"
	"github.com/pkg/errors"
)

const ServiceID = "core.dispatch"

// Telegram delivers notifications through the Bot API.
type Telegram struct {
	Sender telegram.Sender
}

func (d *Telegram) String() string {
	return ServiceID
}

func (d *Telegram) SendText(ctx context.Context, recipient strategy.ID, body string, options *strategy.Options) error {
	text := telegram.Text{
		Text:                  body,
		DisableWebPagePreview: true,
	}

	if options != nil {
		text.ParseMode = options.ParseMode
	}

	return d.send(ctx, recipient, text, options)
}

func (d *Telegram) SendPhoto(ctx context.Context, recipient strategy.ID, imageURL string, caption string) error {
	photo := telegram.Media{
		Type:    telegram.Photo,
		Input:   flu.URL(imageURL),
		Caption: caption,
	}

	return d.send(ctx, recipient, photo, nil)
}

func (d *Telegram) send(ctx context.Context, recipient strategy.ID, item telegram.Sendable, options *strategy.Options) error {
	var sendOptions *telegram.SendOptions
	if options != nil {
		sendOptions = &telegram.SendOptions{
			DisableNotification: options.Silent,
			ReplyMarkup:         options.ReplyMarkup,
		}
	}

	_, err := d.Sender.Send(ctx, recipient.ChatID(), item, sendOptions)
	logf.Get(d).Resultf(ctx, logf.Trace, logf.Debug, "send to %s: %v", recipient, err)
	if err != nil {
		return errors.Wrapf(strategy.ErrTransport, "send to %s: %v", recipient, err)
	}

	return nil
}
