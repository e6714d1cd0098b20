package router

import (
	"context"
	"encoding/csv"
	"strings"

	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/jfk9w-go/telegram-bot-api"
)

const ServiceID = "core.router"

// Labels maps reply keyboard labels to command keys.
type Labels map[string]string

type CommandHandler interface {
	HandleCommand(ctx context.Context, listener telegram.CommandListener, cmd *telegram.Command) error
}

// Router turns updates into commands and handles each one in its own goroutine.
type Router struct {
	Username telegram.Username
	Labels   Labels
	Handler  CommandHandler
	Listener telegram.CommandListener
	work     syncf.WaitGroup
}

func (r *Router) String() string {
	return ServiceID
}

// Serve consumes updates until the channel is closed or the context is done.
// It returns after all started handlers complete.
func (r *Router) Serve(ctx context.Context, updates <-chan telegram.Update) {
	defer r.work.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			cmd := r.Route(update)
			if cmd == nil {
				logf.Get(r).Tracef(ctx, "skip update %d", update.ID)
				continue
			}

			_, _ = syncf.GoWith(ctx, r.work.Spawn, func(ctx context.Context) {
				err := r.Handler.HandleCommand(ctx, r.Listener, cmd)
				logf.Get(r).Resultf(ctx, logf.Debug, logf.Warn, "handle %s: %v", cmd, err)
			})
		}
	}
}

// Route returns nil for updates which carry no command.
func (r *Router) Route(update telegram.Update) *telegram.Command {
	switch {
	case update.Message != nil:
		return r.routeMessage(update.Message)
	case update.CallbackQuery != nil:
		return r.routeCallbackQuery(update.CallbackQuery)
	default:
		return nil
	}
}

func (r *Router) routeMessage(message *telegram.Message) *telegram.Command {
	cmd := &telegram.Command{
		Chat:    &message.Chat,
		User:    &message.From,
		Message: message,
	}

	for _, entity := range message.Entities {
		if entity.Type == "bot_command" && entity.Offset < len(message.Text) {
			r.parse(cmd, message.Text[entity.Offset:])
			return cmd
		}
	}

	if key, ok := r.Labels[trim(message.Text)]; ok {
		cmd.Key = key
		cmd.Args = make([]string, 0)
		return cmd
	}

	return nil
}

func (r *Router) routeCallbackQuery(query *telegram.CallbackQuery) *telegram.Command {
	if query.Data == nil || query.Message == nil {
		return nil
	}

	cmd := &telegram.Command{
		Chat:            &query.Message.Chat,
		User:            &query.From,
		Message:         query.Message,
		CallbackQueryID: query.ID,
	}

	r.parse(cmd, *query.Data)
	return cmd
}

func (r *Router) parse(cmd *telegram.Command, value string) {
	value = trim(value)
	cmd.Key = value
	if space := strings.IndexAny(value, " \n"); space > 0 {
		cmd.Key = value[:space]
		cmd.Payload = trim(value[space+1:])
	}

	if at := strings.Index(cmd.Key, "@"); at > 0 && cmd.Key[at+1:] == string(r.Username) {
		cmd.Key = cmd.Key[:at]
	}

	cmd.Args = make([]string, 0)
	if cmd.Payload == "" {
		return
	}

	reader := csv.NewReader(strings.NewReader(cmd.Payload))
	reader.Comma = ' '
	reader.TrimLeadingSpace = true
	args, err := reader.Read()
	if err != nil {
		logf.Get(r).Warnf(nil, "parse args [%s]: %v", cmd.Payload, err)
		return
	}

	cmd.Args = args
}

func trim(value string) string {
	return strings.Trim(value, " \n\t\v")
}
