package router_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/axenvault/axenbot/internal/core/internal/router"
	"github.com/jfk9w-go/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *router.Router {
	return &router.Router{
		Username: "axenbot",
		Labels: router.Labels{
			"💰 Deposit":              "deposit_label",
			"🧠 Subscribe to Strategy": "/subscribe",
		},
	}
}

func message(text string, entities ...telegram.MessageEntity) telegram.Update {
	return telegram.Update{
		Message: &telegram.Message{
			ID:       10,
			From:     telegram.User{ID: 1, FirstName: "Ann"},
			Chat:     telegram.Chat{ID: 2},
			Text:     text,
			Entities: entities,
		},
	}
}

func botCommand(length int) telegram.MessageEntity {
	return telegram.MessageEntity{Type: "bot_command", Offset: 0, Length: length}
}

func TestRouter_Route(t *testing.T) {
	r := newRouter()
	for _, tc := range []struct {
		name    string
		update  telegram.Update
		key     string
		payload string
		args    []string
	}{
		{
			name:   "command",
			update: message("/price", botCommand(6)),
			key:    "/price",
			args:   []string{},
		},
		{
			name:    "command with args",
			update:  message("/deposit 1.5", botCommand(8)),
			key:     "/deposit",
			payload: "1.5",
			args:    []string{"1.5"},
		},
		{
			name:    "command with bot username",
			update:  message("/withdraw@axenbot  2 3", botCommand(17)),
			key:     "/withdraw",
			payload: "2 3",
			args:    []string{"2", "3"},
		},
		{
			name:   "command for another bot",
			update: message("/withdraw@otherbot", botCommand(18)),
			key:    "/withdraw@otherbot",
			args:   []string{},
		},
		{
			name:   "label",
			update: message("💰 Deposit"),
			key:    "deposit_label",
			args:   []string{},
		},
		{
			name:   "label with whitespace",
			update: message(" 🧠 Subscribe to Strategy\n"),
			key:    "/subscribe",
			args:   []string{},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cmd := r.Route(tc.update)
			require.NotNil(t, cmd)
			assert.Equal(t, tc.key, cmd.Key)
			assert.Equal(t, tc.payload, cmd.Payload)
			assert.Equal(t, tc.args, cmd.Args)
			assert.Equal(t, telegram.ID(1), cmd.User.ID)
			assert.Equal(t, telegram.ID(2), cmd.Chat.ID)
			assert.Empty(t, cmd.CallbackQueryID)
		})
	}
}

func TestRouter_RouteCallbackQuery(t *testing.T) {
	data := "/status"
	cmd := newRouter().Route(telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:      "q1",
			From:    telegram.User{ID: 1},
			Message: &telegram.Message{Chat: telegram.Chat{ID: 2}},
			Data:    &data,
		},
	})

	require.NotNil(t, cmd)
	assert.Equal(t, "/status", cmd.Key)
	assert.Equal(t, "q1", cmd.CallbackQueryID)
}

func TestRouter_RouteIgnored(t *testing.T) {
	r := newRouter()
	assert.Nil(t, r.Route(message("hello there")))
	assert.Nil(t, r.Route(telegram.Update{}))
	assert.Nil(t, r.Route(telegram.Update{CallbackQuery: &telegram.CallbackQuery{ID: "q"}}))
}

type handler struct {
	mu      sync.Mutex
	keys    []string
	release chan struct{}
}

func (h *handler) HandleCommand(ctx context.Context, listener telegram.CommandListener, cmd *telegram.Command) error {
	h.mu.Lock()
	h.keys = append(h.keys, cmd.Key)
	h.mu.Unlock()
	if cmd.Key == "/subscribe" {
		select {
		case <-h.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (h *handler) handled() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.keys...)
}

func TestRouter_Serve(t *testing.T) {
	h := &handler{release: make(chan struct{})}
	r := newRouter()
	r.Handler = h

	updates := make(chan telegram.Update)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Serve(context.Background(), updates)
	}()

	updates <- message("/subscribe", botCommand(10))
	updates <- message("ignored")
	updates <- message("/price", botCommand(6))

	assert.Eventually(t, func() bool { return len(h.handled()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"/subscribe", "/price"}, h.handled())

	close(updates)
	select {
	case <-done:
		t.Fatal("serve returned before handlers completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(h.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve did not return")
	}
}
