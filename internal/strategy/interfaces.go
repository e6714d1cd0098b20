package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

type Store interface {
	GetSubscriber(ctx context.Context, id ID) (*Subscriber, error)
	CreateSubscriber(ctx context.Context, sub *Subscriber) error
	// UpdateSubscriber saves sub only if the stored record still matches guard.
	// ErrNotFound is returned otherwise.
	UpdateSubscriber(ctx context.Context, sub *Subscriber, guard Guard) error
	ListSubscribers(ctx context.Context, state State) ([]Subscriber, error)
}

type TaskExecutor interface {
	Submit(key any, task Task) bool
	Cancel(key any) bool
}

type Notifier interface {
	SendText(ctx context.Context, recipient ID, body string, options *Options) error
	SendPhoto(ctx context.Context, recipient ID, imageURL string, caption string) error
}

type QuoteSource interface {
	GetQuote(ctx context.Context, assetID, currency string) Quote
}

type Synthesizer interface {
	Synthesize(base float64, count int) (Series, error)
}

type ChartRenderer interface {
	RenderChartURL(labels []string, values []float64) (string, error)
}

type Engine interface {
	Subscribe(ctx context.Context, id ID) (bool, error)
	Unsubscribe(ctx context.Context, id ID) (bool, error)
	Status(ctx context.Context, id ID) (*Subscriber, error)
	RestoreActive(ctx context.Context) error
}

type Vault interface {
	Deposit(ctx context.Context, amount decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (string, error)
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	CanTransact() bool
}
