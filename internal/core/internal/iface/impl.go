package iface

import (
	"context"
	"fmt"
	"net/url"

	"github.com/axenvault/axenbot/internal/3rdparty/evm"
	"github.com/axenvault/axenbot/internal/core/internal/dispatch"
	"github.com/axenvault/axenbot/internal/core/internal/router"
	"github.com/axenvault/axenbot/internal/market"
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/jfk9w-go/telegram-bot-api"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const ServiceID = "core.interface"

const (
	DepositLabel   = "💰 Deposit"
	WithdrawLabel  = "🏦 Withdraw"
	PriceLabel     = "📈 See Price"
	SubscribeLabel = "🧠 Subscribe to Strategy"
)

// Labels maps the main keyboard to command keys.
var Labels = router.Labels{
	DepositLabel:   "depositlink",
	WithdrawLabel:  "withdrawlink",
	PriceLabel:     "/price",
	SubscribeLabel: "/subscribe",
}

var MainKeyboard = dispatch.LabelKeyboard(
	[]string{DepositLabel, WithdrawLabel},
	[]string{PriceLabel, SubscribeLabel},
)

type Reporter interface {
	Report(ctx context.Context) (*market.Report, error)
}

type WebApp struct {
	DepositURL  string
	WithdrawURL string
}

type Impl struct {
	Notifier   strategy.Notifier
	Engine     strategy.Engine
	Reporter   Reporter
	Vault      strategy.Vault
	WebApp     WebApp
	Strategies int
}

func (i *Impl) String() string {
	return ServiceID
}

//
// Command listeners
//

func (i *Impl) Start(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	name := cmd.User.FirstName
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf("👋 Hello %s!\n\n"+
		"Welcome to *Axen*! I'm here to make money for you! Ready to go? 🚀\n\n"+
		"Please choose an option below:", name)

	return i.reply(ctx, cmd, text, &strategy.Options{
		ParseMode:   telegram.Markdown,
		ReplyMarkup: MainKeyboard,
	})
}

func (i *Impl) Price(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	report, err := i.Reporter.Report(ctx)
	switch {
	case syncf.IsContextRelated(err):
		return err
	case errors.Is(err, strategy.ErrTransport):
		return i.reply(ctx, cmd, "❌ Unable to fetch DOT price at the moment.", nil)
	case err != nil:
		logf.Get(i).Warnf(ctx, "price report for %s: %v", cmd.Chat.ID, err)
		return i.reply(ctx, cmd, "❌ Error fetching price.", nil)
	}

	if err := i.Notifier.SendPhoto(ctx, recipient(cmd), report.ChartURL, "📈 Price trend of Axen Vault"); err != nil {
		logf.Get(i).Warnf(ctx, "send chart to %s: %v", cmd.Chat.ID, err)
		return i.reply(ctx, cmd, "❌ Error fetching price.", nil)
	}

	return i.reply(ctx, cmd, fmt.Sprintf("💵 *Current DOT Price*: *$%.2f USD*", report.Price), strategy.Markdown)
}

func (i *Impl) Subscribe(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	_, err := i.Engine.Subscribe(ctx, recipient(cmd))
	switch {
	case err == nil:
		return nil
	case syncf.IsContextRelated(err):
		return err
	case errors.Is(err, strategy.ErrTransport):
		// confirmation was not delivered, the schedule is running anyway
		return nil
	default:
		logf.Get(i).Errorf(ctx, "subscribe %s: %v", cmd.Chat.ID, err)
		return errTryLater
	}
}

func (i *Impl) Unsubscribe(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	ok, err := i.Engine.Unsubscribe(ctx, recipient(cmd))
	if err != nil {
		logf.Get(i).Errorf(ctx, "unsubscribe %s: %v", cmd.Chat.ID, err)
		return errTryLater
	}

	text := "ℹ️ You have no active strategy subscription."
	if ok {
		text = "🛑 You have *unsubscribed* from strategy notifications."
	}

	return i.reply(ctx, cmd, text, strategy.Markdown)
}

func (i *Impl) Status(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	sub, err := i.Engine.Status(ctx, recipient(cmd))
	switch {
	case errors.Is(err, strategy.ErrNotFound):
		return i.reply(ctx, cmd, "ℹ️ You are not subscribed. Tap "+SubscribeLabel+" to start.", nil)
	case err != nil:
		logf.Get(i).Errorf(ctx, "status %s: %v", cmd.Chat.ID, err)
		return errTryLater
	}

	var state string
	switch sub.State {
	case strategy.Active:
		state = "active"
	case strategy.Exhausted:
		state = "completed"
	case strategy.Cancelled:
		state = "unsubscribed"
	}

	text := fmt.Sprintf("🧠 Strategy alerts: %d of %d delivered, %s.", sub.NextIndex, i.Strategies, state)
	return i.reply(ctx, cmd, text, nil)
}

func (i *Impl) Balance(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	if i.Vault == nil {
		return errVaultDisabled
	}

	balance, err := i.Vault.GetBalance(ctx)
	if err != nil {
		if syncf.IsContextRelated(err) {
			return err
		}

		logf.Get(i).Warnf(ctx, "get balance: %v", err)
		return i.reply(ctx, cmd, "Error fetching balance: "+errors.Cause(err).Error(), nil)
	}

	return i.reply(ctx, cmd, fmt.Sprintf("Your contract balance is %s ETH.", balance), nil)
}

func (i *Impl) Deposit(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	tx := transaction{
		usage:   errDeposit,
		verb:    "deposit",
		pageURL: i.WebApp.DepositURL,
		failure: "Deposit failed. Please try again later.",
	}

	if i.Vault != nil {
		tx.submit = i.Vault.Deposit
	}

	return i.transact(ctx, cmd, tx)
}

func (i *Impl) Withdraw(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	tx := transaction{
		usage:   errWithdraw,
		verb:    "withdraw",
		pageURL: i.WebApp.WithdrawURL,
		failure: "Withdrawal failed. Please try again later.",
	}

	if i.Vault != nil {
		tx.submit = i.Vault.Withdraw
	}

	return i.transact(ctx, cmd, tx)
}

//
// Keyboard label aliases
//

func (i *Impl) DepositLink_callback(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	return i.reply(ctx, cmd, "🔗 *Click below to deposit into Axen Vault*:", &strategy.Options{
		ParseMode:   telegram.Markdown,
		ReplyMarkup: dispatch.WebAppLink("🚀 Deposit Now", i.WebApp.DepositURL),
	})
}

func (i *Impl) WithdrawLink_callback(ctx context.Context, _ telegram.Client, cmd *telegram.Command) error {
	return i.reply(ctx, cmd, "🔗 *Click below to withdraw from Axen Vault*:", &strategy.Options{
		ParseMode:   telegram.Markdown,
		ReplyMarkup: dispatch.WebAppLink("🏦 Withdraw Now", i.WebApp.WithdrawURL),
	})
}

//
// Implementation details
//

type transaction struct {
	usage   error
	verb    string
	pageURL string
	failure string
	submit  func(ctx context.Context, amount decimal.Decimal) (string, error)
}

func (i *Impl) transact(ctx context.Context, cmd *telegram.Command, tx transaction) error {
	if len(cmd.Args) != 1 {
		return tx.usage
	}

	amount, err := evm.ParseAmount(cmd.Args[0])
	if err != nil {
		return tx.usage
	}

	if tx.submit == nil || !i.Vault.CanTransact() {
		link, err := withAmount(tx.pageURL, amount.String())
		if err != nil {
			return errors.Wrap(err, "build page url")
		}

		text := fmt.Sprintf("To %s %s DOT, please visit the following page: %s", tx.verb, amount, link)
		return i.reply(ctx, cmd, text, nil)
	}

	hash, err := tx.submit(ctx, amount)
	if err != nil {
		if syncf.IsContextRelated(err) {
			return err
		}

		logf.Get(i).Warnf(ctx, "%s %s for %s: %v", tx.verb, amount, cmd.Chat.ID, err)
		return i.reply(ctx, cmd, tx.failure, nil)
	}

	return i.reply(ctx, cmd, fmt.Sprintf("✅ Transaction submitted: `%s`", hash), strategy.Markdown)
}

func (i *Impl) reply(ctx context.Context, cmd *telegram.Command, text string, options *strategy.Options) error {
	return i.Notifier.SendText(ctx, recipient(cmd), text, options)
}

func recipient(cmd *telegram.Command) strategy.ID {
	return strategy.ID(cmd.Chat.ID)
}

func withAmount(page, amount string) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set("amount", amount)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
