package engine

import (
	"context"
	"time"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/me3x"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

const ServiceID = "core.engine"

type Messages struct {
	Subscribed        string
	AlreadySubscribed string
}

type Impl struct {
	Storage  strategy.Store
	Executor strategy.TaskExecutor
	Notifier strategy.Notifier
	Metrics  me3x.Registry
	Catalog  strategy.Catalog
	Messages Messages
	// Replies are used for subscription confirmations, Alerts for scheduled messages.
	// Both default to Markdown.
	Replies  *strategy.Options
	Alerts   *strategy.Options
	Interval time.Duration
	Sleep    func(ctx context.Context, timeout time.Duration) error
}

func (e *Impl) String() string {
	return ServiceID
}

func (e *Impl) RestoreActive(ctx context.Context) error {
	subs, err := e.Storage.ListSubscribers(ctx, strategy.Active)
	if err != nil {
		return errors.Wrap(err, "list active subscribers")
	}

	for _, sub := range subs {
		e.submitTask(sub.ID)
	}

	logf.Get(e).Infof(ctx, "restored %d active subscribers", len(subs))
	return nil
}

func (e *Impl) Subscribe(ctx context.Context, id strategy.ID) (bool, error) {
	sub := &strategy.Subscriber{
		ID:    id,
		State: strategy.Active,
		RunID: strategy.NewRunID(),
	}

	err := e.Storage.CreateSubscriber(ctx, sub)
	switch {
	case err == nil:
	case errors.Is(err, strategy.ErrExists):
		resumed, err := e.resume(ctx, id)
		if err != nil {
			return false, err
		}

		if !resumed {
			e.Metrics.Counter("subscribe", sub.Labels().Add("result", "exists")).Inc()
			return false, e.notify(ctx, id, e.Messages.AlreadySubscribed)
		}
	default:
		return false, errors.Wrap(err, "create in storage")
	}

	e.Metrics.Counter("subscribe", sub.Labels().Add("result", "ok")).Inc()
	notifyErr := e.notify(ctx, id, e.Messages.Subscribed)
	e.submitTask(id)
	return true, notifyErr
}

func (e *Impl) resume(ctx context.Context, id strategy.ID) (bool, error) {
	sub, err := e.Storage.GetSubscriber(ctx, id)
	if err != nil {
		return false, errors.Wrap(err, "get from storage")
	}

	if sub.State != strategy.Cancelled {
		return false, nil
	}

	guard := strategy.Guard{State: sub.State, RunID: sub.RunID}
	sub.State = strategy.Active
	sub.RunID = strategy.NewRunID()
	err = e.Storage.UpdateSubscriber(ctx, sub, guard)
	switch {
	case err == nil:
		logf.Get(e).Infof(ctx, "resumed %s", sub)
		return true, nil
	case errors.Is(err, strategy.ErrNotFound):
		return false, nil
	default:
		return false, errors.Wrap(err, "update in storage")
	}
}

func (e *Impl) Unsubscribe(ctx context.Context, id strategy.ID) (bool, error) {
	sub, err := e.Storage.GetSubscriber(ctx, id)
	switch {
	case errors.Is(err, strategy.ErrNotFound):
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "get from storage")
	case sub.State != strategy.Active:
		return false, nil
	}

	// the schedule persists its last send before exiting, so the record is re-read after cancel
	e.Executor.Cancel(id)
	sub, err = e.Storage.GetSubscriber(ctx, id)
	switch {
	case err != nil:
		return false, errors.Wrap(err, "get from storage")
	case sub.State != strategy.Active:
		return false, nil
	}

	guard := strategy.Guard{State: sub.State, RunID: sub.RunID}
	sub.State = strategy.Cancelled
	err = e.Storage.UpdateSubscriber(ctx, sub, guard)
	switch {
	case errors.Is(err, strategy.ErrNotFound):
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "update in storage")
	}

	e.Metrics.Counter("unsubscribe", sub.Labels()).Inc()
	logf.Get(e).Infof(ctx, "cancelled %s at %d", sub, sub.NextIndex)
	return true, nil
}

func (e *Impl) Status(ctx context.Context, id strategy.ID) (*strategy.Subscriber, error) {
	return e.Storage.GetSubscriber(ctx, id)
}

func (e *Impl) notify(ctx context.Context, id strategy.ID, text string) error {
	err := e.Notifier.SendText(ctx, id, text, orMarkdown(e.Replies))
	logf.Get(e).Resultf(ctx, logf.Debug, logf.Warn, "notify %s: %v", id, err)
	return err
}

func (e *Impl) submitTask(id strategy.ID) {
	e.Executor.Submit(id, func(ctx context.Context) error { return e.deliver(ctx, id) })
}

func (e *Impl) deliver(ctx context.Context, id strategy.ID) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sub, err := e.Storage.GetSubscriber(ctx, id)
		if err != nil {
			return errors.Wrap(err, "get from storage")
		}

		if sub.State != strategy.Active {
			return nil
		}

		guard := strategy.Guard{State: sub.State, RunID: sub.RunID}
		if sub.NextIndex < e.Catalog.Len() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			index := sub.NextIndex
			err := e.Notifier.SendText(ctx, id, e.Catalog[index], orMarkdown(e.Alerts))
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}

			labels := sub.Labels().Add("index", index)
			if err != nil {
				err = errors.Wrapf(strategy.ErrPartialDelivery, "send %d: %v", index, err)
				sub.LastError = null.StringFrom(err.Error())
				e.Metrics.Counter("failed", labels).Inc()
				logf.Get(e).Warnf(ctx, "%s: %v", sub, err)
			} else {
				e.Metrics.Counter("sent", labels).Inc()
				logf.Get(e).Debugf(ctx, "sent %d to %s", index, id)
			}

			sub.NextIndex++
		}

		if sub.NextIndex >= e.Catalog.Len() {
			sub.State = strategy.Exhausted
		}

		// a delivered message is persisted even when the schedule is being cancelled
		if err := e.Storage.UpdateSubscriber(context.WithoutCancel(ctx), sub, guard); err != nil {
			if errors.Is(err, strategy.ErrNotFound) {
				logf.Get(e).Debugf(ctx, "%s changed concurrently, stopping", id)
				return nil
			}

			return errors.Wrap(err, "update in storage")
		}

		if sub.State == strategy.Exhausted {
			e.Metrics.Counter("exhausted", sub.Labels()).Inc()
			logf.Get(e).Infof(ctx, "%s exhausted", id)
			return nil
		}

		if err := e.sleep(ctx); err != nil {
			return err
		}
	}
}

func (e *Impl) sleep(ctx context.Context) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, e.Interval)
	}

	return flu.Sleep(ctx, e.Interval)
}

func orMarkdown(options *strategy.Options) *strategy.Options {
	if options == nil {
		return strategy.Markdown
	}

	return options
}
