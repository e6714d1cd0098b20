package storage

import (
	"context"
	"sort"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/syncf"
)

const ServiceID = "core.storage"

// Memory keeps subscribers for the lifetime of the process only.
type Memory struct {
	Clock       syncf.Clock
	subscribers map[strategy.ID]strategy.Subscriber
	mu          syncf.RWMutex
}

func (s *Memory) String() string {
	return ServiceID + ".memory"
}

func (s *Memory) GetSubscriber(ctx context.Context, id strategy.ID) (*strategy.Subscriber, error) {
	ctx, cancel := s.mu.RLock(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	defer cancel()
	sub, ok := s.subscribers[id]
	if !ok {
		return nil, strategy.ErrNotFound
	}

	return &sub, nil
}

func (s *Memory) CreateSubscriber(ctx context.Context, sub *strategy.Subscriber) error {
	ctx, cancel := s.mu.Lock(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	defer cancel()
	if _, ok := s.subscribers[sub.ID]; ok {
		return strategy.ErrExists
	}

	if s.subscribers == nil {
		s.subscribers = make(map[strategy.ID]strategy.Subscriber)
	}

	now := s.Clock.Now()
	sub.UpdatedAt = &now
	s.subscribers[sub.ID] = *sub
	return nil
}

func (s *Memory) UpdateSubscriber(ctx context.Context, sub *strategy.Subscriber, guard strategy.Guard) error {
	ctx, cancel := s.mu.Lock(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	defer cancel()
	stored, ok := s.subscribers[sub.ID]
	if !ok || stored.State != guard.State || stored.RunID != guard.RunID {
		return strategy.ErrNotFound
	}

	now := s.Clock.Now()
	sub.UpdatedAt = &now
	s.subscribers[sub.ID] = *sub
	return nil
}

func (s *Memory) ListSubscribers(ctx context.Context, state strategy.State) ([]strategy.Subscriber, error) {
	ctx, cancel := s.mu.RLock(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	defer cancel()
	subs := make([]strategy.Subscriber, 0)
	for _, sub := range s.subscribers {
		if sub.State == state {
			subs = append(subs, sub)
		}
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}
