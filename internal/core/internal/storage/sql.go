package storage

import (
	"context"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SQL struct {
	Clock syncf.Clock
	DB    *gorm.DB
}

func (s *SQL) String() string {
	return ServiceID + ".sql"
}

func (s *SQL) GetSubscriber(ctx context.Context, id strategy.ID) (*strategy.Subscriber, error) {
	var sub strategy.Subscriber
	err := s.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&sub).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, strategy.ErrNotFound
	}

	return &sub, err
}

func (s *SQL) CreateSubscriber(ctx context.Context, sub *strategy.Subscriber) error {
	now := s.Clock.Now()
	sub.UpdatedAt = &now
	tx := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub)
	if tx.Error == nil && tx.RowsAffected < 1 {
		return strategy.ErrExists
	}

	return tx.Error
}

func (s *SQL) UpdateSubscriber(ctx context.Context, sub *strategy.Subscriber, guard strategy.Guard) error {
	now := s.Clock.Now()
	tx := s.DB.WithContext(ctx).
		Model(new(strategy.Subscriber)).
		Where("id = ? and state = ? and run_id = ?", sub.ID, guard.State, guard.RunID).
		Updates(map[string]any{
			"next_index": sub.NextIndex,
			"state":      sub.State,
			"run_id":     sub.RunID,
			"last_error": sub.LastError,
			"updated_at": now,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected < 1 {
		return strategy.ErrNotFound
	}

	sub.UpdatedAt = &now
	return nil
}

func (s *SQL) ListSubscribers(ctx context.Context, state strategy.State) ([]strategy.Subscriber, error) {
	subs := make([]strategy.Subscriber, 0)
	return subs, s.DB.WithContext(ctx).
		Where("state = ?", state).
		Order("id").
		Find(&subs).
		Error
}
