package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/core/internal/storage"
	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

type StorageContext interface {
	StorageConfig() apfel.GormConfig
}

type Storage[C StorageContext] struct {
	strategy.Store
}

func (s Storage[C]) String() string {
	return storage.ServiceID
}

func (s *Storage[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if s.Store != nil {
		return nil
	}

	config := app.Config().StorageConfig()
	if config.DSN == "" {
		logf.Get(s).Warnf(ctx, "database is not configured – subscriptions will be lost on restart")
		s.Store = &storage.Memory{Clock: app}
		return nil
	}

	db := &apfel.GormDB[C]{Config: config}
	if err := app.Use(ctx, db, false); err != nil {
		return err
	}

	if err := db.DB().AutoMigrate(new(strategy.Subscriber)); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}

	s.Store = &storage.SQL{
		Clock: app,
		DB:    db.DB(),
	}

	logf.Get(s).Infof(ctx, "using %s database", config.Driver)
	return nil
}
