package core

import (
	"context"

	"github.com/axenvault/axenbot/internal/core/internal/executor"
	"github.com/jfk9w-go/flu/apfel"
)

type TaskExecutor[C any] struct {
	*executor.Tasks
}

func (e TaskExecutor[C]) String() string {
	return executor.ServiceID
}

func (e *TaskExecutor[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	if e.Tasks != nil {
		return nil
	}

	tasks := executor.New()
	if err := app.Manage(ctx, tasks); err != nil {
		return err
	}

	e.Tasks = tasks
	return nil
}
