package executor

import (
	"context"
	"fmt"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"
)

const ServiceID = "core.task-executor"

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Tasks runs at most one task per key. Tasks are cancelled when the executor is closed.
type Tasks struct {
	ctx    context.Context
	cancel func()
	tasks  map[string]*handle
	work   syncf.WaitGroup
	mu     syncf.RWMutex
}

func New() *Tasks {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tasks{
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]*handle),
	}
}

func (e *Tasks) String() string {
	return ServiceID
}

// Submit starts the task unless a task with the same key is already running.
func (e *Tasks) Submit(id any, task strategy.Task) bool {
	key := fmt.Sprint(id)
	ctx, cancel := e.mu.Lock(e.ctx)
	if ctx.Err() != nil {
		return false
	}

	defer cancel()
	if _, ok := e.tasks[key]; ok {
		return false
	}

	taskCtx, cancelTask := context.WithCancel(e.ctx)
	h := &handle{cancel: cancelTask, done: make(chan struct{})}
	if _, err := syncf.GoWith(taskCtx, e.work.Spawn, func(ctx context.Context) {
		defer e.release(key, h)
		err := task(ctx)
		logf.Get(e).Resultf(ctx, logf.Debug, logf.Warn, "task [%s] completed: %v", key, err)
	}); err != nil {
		cancelTask()
		return false
	}

	e.tasks[key] = h
	logf.Get(e).Debugf(ctx, "started task [%s]", key)
	return true
}

// Cancel interrupts the running task with the key and waits until it returns.
func (e *Tasks) Cancel(id any) bool {
	key := fmt.Sprint(id)
	h := e.get(key)
	if h == nil {
		return false
	}

	h.cancel()
	<-h.done
	logf.Get(e).Debugf(e.ctx, "cancelled task [%s]", key)
	return true
}

func (e *Tasks) get(key string) *handle {
	ctx, cancel := e.mu.RLock(e.ctx)
	if ctx.Err() != nil {
		return nil
	}

	defer cancel()
	return e.tasks[key]
}

func (e *Tasks) Running(id any) bool {
	ctx, cancel := e.mu.RLock(e.ctx)
	if ctx.Err() != nil {
		return false
	}

	defer cancel()
	_, ok := e.tasks[fmt.Sprint(id)]
	return ok
}

func (e *Tasks) release(key string, h *handle) {
	h.cancel()
	_, cancel := e.mu.Lock(context.Background())
	defer cancel()
	if e.tasks[key] == h {
		delete(e.tasks, key)
	}

	close(h.done)
}

func (e *Tasks) Close() error {
	e.cancel()
	e.work.Wait()
	return nil
}
