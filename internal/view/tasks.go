// Package view loads the data behind each portal page. A page owns a Tasks
// registry; closing it cancels every outstanding fetch and drops late results.
package view

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Tasks runs the fetches of one view instance.
type Tasks struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu     sync.Mutex
	closed bool
}

// NewTasks derives a registry from parent. Cancelling parent closes it too.
func NewTasks(parent context.Context) *Tasks {
	ctx, cancel := context.WithCancel(parent)
	return &Tasks{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the view closes.
func (t *Tasks) Context() context.Context { return t.ctx }

// Go starts fetch on its own goroutine and hands its result to apply unless
// the view has closed by then. apply calls are serialized, so they may write
// to shared page state without further locking.
func Go[T any](t *Tasks, fetch func(ctx context.Context) (T, error), apply func(T)) {
	t.group.Go(func() error {
		v, err := fetch(t.ctx)
		if err != nil {
			return err
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed || t.ctx.Err() != nil {
			return nil
		}
		apply(v)
		return nil
	})
}

// Wait blocks until every task has settled and returns the first error.
// Tasks are not cancelled when a sibling fails.
func (t *Tasks) Wait() error {
	err := t.group.Wait()
	if err == nil {
		err = t.ctx.Err()
	}
	return err
}

// Close cancels outstanding tasks. Results arriving afterwards are dropped.
func (t *Tasks) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
}
