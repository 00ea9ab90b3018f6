// ABOUTME: Background task runner that executes models out of band from the request that started them.
// ABOUTME: Tasks share a context cancelled on shutdown; panics and errors are logged, never propagated.
package web

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// TaskRunner runs functions in the background and waits for them on shutdown.
type TaskRunner struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

// NewTaskRunner creates a runner. limit caps concurrently running tasks; a
// non-positive limit means no cap.
func NewTaskRunner(limit int) *TaskRunner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &TaskRunner{ctx: ctx, cancel: cancel}
	if limit > 0 {
		r.group.SetLimit(limit)
	}
	return r
}

// TryGo starts fn unless the runner is at its limit or shutting down.
// It reports whether fn was started.
func (r *TaskRunner) TryGo(name string, fn func(ctx context.Context) error) bool {
	if r.ctx.Err() != nil {
		return false
	}
	return r.group.TryGo(func() error {
		if err := r.run(fn); err != nil {
			log.Printf("component=web action=task status=error task=%s err=%v", name, err)
			return nil
		}
		log.Printf("component=web action=task status=done task=%s", name)
		return nil
	})
}

func (r *TaskRunner) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return fn(r.ctx)
}

// Shutdown cancels the shared task context and waits for running tasks to
// return or for ctx to expire.
func (r *TaskRunner) Shutdown(ctx context.Context) error {
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every started task has returned.
func (r *TaskRunner) Wait() {
	_ = r.group.Wait()
}
