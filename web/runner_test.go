// ABOUTME: Tests for the background TaskRunner.
// ABOUTME: Covers completion, error and panic isolation, limits, cancellation on shutdown, and shutdown timeouts.
package web

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskRunnerRunsTasks(t *testing.T) {
	r := NewTaskRunner(0)

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		if !r.TryGo("count", func(ctx context.Context) error {
			count.Add(1)
			return nil
		}) {
			t.Fatal("expected unlimited runner to accept task")
		}
	}
	r.Wait()

	if got := count.Load(); got != 10 {
		t.Errorf("expected 10 runs, got %d", got)
	}
}

func TestTaskRunnerSwallowsErrorsAndPanics(t *testing.T) {
	r := NewTaskRunner(0)

	var after atomic.Int64
	r.TryGo("err", func(ctx context.Context) error { return errors.New("boom") })
	r.TryGo("panic", func(ctx context.Context) error { panic("kaboom") })
	r.Wait()

	r.TryGo("after", func(ctx context.Context) error {
		after.Add(1)
		return nil
	})
	r.Wait()

	if after.Load() != 1 {
		t.Error("expected runner to keep working after failed tasks")
	}
}

func TestTaskRunnerLimit(t *testing.T) {
	r := NewTaskRunner(1)
	release := make(chan struct{})

	if !r.TryGo("first", func(ctx context.Context) error {
		<-release
		return nil
	}) {
		t.Fatal("expected first task to start")
	}
	if r.TryGo("second", func(ctx context.Context) error { return nil }) {
		t.Error("expected second task to be rejected at the limit")
	}

	close(release)
	r.Wait()

	if !r.TryGo("third", func(ctx context.Context) error { return nil }) {
		t.Error("expected task to start once capacity frees up")
	}
	r.Wait()
}

func TestTaskRunnerShutdownCancelsContext(t *testing.T) {
	r := NewTaskRunner(0)
	started := make(chan struct{})

	var cancelled atomic.Bool
	r.TryGo("wait", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !cancelled.Load() {
		t.Error("expected task context to be cancelled")
	}
	if r.TryGo("late", func(ctx context.Context) error { return nil }) {
		t.Error("expected runner to reject tasks after shutdown")
	}
}

func TestTaskRunnerShutdownTimeout(t *testing.T) {
	r := NewTaskRunner(0)
	release := make(chan struct{})
	defer close(release)

	r.TryGo("stubborn", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
