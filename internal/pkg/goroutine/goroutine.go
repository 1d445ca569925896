// Package goroutine runs a fixed set of tasks side by side and collects what
// each one produced, bounded by a per-task deadline.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/prescripto/internal/pkg/stacktrace"
)

// ErrPanic wraps the value a task panicked with.
var ErrPanic = errors.New("goroutine: task panicked")

// Result is the outcome of one task. Err is set when the task panicked,
// overran its deadline or never started because ctx was already done.
type Result[T any] struct {
	Value T
	Err   error
}

// All starts every task at once and returns their results in task order.
//
// Each task gets a context that expires after timeout (no deadline when
// timeout <= 0). All returns as soon as every task has either finished or
// hit its deadline; a task that ignores its context keeps running in the
// background and its late value is discarded.
func All[T any](ctx context.Context, timeout time.Duration, tasks ...func(ctx context.Context) T) []Result[T] {
	results := make([]Result[T], len(tasks))
	if err := ctx.Err(); err != nil {
		for i := range results {
			results[i].Err = err
		}
		return results
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Go(func() {
			results[i] = run(ctx, timeout, task)
		})
	}
	wg.Wait()

	return results
}

func run[T any](ctx context.Context, timeout time.Duration, task func(ctx context.Context) T) Result[T] {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	done := make(chan Result[T], 1)
	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				logPanic(ctx, rvr)
				done <- Result[T]{Err: fmt.Errorf("%w: %v", ErrPanic, rvr)}
			}
		}()
		done <- Result[T]{Value: task(ctx)}
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return Result[T]{Err: ctx.Err()}
	}
}

func logPanic(ctx context.Context, rvr any) {
	stack := debug.Stack()
	if frames := stacktrace.InternalPaths(stack); len(frames) > 0 {
		slog.ErrorContext(ctx, "panic in task", "because", rvr, "stack", frames)
		return
	}
	slog.ErrorContext(ctx, "panic in task", "because", rvr, "stack", string(stack))
}
