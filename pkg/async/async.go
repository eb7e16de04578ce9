package async

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Resolved returns a Future that is already complete.
func Resolved[U any](result U, err error) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	f.resolve(result, err)
	return f
}

// Async executes fn in a new goroutine and returns a Future for its result.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.resolve(zero, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()

		if err := ctx.Err(); err != nil {
			var zero U
			f.resolve(zero, err)
			return
		}

		f.resolve(fn(ctx, param))
	}()

	return f
}

func (f *Future[U]) resolve(result U, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future is resolved.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future is resolved.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the Future is resolved or ctx is done. Giving up on
// the wait does not cancel the task.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout blocks for at most timeout and returns ErrTimeout if the
// Future is still pending.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the Future is resolved without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
