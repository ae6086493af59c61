package grpcfake

import (
	"context"
	"sync"
)

// Future is a value that is either pending or ready.
//
// Futures built with [Ready] or [Failed] are resolved from the start and
// [Future.Await] returns immediately without looking at its context. Futures
// built with [NewFuture] stay pending until their resolve function is called,
// which lets a test control when a fake call produces its response.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Ready returns a future already resolved to v.
func Ready[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	f.once.Do(func() { close(f.done) })
	return f
}

// Failed returns a future already resolved to err.
func Failed[T any](err error) *Future[T] {
	mustNotBeNil(err == nil, "err")

	f := &Future[T]{done: make(chan struct{}), err: err}
	f.once.Do(func() { close(f.done) })
	return f
}

// NewFuture returns a pending future and the function that resolves it. Only
// the first call to resolve has any effect.
func NewFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	resolve := func(v T, err error) {
		f.once.Do(func() {
			f.value, f.err = v, err
			close(f.done)
		})
	}
	return f, resolve
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future has been resolved.
func (f *Future[T]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await returns the resolved value, waiting for a pending future until it is
// resolved or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f.IsReady() {
		return f.value, f.err
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
