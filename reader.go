package grpcfake

import (
	"context"
	"io"
	"iter"
	"slices"
)

// StreamReader replays a fixed sequence of messages as if they arrived from a
// server stream.
//
// A StreamReader is not safe for concurrent use.
type StreamReader[T any] struct {
	next    func() (T, bool)
	stop    func()
	current T
}

// NewStreamReader returns a reader over seq. It panics if seq is nil; an empty
// sequence is valid and yields nothing.
//
// The reader holds a pull cursor on seq until it is exhausted or closed, so a
// reader that is not read to the end should be closed.
func NewStreamReader[T any](seq iter.Seq[T]) *StreamReader[T] {
	mustNotBeNil(seq == nil, "seq")

	next, stop := iter.Pull(seq)
	return &StreamReader[T]{next: next, stop: stop}
}

// StreamReaderOf returns a reader over items.
func StreamReaderOf[T any](items ...T) *StreamReader[T] {
	return NewStreamReader(slices.Values(items))
}

// Next advances the reader and reports whether a further message is
// available, making it current. The context is accepted for compatibility
// with real streams but is never inspected: Next always completes
// immediately.
func (r *StreamReader[T]) Next(context.Context) bool {
	v, ok := r.next()
	if !ok {
		var zero T
		r.current = zero
		return false
	}
	r.current = v
	return true
}

// Current returns the message made current by the last successful call to
// Next. It returns the zero value before the first call to Next and once the
// reader is exhausted.
func (r *StreamReader[T]) Current() T {
	return r.current
}

// Recv advances the reader and returns the next message, or io.EOF when the
// sequence is exhausted.
func (r *StreamReader[T]) Recv() (T, error) {
	if !r.Next(context.Background()) {
		return r.current, io.EOF
	}
	return r.current, nil
}

// Close releases the cursor on the underlying sequence. It is safe to call
// more than once.
func (r *StreamReader[T]) Close() {
	if r.stop != nil {
		r.stop()
	}
}
