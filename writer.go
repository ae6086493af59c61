package grpcfake

import (
	"context"
	"iter"
	"slices"
)

// WriteFlags modify how a message is written.
type WriteFlags uint

const (
	// BufferHint allows the write to be buffered.
	BufferHint WriteFlags = 1 << iota
	// NoCompress disables compression for the write.
	NoCompress
)

// WriteOptions are stored by a [StreamWriter] but have no effect on it.
type WriteOptions struct {
	Flags WriteFlags
}

// StreamWriter records the messages written to it as if they were sent to a
// server.
//
// Once [StreamWriter.Complete] has been called the writer rejects further
// writes and completions with an error wrapping [ErrInvalidState]. A
// StreamWriter is not safe for concurrent use.
type StreamWriter[T any] struct {
	// WriteOptions is kept for compatibility with real streams.
	WriteOptions WriteOptions

	items     []T
	completed bool
}

// NewStreamWriter returns an empty, open writer.
func NewStreamWriter[T any]() *StreamWriter[T] {
	return &StreamWriter[T]{}
}

// Write appends msg to the recorded messages. The context is never inspected
// and Write never blocks.
func (w *StreamWriter[T]) Write(_ context.Context, msg T) error {
	if w.completed {
		return invalidState("write after complete")
	}
	w.items = append(w.items, msg)
	return nil
}

// Complete marks the writer as completed. It may only be called once.
func (w *StreamWriter[T]) Complete(context.Context) error {
	if w.completed {
		return invalidState("complete called twice")
	}
	w.completed = true
	return nil
}

// Completed reports whether Complete has been called.
func (w *StreamWriter[T]) Completed() bool {
	return w.completed
}

// Len returns the number of recorded messages.
func (w *StreamWriter[T]) Len() int {
	return len(w.items)
}

// Messages returns a copy of the recorded messages in write order.
func (w *StreamWriter[T]) Messages() []T {
	return slices.Clone(w.items)
}

// All returns an iterator over the recorded messages in write order. The
// iterator may be ranged over any number of times.
func (w *StreamWriter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range w.items {
			if !yield(item) {
				return
			}
		}
	}
}
