package grpcfake_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomasbasham/grpcfake"
)

func TestStreamReader_ReplaysInOrder(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"empty":    {},
		"single":   {"a"},
		"multiple": {"a", "b", "c"},
	}

	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := grpcfake.NewStreamReader(slices.Values(items))
			defer r.Close()

			var got []string
			for r.Next(context.Background()) {
				got = append(got, r.Current())
			}

			if diff := cmp.Diff(items, got, cmpEmptySlices); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			// Exhausted readers stay exhausted.
			if r.Next(context.Background()) {
				t.Error("expected no further items")
			}
			if got := r.Current(); got != "" {
				t.Errorf("mismatch:\n  got:  %q\n  want: zero value", got)
			}
		})
	}
}

func TestStreamReader_CurrentBeforeNext(t *testing.T) {
	t.Parallel()

	r := grpcfake.StreamReaderOf(1, 2)
	defer r.Close()

	if got := r.Current(); got != 0 {
		t.Errorf("mismatch:\n  got:  %d\n  want: 0", got)
	}
}

func TestStreamReader_IgnoresContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := grpcfake.StreamReaderOf("a")
	defer r.Close()

	if !r.Next(ctx) {
		t.Fatal("expected an item despite the cancelled context")
	}
	if got := r.Current(); got != "a" {
		t.Errorf("mismatch:\n  got:  %q\n  want: %q", got, "a")
	}
}

func TestStreamReader_Recv(t *testing.T) {
	t.Parallel()

	r := grpcfake.StreamReaderOf("a")
	defer r.Close()

	got, err := r.Recv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a" {
		t.Errorf("mismatch:\n  got:  %q\n  want: %q", got, "a")
	}

	if _, err := r.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got: %v", err)
	}
}

func TestStreamReader_Close(t *testing.T) {
	t.Parallel()

	var stopped bool
	seq := iter.Seq[int](func(yield func(int) bool) {
		defer func() { stopped = true }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	})

	r := grpcfake.NewStreamReader(seq)
	if !r.Next(context.Background()) {
		t.Fatal("expected an item")
	}

	r.Close()
	if !stopped {
		t.Error("expected Close to stop the sequence")
	}

	// Must be safe to call multiple times.
	r.Close()

	if r.Next(context.Background()) {
		t.Error("expected no items after Close")
	}
}

func TestNewStreamReader_Nil(t *testing.T) {
	t.Parallel()

	mustPanicWithInvalidArgument(t, func() { grpcfake.NewStreamReader[string](nil) })
}

// cmpEmptySlices treats nil and empty slices as equal.
var cmpEmptySlices = cmp.Comparer(func(a, b []string) bool {
	return slices.Equal(a, b)
})
