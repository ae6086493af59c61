package grpcfake_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomasbasham/grpcfake"
)

func TestStreamWriter_RecordsInOrder(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 5} {
		w := grpcfake.NewStreamWriter[int]()

		var want []int
		for i := range n {
			if err := w.Write(context.Background(), i); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want = append(want, i)
		}
		if err := w.Complete(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := w.Len(); got != n {
			t.Errorf("mismatch:\n  got:  %d\n  want: %d", got, n)
		}
		if !slices.Equal(w.Messages(), want) {
			t.Errorf("mismatch:\n  got:  %v\n  want: %v", w.Messages(), want)
		}
	}
}

func TestStreamWriter_AllIsRestartable(t *testing.T) {
	t.Parallel()

	w := grpcfake.NewStreamWriter[string]()
	for _, msg := range []string{"m1", "m2"} {
		if err := w.Write(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first := slices.Collect(w.All())
	second := slices.Collect(w.All())

	want := []string{"m1", "m2"}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("first iteration mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Errorf("second iteration mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamWriter_Completion(t *testing.T) {
	t.Parallel()

	t.Run("write after complete fails", func(t *testing.T) {
		t.Parallel()

		w := grpcfake.NewStreamWriter[string]()
		if err := w.Write(context.Background(), "before"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Complete(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !w.Completed() {
			t.Fatal("expected writer to be completed")
		}

		err := w.Write(context.Background(), "after")
		if !errors.Is(err, grpcfake.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got: %v", err)
		}
		if got := w.Len(); got != 1 {
			t.Errorf("mismatch:\n  got:  %d\n  want: 1", got)
		}
	})

	t.Run("complete twice fails", func(t *testing.T) {
		t.Parallel()

		w := grpcfake.NewStreamWriter[string]()
		if err := w.Complete(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := w.Complete(context.Background())
		if !errors.Is(err, grpcfake.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got: %v", err)
		}
		if !w.Completed() {
			t.Error("expected writer to stay completed")
		}
	})
}

func TestStreamWriter_MessagesIsACopy(t *testing.T) {
	t.Parallel()

	w := grpcfake.NewStreamWriter[string]()
	if err := w.Write(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := w.Messages()
	msgs[0] = "changed"

	if got := w.Messages()[0]; got != "m1" {
		t.Errorf("mismatch:\n  got:  %q\n  want: %q", got, "m1")
	}
}

func TestStreamWriter_WriteOptions(t *testing.T) {
	t.Parallel()

	w := grpcfake.NewStreamWriter[string]()
	w.WriteOptions = grpcfake.WriteOptions{Flags: grpcfake.BufferHint | grpcfake.NoCompress}

	if err := w.Write(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.WriteOptions.Flags; got != grpcfake.BufferHint|grpcfake.NoCompress {
		t.Errorf("mismatch:\n  got:  %v\n  want: %v", got, grpcfake.BufferHint|grpcfake.NoCompress)
	}
}
