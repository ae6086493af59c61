// Package match builds testify argument matchers from constraints.
//
// The matchers are meant for the expectations of a [mock.Mock], typically the
// fake client a test hands to the code under test:
//
//	client.On("UnaryCall", mock.Anything, match.ThatValue(
//		(*testpb.SimpleRequest).GetPayload,
//		constraint.Equal(want),
//	)).Return(call, nil)
package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/tomasbasham/grpcfake"
	"github.com/tomasbasham/grpcfake/constraint"
)

// That matches arguments satisfying c.
func That[T any](c constraint.Constraint[T]) any {
	mustNotBeNil(c == nil, "constraint")

	return mock.MatchedBy(func(arg T) bool {
		return c(arg) == nil
	})
}

// ThatValue matches arguments whose selected value satisfies c.
func ThatValue[T, V any](selector func(T) V, c constraint.Constraint[V]) any {
	mustNotBeNil(selector == nil, "selector")
	return That(constraint.With(selector).That(c))
}

// ThatAwaited matches arguments whose selected future has resolved to a value
// satisfying c. The matcher never waits: an argument whose future is nil,
// still pending or failed does not match.
func ThatAwaited[T, V any](selector func(T) *grpcfake.Future[V], c constraint.Constraint[V]) any {
	mustNotBeNil(selector == nil, "selector")
	mustNotBeNil(c == nil, "constraint")

	return mock.MatchedBy(func(arg T) bool {
		f := selector(arg)
		if f == nil || !f.IsReady() {
			return false
		}
		v, err := f.Await(context.Background())
		return err == nil && c(v) == nil
	})
}

// Assert matches every argument but reports those violating c as test errors,
// so the failure names the violation instead of an unmatched call.
func Assert[T any](t testing.TB, c constraint.Constraint[T]) any {
	mustNotBeNil(t == nil, "t")
	mustNotBeNil(c == nil, "constraint")

	return mock.MatchedBy(func(arg T) bool {
		t.Helper()
		constraint.Check(t, arg, c)
		return true
	})
}

// AssertValue is like [Assert] on the selected value of each argument.
func AssertValue[T, V any](t testing.TB, selector func(T) V, c constraint.Constraint[V]) any {
	mustNotBeNil(selector == nil, "selector")
	return Assert(t, constraint.With(selector).That(c))
}

func mustNotBeNil(isNil bool, name string) {
	if isNil {
		panic(&grpcfake.ArgumentError{Name: name})
	}
}
