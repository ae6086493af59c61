// Package constraint composes reusable assertions on values.
//
// A [Constraint] returns nil when a value satisfies it and an error describing
// the violation otherwise, so constraints compose with ordinary functions and
// can be turned into test failures with [Check] or [Require] or into testify
// argument matchers with package match.
package constraint

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/multierr"
	"google.golang.org/protobuf/testing/protocmp"
)

// Constraint checks a value of type T.
type Constraint[T any] func(actual T) error

// All returns a constraint satisfied when every one of cs is satisfied. Every
// constraint is evaluated, left to right, and all violations are reported in
// that order. All with no constraints is always satisfied. It panics if any
// constraint is nil.
func All[T any](cs ...Constraint[T]) Constraint[T] {
	for i, c := range cs {
		if c == nil {
			panic(fmt.Sprintf("constraint: constraint %d is nil", i))
		}
	}

	return func(actual T) error {
		var err error
		for _, c := range cs {
			err = multierr.Append(err, c(actual))
		}
		return err
	}
}

// equalOpts compare protocol buffer messages by content, errors with
// [errors.Is] and structs including their unexported fields.
var equalOpts = []cmp.Option{
	protocmp.Transform(),
	cmpopts.EquateErrors(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal returns a constraint satisfied by values equal to want. Protocol
// buffer messages are compared by content and errors match when either wraps
// the other.
func Equal[T any](want T) Constraint[T] {
	return func(actual T) error {
		if diff := cmp.Diff(want, actual, equalOpts...); diff != "" {
			return fmt.Errorf("mismatch (-want +got):\n%s", diff)
		}
		return nil
	}
}

// Satisfies returns a constraint satisfied when pred returns true. desc names
// the expectation in the violation message.
func Satisfies[T any](desc string, pred func(T) bool) Constraint[T] {
	if pred == nil {
		panic("constraint: predicate is nil")
	}

	return func(actual T) error {
		if !pred(actual) {
			return fmt.Errorf("%v does not satisfy %s", actual, desc)
		}
		return nil
	}
}

// Not returns a constraint satisfied when c is violated.
func Not[T any](c Constraint[T]) Constraint[T] {
	if c == nil {
		panic("constraint: constraint is nil")
	}

	return func(actual T) error {
		if c(actual) == nil {
			return fmt.Errorf("%v unexpectedly satisfies the constraint", actual)
		}
		return nil
	}
}

// Errors returns the individual violations reported by a constraint built
// with [All].
func Errors(err error) []error {
	return multierr.Errors(err)
}

// Check reports a violation of c by actual as a test error and returns whether
// c was satisfied.
func Check[T any](t testing.TB, actual T, c Constraint[T]) bool {
	t.Helper()

	if err := c(actual); err != nil {
		t.Errorf("constraint violated: %v", err)
		return false
	}
	return true
}

// Require is like [Check] but stops the test on a violation.
func Require[T any](t testing.TB, actual T, c Constraint[T]) {
	t.Helper()

	if err := c(actual); err != nil {
		t.Fatalf("constraint violated: %v", err)
	}
}
