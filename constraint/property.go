package constraint

import (
	"errors"
	"fmt"
)

// ErrViolated is wrapped by violations reported by [Property].
var ErrViolated = errors.New("constraint violated")

// Selector projects the value under test onto the value a constraint applies
// to.
type Selector[T, V any] func(T) V

// With starts a constraint on the value selected from T. It panics if
// selector is nil.
//
//	c := constraint.With(func(r *pb.Reply) string { return r.Name }).
//		That(constraint.Equal("a"))
func With[T, V any](selector func(T) V) Selector[T, V] {
	if selector == nil {
		panic("constraint: selector is nil")
	}
	return selector
}

// That returns a constraint applying c to the selected value. It panics if c
// is nil.
func (s Selector[T, V]) That(c Constraint[V]) Constraint[T] {
	if c == nil {
		panic("constraint: constraint is nil")
	}

	return func(actual T) error {
		return c(s(actual))
	}
}

// Property is like With(selector).That(c) but prefixes violations with name.
func Property[T, V any](name string, selector func(T) V, c Constraint[V]) Constraint[T] {
	inner := With(selector).That(c)

	return func(actual T) error {
		if err := inner(actual); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrViolated, name, err)
		}
		return nil
	}
}
