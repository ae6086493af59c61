package grpcfake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by the value a constructor or builder
	// method panics with when a required argument is nil.
	ErrInvalidArgument = errors.New("grpcfake: invalid argument")

	// ErrInvalidState is returned when a stream double is used after it has
	// been completed.
	ErrInvalidState = errors.New("grpcfake: invalid state")
)

// ArgumentError describes a nil argument passed to a constructor or builder
// method.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v: %s must not be nil", ErrInvalidArgument, e.Name)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// mustNotBeNil panics with an *ArgumentError when isNil is true.
func mustNotBeNil(isNil bool, name string) {
	if isNil {
		panic(&ArgumentError{Name: name})
	}
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidState}, args...)...)
}
