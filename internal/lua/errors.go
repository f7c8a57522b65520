package lua

import "errors"

var (
	// ErrNilRuntime is returned when a nil runtime is passed to a function that requires one.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrFunctionNotFound is returned when a called global is undefined.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrNotFunction is returned when a hook name refers to a non-function value.
	ErrNotFunction = errors.New("value is not a function")

	// ErrResourceLimit is returned when a call exceeds its CPU or memory limit.
	ErrResourceLimit = errors.New("lua resource limit exceeded")
)
