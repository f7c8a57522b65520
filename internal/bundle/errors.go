package bundle

import "errors"

var (
	// ErrInvalidBundle wraps every decoding and validation failure.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrUnknownShape is returned when an animation key or clip names a
	// shape the artboard does not define.
	ErrUnknownShape = errors.New("unknown shape")

	// ErrUnknownState is returned by a script's play call for a state the
	// machine does not define.
	ErrUnknownState = errors.New("unknown state")
)
