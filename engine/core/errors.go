package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMediaCount is returned when a loader is handed a number
	// of source media items it does not support.
	ErrUnsupportedMediaCount = errors.New("unsupported media count")
	// ErrUnsupportedFormat is returned for pixel formats outside the
	// supported 3/4-channel 8-bit set.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrDimensionMismatch is returned when packed-channel source images
	// differ in width or height.
	ErrDimensionMismatch = errors.New("source image dimensions differ")
	// ErrEmptyAttributeSet is returned when no vertex attributes are enabled.
	ErrEmptyAttributeSet = errors.New("no vertex attributes enabled")
	// ErrSingularMatrix is returned when a bone offset matrix cannot be inverted.
	ErrSingularMatrix = errors.New("matrix is not invertible")
	// ErrUnknownHandle is returned when unreferencing a handle that is not tracked.
	ErrUnknownHandle = errors.New("handle is not tracked")
	// ErrInvalidArgument is returned for nil or out-of-range constructor arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// LoadError wraps a backend-level failure and carries the backend's
// diagnostic text (e.g. a shader compile log) to the asset-loading call site.
type LoadError struct {
	Kind string
	Key  string
	Diag string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Diag != "" {
		return fmt.Sprintf("failed to load %s '%s': %s", e.Kind, e.Key, e.Diag)
	}
	return fmt.Sprintf("failed to load %s '%s'", e.Kind, e.Key)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
