package helper

import (
	"fmt"
)

// GetTypedValueOf2 asserts the result of a comma-ok getter to T.
// ok is false when the getter misses or the value is not a T. A stored nil is
// a hit and yields the zero T.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); ok && raw != nil {
		res, ok = raw.(T)
	}
	return
}

var ErrMaxAttempts = fmt.Errorf("max attempts reached")

// Retry calls fn until it succeeds or maxAttempts calls have failed.
// The last error is wrapped together with ErrMaxAttempts.
func Retry(maxAttempts int, fn func() error) error {
	numAttempts := 0
	for {
		err := fn()
		if err == nil {
			return nil
		}
		numAttempts++
		if numAttempts >= maxAttempts {
			return fmt.Errorf("%w: %d, %w", ErrMaxAttempts, numAttempts, err)
		}
	}
}
