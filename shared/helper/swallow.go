package helper

import (
	"fmt"

	"go.uber.org/zap"
)

// SwallowWrap wraps fn so that a failure never escapes as an error or a panic.
// Failures are logged with the offending input. When returnErr is true the
// wrapped function hands the failure back as its error, with panics converted
// to errors; otherwise it returns the zero value and a nil error.
func SwallowWrap[I, O any](
	logger *zap.Logger,
	fn func(I) (O, error),
	returnErr bool,
) func(I) (O, error) {
	return func(in I) (out O, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err == nil {
				return
			}
			if logger != nil {
				logger.Error("failed func", zap.Any("input", in), zap.Error(err))
			}
			var zero O
			out = zero
			if !returnErr {
				err = nil
			}
		}()
		return fn(in)
	}
}

// Swallow runs fn and logs, instead of propagating, any error or panic.
// It reports whether fn completed cleanly.
func Swallow(logger *zap.Logger, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("recovered panic", zap.Any("panic", r))
			}
			ok = false
		}
	}()
	if err := fn(); err != nil {
		if logger != nil {
			logger.Error("swallowed error", zap.Error(err))
		}
		return false
	}
	return true
}
