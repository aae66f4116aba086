package clickup

import "github.com/teemow/clickup-mcp/internal/logging"

// Result carries either a value or the reason the call failed, so callers can
// tell an empty answer apart from a failed request.
type Result[T any] struct {
	Value T
	Err   error
}

// Capture wraps a (value, error) pair.
func Capture[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// OrEmpty returns the value, or the zero value after logging the failure.
// It reproduces the legacy contract where every failed call looked like an
// empty result.
func (r Result[T]) OrEmpty(logger logging.Logger, operation string) T {
	if r.OK() {
		return r.Value
	}
	if logger != nil {
		logger.Error("clickup call failed", logging.Operation(operation), logging.Err(r.Err))
	}
	var zero T
	return zero
}
