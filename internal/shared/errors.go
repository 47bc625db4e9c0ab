package shared

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNoQueries          = fmt.Errorf("no search queries found")

	// Upstream errors
	ErrTransport         = fmt.Errorf("transport failure")
	ErrTimeout           = fmt.Errorf("operation timed out")
	ErrUpstreamRejected  = fmt.Errorf("upstream rejected request")
	ErrMalformedResponse = fmt.Errorf("malformed response")
	ErrNoMatch           = fmt.Errorf("no match")
	ErrNoContent         = fmt.Errorf("no content found")
	ErrUnexpected        = fmt.Errorf("unexpected error")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// TransportError wraps a low-level request failure as [ErrTransport], adding [ErrTimeout] when the cause was a deadline.
func TransportError(op string, err error) error {
	if IsTimeout(err) {
		return fmt.Errorf("%w: %w: %s: %v", ErrTransport, ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

// IsTimeout reports whether err came from a deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// FailureKind maps an error onto a short label used in logs and run summaries.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUpstreamRejected):
		return "rejected"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrNoContent):
		return "no_match"
	case errors.Is(err, ErrUnexpected):
		return "unexpected"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
