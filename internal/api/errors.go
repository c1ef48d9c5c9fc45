package api

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/me/hrpulse/pkg/model"
)

// Transport-level failures are normalized into two sentinel classes.
// Server rejections (a response was received) become *model.APIError
// instead. The client performs no retries; callers own retry policy.
var (
	// ErrUnreachable means no response was received at all: connection
	// refused, DNS failure, or the server is simply not there.
	ErrUnreachable = errors.New("cannot reach server")

	// ErrTimeout means the request exceeded the configured deadline.
	ErrTimeout = errors.New("request timed out")
)

// classifyTransport turns an error from http.Client.Do into one of the
// sentinel classes, preserving the underlying cause in the chain.
func classifyTransport(err error, method, url string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s %s: %w: %w", method, url, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w: %w", method, url, ErrUnreachable, err)
}

// IsUnreachable reports whether err means the server never responded.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsTimeout reports whether err means the request deadline elapsed.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// AsServerError extracts the *model.APIError from err, if the failure was
// a server rejection rather than a transport problem.
func AsServerError(err error) (*model.APIError, bool) {
	var apiErr *model.APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
