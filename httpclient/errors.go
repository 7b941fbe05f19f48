package httpclient

import (
	"context"
	"errors"
	"net"
)

// The adapter never wraps transport failures; these helpers classify the
// errors net/http returns so callers can build their own retry policy.

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsCanceled reports whether err was caused by context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsConnection reports whether err is a dial, DNS or socket failure.
func IsConnection(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
