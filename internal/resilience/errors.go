package resilience

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ProviderError marks an upstream API failure that is worth another
// attempt, carrying the HTTP status when one was received.
type ProviderError struct {
	Status int
	cause  error
}

func (e *ProviderError) Error() string { return e.cause.Error() }

func (e *ProviderError) Unwrap() error { return e.cause }

// MarkRetryable tags err as retryable. Pass status 0 when the failure
// happened below the HTTP layer.
func MarkRetryable(err error, status int) error {
	return &ProviderError{Status: status, cause: err}
}

// retryablePatterns catches connection-level failures that HTTP clients
// surface only as wrapped message strings.
var retryablePatterns = []string{
	"connection reset by peer",
	"broken pipe",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
}

// IsRetryable reports whether err deserves another attempt: a tagged
// ProviderError anywhere in the chain, a network timeout, a refused or
// reset connection, or one of the known connection-failure messages.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RetryableStatus reports whether an HTTP status from a provider warrants
// a retry. 429 dominates in practice: serper.dev meters by the second.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
