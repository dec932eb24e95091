package embedding

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Retryable reports whether an embedding call failure is transient.
// Timeouts, rate limits and 5xx responses are worth retrying; 4xx responses
// mean the request itself is wrong and will not improve.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "429"), strings.Contains(e, "rate limit"):
		return true
	case strings.Contains(e, "500"), strings.Contains(e, "502"),
		strings.Contains(e, "503"), strings.Contains(e, "504"),
		strings.Contains(e, "unavailable"), strings.Contains(e, "timeout"),
		strings.Contains(e, "connection refused"), strings.Contains(e, "connection reset"):
		return true
	default:
		return false
	}
}
