package resilient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/poiesic/modelscout/core"
)

// Failure classifies an error returned by a backend call.
type Failure int

const (
	// FailureNone means the call succeeded.
	FailureNone Failure = iota
	// FailureColdStart means the backend is probably asleep and worth one retry.
	FailureColdStart
	// FailureOther is any failure a retry would not fix.
	FailureOther
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureColdStart:
		return "cold-start"
	default:
		return "other"
	}
}

// coldStatus are the gateway statuses a sleeping backend answers with.
var coldStatus = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// coldMessages are matched against errors that carry no structure, such as
// those produced by third-party clients.
var coldMessages = []string{
	"failed to fetch",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
}

// Classify decides whether err looks like a cold backend.
//
// Cold-start signatures are HTTP 502, 503 and 504, network failures that
// never produced a response, timeouts, and the matching messages. Missing
// configuration and caller cancellation are never cold starts.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, core.ErrConfiguration) || errors.Is(err, context.Canceled) {
		return FailureOther
	}

	var te *core.TransportError
	if errors.As(err, &te) {
		if te.StatusCode != 0 {
			if coldStatus[te.StatusCode] {
				return FailureColdStart
			}
			return FailureOther
		}
		return FailureColdStart
	}

	var ee *core.EmbeddingError
	if errors.As(err, &ee) {
		return FailureOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureColdStart
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureColdStart
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FailureColdStart
	}

	msg := strings.ToLower(err.Error())
	for _, m := range coldMessages {
		if strings.Contains(msg, m) {
			return FailureColdStart
		}
	}
	return FailureOther
}
