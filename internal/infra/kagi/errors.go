package kagi

import "fmt"

// TransportKind classifies how a request to Kagi failed.
type TransportKind string

const (
	// KindUnauthorized covers 401/403: the session token or search cookie
	// was rejected.
	KindUnauthorized TransportKind = "unauthorized"
	// KindHTTPStatus covers any other non-2xx status.
	KindHTTPStatus TransportKind = "http_status"
	// KindNetworkFailure covers connection-level failures (DNS, refused,
	// timeout).
	KindNetworkFailure TransportKind = "network_failure"
)

// TransportError is a failed request at the HTTP layer. It is never retried
// here; the caller surfaces it.
type TransportError struct {
	Kind   TransportKind
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindUnauthorized:
		return fmt.Sprintf("kagi: unauthorized (status %d): session token or cookie rejected", e.Status)
	case KindHTTPStatus:
		return fmt.Sprintf("kagi: unexpected status %d", e.Status)
	default:
		return fmt.Sprintf("kagi: network failure: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
