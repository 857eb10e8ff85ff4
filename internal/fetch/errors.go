package fetch

import "errors"

// Fetch error kinds.
// These sentinel errors classify outbound request failures so the
// orchestrator can map each kind to a specific user-facing message.
// Wrapped errors retain the underlying cause; match with errors.Is.
var (
	// ErrTimeout is returned when the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrConnectionFailed is returned when no connection could be
	// established to the host.
	ErrConnectionFailed = errors.New("could not establish connection")

	// ErrTLSFailed is returned on TLS handshake or certificate
	// verification failures. The orchestrator retries once over
	// plain HTTP when it sees this kind.
	ErrTLSFailed = errors.New("tls negotiation failed")

	// ErrInvalidURL is returned when the URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid url format")
)
