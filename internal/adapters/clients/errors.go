// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Infrastructure failures of the client layer. Callers translate these to
// domain errors.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests
	// to an unhealthy downstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all retry attempts have been
	// exhausted. The last attempt's error is wrapped.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
