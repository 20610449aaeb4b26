// Package domain defines the sync feature's domain types: the remote
// registry error taxonomy, per-unit outcomes, and the sync report.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a remote registry failure for retry handling.
type ErrorKind string

const (
	// KindTransient covers timeouts, connection resets and 5xx responses.
	// Retryable with backoff.
	KindTransient ErrorKind = "transient"

	// KindRateLimited means the registry quota was exceeded. Retryable;
	// the RetryAfter hint takes precedence over the backoff schedule.
	KindRateLimited ErrorKind = "rate_limited"

	// KindAuth means the API key was rejected. Fatal for the whole batch:
	// retrying cannot help.
	KindAuth ErrorKind = "auth"

	// KindNotFound means the registry has no data for the request.
	// The unit is skipped, the batch continues.
	KindNotFound ErrorKind = "not_found"

	// KindMalformed means the response failed boundary validation.
	// The unit is skipped, the batch continues.
	KindMalformed ErrorKind = "malformed"
)

// RegistryError is a classified failure from the disclosure registry.
type RegistryError struct {
	Kind       ErrorKind
	Message    string
	RetryAfter time.Duration // rate-limit hint; zero when not supplied
	Err        error
}

func (e *RegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("registry %s: %s", e.Kind, e.Message)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// Retryable reports whether the failure may succeed on a later attempt.
func (e *RegistryError) Retryable() bool {
	return e.Kind == KindTransient || e.Kind == KindRateLimited
}

// ClassifyError extracts the ErrorKind from err. Errors that are not a
// RegistryError (including context cancellation surfaced by the HTTP
// client) count as transient.
func ClassifyError(err error) ErrorKind {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindTransient
}

var (
	// ErrSyncInProgress is returned when a sync run is started while
	// another run holds the active slot. Runs are rejected, not queued.
	ErrSyncInProgress = errors.New("sync already running")

	// ErrSyncCancelled is recorded when a run stops at a cancellation
	// checkpoint before finishing its unit queue.
	ErrSyncCancelled = errors.New("sync cancelled")
)
