package authclient

import "fmt"

// The error taxonomy mirrors how the portals treat failures: AuthError
// means re-login, NetworkError means retry, ValidationError means fix the
// form, ChannelError covers the realtime subscription.  Callers
// discriminate with errors.As.

// AuthError reports invalid credentials or a rejected session (HTTP
// 401/403).  Never retried automatically.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth rejected (status %d)", e.Status)
	}
	return fmt.Sprintf("auth rejected (status %d): %s", e.Status, e.Message)
}

// NetworkError reports a connectivity failure, timeout or server-side
// (5xx) error.  The caller may retry.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports rejected input (HTTP 400/422).  Surfaced
// inline at the form, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Message }

// ChannelError reports a websocket subscription failure.  The stream
// retries it a bounded number of times before settling closed.
type ChannelError struct {
	RequestID string
	Err       error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("status channel %s: %v", e.RequestID, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
