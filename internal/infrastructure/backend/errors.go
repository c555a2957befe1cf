package backend

import "fmt"

// NetworkError wraps transport-level failures: no connectivity, DNS, client
// timeout. The response never arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "backend unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is any non-2xx answer from the backend.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError marks a 2xx payload that violates the contract,
// such as a missing pagination block. The caller must not trust partial data.
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return "malformed backend response: missing " + e.Field
}

// AuthError is a rejected login.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "login failed: " + e.Reason }
