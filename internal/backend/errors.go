package backend

import "fmt"

// AuthError reports a failed login against the backend's auth endpoint, or a
// job call the backend rejected as unauthorized after one re-login attempt.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("backend authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// DispatchError reports a transport-level failure of a job invocation:
// connection failures, timeouts, or a non-2xx HTTP status from the backend.
type DispatchError struct {
	Job        string
	StatusCode int
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("job %s: backend returned status %d", e.Job, e.StatusCode)
	}
	return fmt.Sprintf("job %s: %v", e.Job, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// MalformedResponseError reports a backend body that could not be interpreted
// as either of the supported envelope shapes.
type MalformedResponseError struct {
	Job string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("job %s: malformed backend response: %v", e.Job, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
