// Package flows implements the interactive submission flows: sign-in,
// sign-up, and content creation. Each flow validates its draft, calls
// the backend, and surfaces the outcome through a Notifier; server and
// network errors are converted to a single transient message and never
// re-thrown.
package flows

import "errors"

// State tracks a flow through a single submission.
type State string

const (
	// StateIdle means no submission is in flight.
	StateIdle State = "idle"
	// StateSubmitting means a submission has passed validation and the
	// remote call is in flight.
	StateSubmitting State = "submitting"
)

// Navigator moves the shell to a new view.
type Navigator interface {
	NavigateTo(path string)
}

// Notifier surfaces a transient user-facing message.
type Notifier interface {
	Notify(message string)
}

// User-facing messages, matching the backend's own phrasing for the
// fallback cases.
const (
	msgFillRequired   = "Please fill in all required fields"
	msgLoginOK        = "Successfully logged in"
	msgLoginFailed    = "Login failed. Please try again."
	msgRegisteredOK   = "Registered successfully. Proceed to login"
	msgRegisterFailed = "Registration failed. Please try again."
	msgNetworkError   = "Network error. Please check your connection."
)

// ErrNotAuthenticated is returned by content flows when no user is held
// in the session.
var ErrNotAuthenticated = errors.New("not authenticated")
