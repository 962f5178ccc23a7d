// File: services/errors.go
package services

import "errors"

// Error taxonomy shared by the class collaborator, the signup action and the views.
var (
	// ErrNotFound is returned when no class matches the requested id.
	ErrNotFound = errors.New("class not found")
	// ErrUnavailable is returned when the listing or detail fetch failed.
	ErrUnavailable = errors.New("class service unavailable")
	// ErrUnauthenticated is returned when a signup is attempted without a token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSignupFailed wraps a rejected or failed signup write.
	ErrSignupFailed = errors.New("signup failed")
)

// ErrInvalidCredentials is returned by an Authenticator for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrSignupClosed is wrapped in ErrSignupFailed when the cutoff has passed.
var ErrSignupClosed = errors.New("signup for this class has closed")
