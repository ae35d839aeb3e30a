package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrForbidden           = errors.New("access forbidden")

	// ErrSessionInvalidated is returned when the access token was rejected and
	// the refresh attempt also failed. All stored credentials have been purged
	// by the time callers see it; recovery requires a full re-login.
	ErrSessionInvalidated = errors.New("session invalidated")
)

// APIError is a non-401 remote failure: the server answered, but with a
// failure status or a non-success envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
