package dispatcher

import (
	"errors"
	"fmt"

	"github.com/desertthunder/marquee/internal/shared"
)

var (
	ErrClosed            = errors.New("dispatcher closed")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// AuthorizationError is returned through a [Future] when the callee rejects the credential.
//
// It is never retried.
type AuthorizationError struct {
	Err error
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed: %v", e.Err)
}

func (e *AuthorizationError) Unwrap() error {
	return e.Err
}

// Is matches [shared.ErrUnauthorized] even when the callee's error does not wrap it.
func (e *AuthorizationError) Is(target error) bool {
	return target == shared.ErrUnauthorized
}

// classify maps an operation failure onto the loop's failure events.
func classify(err error) Event {
	switch {
	case errors.Is(err, shared.ErrRateLimited):
		return RateLimited
	case errors.Is(err, shared.ErrUnauthorized):
		return Unauthorized
	default:
		return OtherFailure
	}
}
