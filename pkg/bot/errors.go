package bot

import "errors"

var (
	ErrValidation   = errors.New("validation error") // bad action token or command, user told
	ErrUnauthorized = errors.New("unauthorized")     // non-admin asked for stats
	ErrDelivery     = errors.New("delivery fault")   // transport call failed, state kept
	ErrNoHandler    = errors.New("no handler for event")
	ErrPanic        = errors.New("handler panicked")
)

// reportable tells whether err is worth a Sentry event.
func reportable(err error) bool {
	return !errors.Is(err, ErrValidation) && !errors.Is(err, ErrUnauthorized)
}
