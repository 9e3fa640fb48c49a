package booking

import (
	"errors"
	"fmt"

	"andino/models"
)

var (
	// ErrSessionNotFound is returned when a wizard session id is unknown or
	// the session has expired.
	ErrSessionNotFound = errors.New("booking session not found or expired")

	// ErrAlreadySubmitting rejects a duplicate submit on the same session.
	ErrAlreadySubmitting = errors.New("booking is already being submitted")

	// ErrNoBasePrice signals a catalog entry without a base price. This is a
	// configuration problem upstream, not a pricing failure.
	ErrNoBasePrice = errors.New("service has no base price configured")

	// ErrLostAvailability is returned when availability disappeared between
	// the gate check and the commit.
	ErrLostAvailability = errors.New("availability was lost before the booking could be committed")

	// ErrAvailabilityUnknown is returned when the oracle could not answer.
	// Retryable, and never an admit; distinct from a lost-availability
	// conflict, which requires a fresh date pick.
	ErrAvailabilityUnknown = errors.New("availability could not be determined")

	// ErrMalformedReturn is returned when a gateway return callback carries
	// no usable correlation fields or an unrecognised status.
	ErrMalformedReturn = errors.New("gateway return could not be parsed")
)

// ValidationError reports a step field that failed validation. It is handled
// locally and never triggers a network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// AvailabilityBlock is returned when the gate refuses the selected dates. The
// reason and alternatives are passed through verbatim.
type AvailabilityBlock struct {
	Reason       string
	Alternatives []models.DateRange
}

func (e *AvailabilityBlock) Error() string {
	return fmt.Sprintf("dates not available: %s", e.Reason)
}

// TransientError wraps a retryable infrastructure failure.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s failed (retryable): %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable infrastructure failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// PaymentDeclined is a gateway-reported rejection. Terminal for the attempt,
// not for the booking, which may retry with another method.
type PaymentDeclined struct {
	Message string
	Hard    bool
}

func (e *PaymentDeclined) Error() string {
	if e.Message == "" {
		return "payment declined"
	}
	return fmt.Sprintf("payment declined: %s", e.Message)
}
