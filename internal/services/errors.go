package services

import "errors"

// Error taxonomy shared by every operation. Handlers map these onto
// HTTP statuses; anything else is a persistence failure and surfaces
// as a generic 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
)

// ValidationError reports the first missing or malformed field. The
// chain stops at the first failure so callers always see one
// field-specific message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError means the client picked an identifier that is already
// taken (duplicate slug or category name).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// GatewayError carries the payment gateway's failure verbatim. Never
// retried by this service.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }
