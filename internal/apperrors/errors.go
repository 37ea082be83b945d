package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Wrapped errors name the offending field.
var ErrValidation = errors.New("validation error")

// ErrInvalidTransition indicates an attempt to move a donation out of a state
// that does not permit the requested transition (e.g. issuing a pending
// record, or deciding one twice).
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrRender indicates that poster rendering failed. Issuance aborts on this
// error and the record stays approved, so the operation is retryable.
var ErrRender = errors.New("poster rendering failed")

// ErrEmailDelivery indicates that the poster email could not be delivered.
// During issuance delivery failure is absorbed into EmailSent=false; on an
// explicit resend it surfaces as this error.
var ErrEmailDelivery = errors.New("poster email delivery failed")
