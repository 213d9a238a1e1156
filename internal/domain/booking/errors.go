package booking

import "errors"

// Errors returned by the booking engine. Handlers map these to HTTP statuses;
// callers use errors.Is to branch on them.
var (
	ErrNotFound           = errors.New("booking not found")
	ErrProviderNotFound   = errors.New("provider not found")
	ErrUnauthorized       = errors.New("actor may not modify this booking")
	ErrValidation         = errors.New("invalid booking input")
	ErrPastDate           = errors.New("date is in the past")
	ErrProviderUnapproved = errors.New("provider is not approved for booking")
	// ErrSlotUnavailable means the requested time is not in the provider's
	// schedule or is taken per the current read.
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrSlotConflict means a concurrent request won the commit-time race.
	// Callers recover by re-fetching slots and resubmitting.
	ErrSlotConflict      = errors.New("slot was booked concurrently")
	ErrInvalidTransition = errors.New("invalid booking state transition")
)
