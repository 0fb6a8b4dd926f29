package errs

import "errors"

// Sentinel errors shared across the booking usecase layers
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrEmptyCart       = errors.New("session has no room selections")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// Availability errors
	ErrNoAvailability = errors.New("insufficient availability")

	// Occupancy errors
	ErrInvalidOccupancy = errors.New("invalid guest occupancy")

	// Idempotency errors
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Lock errors
	ErrProcessingLockHeld = errors.New("booking is already being processed")
	ErrInventoryLocked    = errors.New("inventory temporarily held by another session")

	// Provider errors
	ErrProviderTransient = errors.New("provider transient failure")
	ErrProviderFatal     = errors.New("provider rejected request")
	ErrCircuitOpen       = errors.New("circuit breaker open")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
