package booking

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusInitiated        Status = "initiated"
	StatusPendingPayment   Status = "pending_payment"
	StatusPaymentSuccess   Status = "payment_success"
	StatusBookingRequested Status = "booking_requested"
	StatusConfirmed        Status = "confirmed"
	StatusFailed           Status = "failed"
	StatusRefunded         Status = "refunded"
	StatusExpired          Status = "expired"
	StatusCancelled        Status = "cancelled"
	StatusCompleted        Status = "completed"

	// statusLegacyPending is an alias still present in old rows; it feeds the
	// same transitions as initiated.
	statusLegacyPending Status = "pending"
)

var ErrUnknownStatus = errors.New("unknown booking status")

// transitions is the authoritative edge table. refunded, expired and
// completed are terminal.
var transitions = map[Status][]Status{
	StatusInitiated:        {StatusPendingPayment, StatusFailed, StatusExpired},
	StatusPendingPayment:   {StatusPaymentSuccess, StatusFailed, StatusExpired, StatusCancelled},
	StatusPaymentSuccess:   {StatusBookingRequested, StatusFailed, StatusRefunded},
	StatusBookingRequested: {StatusConfirmed, StatusFailed, StatusRefunded},
	StatusConfirmed:        {StatusCompleted, StatusCancelled, StatusRefunded},
	StatusFailed:           {StatusRefunded},
	StatusCancelled:        {StatusRefunded},
	StatusRefunded:         {},
	StatusExpired:          {},
	StatusCompleted:        {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s).Normalize()
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

// Normalize folds the legacy alias into its modern equivalent.
func (s Status) Normalize() Status {
	if s == statusLegacyPending {
		return StatusInitiated
	}
	return s
}

func (s Status) IsTerminal() bool {
	return len(transitions[s.Normalize()]) == 0
}

// CanTransition reports whether from → to is an allowed edge. A same-state
// transition is always allowed so webhook replays stay idempotent.
func CanTransition(from, to Status) bool {
	from = from.Normalize()
	to = to.Normalize()
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError names both states; it always indicates an ordering
// bug in the caller, never user input.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking state transition: %s -> %s", e.From, e.To)
}
