package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUnknownRoomType    = errors.New("unknown room type")
	ErrSelectionNotFound  = errors.New("room type not in session cart")
	ErrMissingGuestDetail = errors.New("guest details are required")
	ErrWebhookConflict    = errors.New("booking is being confirmed by another worker")
	ErrBookingUnpayable   = errors.New("booking is not awaiting payment")
)

// AvailabilityShortfallError reports a commit-time availability miss with the
// count actually left, so the caller can offer the shopper a reduced quantity.
type AvailabilityShortfallError struct {
	RoomTypeID uuid.UUID
	Requested  int
	Remaining  int
}

func (e *AvailabilityShortfallError) Error() string {
	return fmt.Sprintf("room type %s: requested %d rooms, %d remaining", e.RoomTypeID, e.Requested, e.Remaining)
}
