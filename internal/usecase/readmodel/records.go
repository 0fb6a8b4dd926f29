package readmodel

import (
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/occupancy"
)

// RoomTypeSnapshot is the locally-cached room catalog entry. Availability
// never lives here; only identity and occupancy limits, which change rarely.
type RoomTypeSnapshot struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CRSRoomID string
	Limits    occupancy.Limits
}

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

// IdempotencyRecord is one claimed request key. While status is processing
// the key belongs to an in-flight request; once completed the stored response
// is replayed to duplicates verbatim.
type IdempotencyRecord struct {
	Key             string
	Method          string
	Path            string
	Status          string
	LockedAt        time.Time
	ExpiresAt       time.Time
	Response        []byte
	StatusCode      *int
	ResultBookingID *uuid.UUID
}

// HistoryEntry is one human-readable line of a booking's status history.
type HistoryEntry struct {
	From      string
	To        string
	Note      string
	CreatedAt time.Time
}

// PaymentRecord mirrors the payment row attached to a booking.
type PaymentRecord struct {
	BookingID   uuid.UUID
	Method      string
	AmountCents int64
	Currency    string
	Reference   string
	Status      string
}

// InventoryHold describes a request to hold physical rooms of one room type
// for a session. TotalPriceCents is split evenly across the held rooms, with
// the remainder cents going to the first rooms.
type InventoryHold struct {
	SessionID       uuid.UUID
	RoomTypeID      uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	RoomCount       int
	TotalPriceCents int64
}
