package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/domain/session"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/usecase/readmodel"
)

// Repository ports. All write methods take the caller's transaction handle so
// the orchestrator decides the atomic unit, not the repository.

type SessionRepository interface {
	Create(ctx context.Context, dbx db.DBTX, s *session.Session) error
	FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*session.Session, error)
	Save(ctx context.Context, dbx db.DBTX, s *session.Session) error
	Delete(ctx context.Context, dbx db.DBTX, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, dbx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	FindByNumber(ctx context.Context, dbx db.DBTX, number string) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, dbx db.DBTX, id uuid.UUID, to booking.Status, expectedVersion int32, cancelReason *string, now time.Time) error
	SetConfirmation(ctx context.Context, dbx db.DBTX, id uuid.UUID, confirmationNumber, externalReservationID string, now time.Time) error
}

type RoomTypeRepository interface {
	FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (readmodel.RoomTypeSnapshot, error)
	FindAll(ctx context.Context, dbx db.DBTX) ([]readmodel.RoomTypeSnapshot, error)
}

type InventoryLockRepository interface {
	PurgeExpired(ctx context.Context, dbx db.DBTX, now time.Time) (int64, error)
	Hold(ctx context.Context, dbx db.DBTX, hold readmodel.InventoryHold, expiresAt, now time.Time) error
	CountHeldByOthers(ctx context.Context, dbx db.DBTX, roomTypeID, excludeSessionID uuid.UUID, checkIn, checkOut, now time.Time) (int, error)
	ReleaseForSession(ctx context.Context, dbx db.DBTX, sessionID uuid.UUID) error
}

type ProcessingLockRepository interface {
	Acquire(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID, owner string, ttl time.Duration, now time.Time) error
	Release(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) error
}

type IdempotencyRepository interface {
	TryLock(ctx context.Context, dbx db.DBTX, key, method, path string, ttl time.Duration, now time.Time) (bool, error)
	Get(ctx context.Context, dbx db.DBTX, key string) (*readmodel.IdempotencyRecord, error)
	Complete(ctx context.Context, dbx db.DBTX, key string, statusCode int, response []byte, bookingID *uuid.UUID) error
	Release(ctx context.Context, dbx db.DBTX, key string) error
}

type AuditRepository interface {
	RecordHistory(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID, from, to booking.Status, note string, now time.Time) error
	RecordTransition(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID, from, to booking.Status, reason, actor string, metadata map[string]any, succeeded bool, now time.Time) error
	ListHistory(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) ([]readmodel.HistoryEntry, error)
}

type PaymentRepository interface {
	CreatePending(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID, method string, amountCents int64, currency string, now time.Time) error
	FindByBooking(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) (readmodel.PaymentRecord, error)
	Settle(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID, status, reference string, now time.Time) error
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, dbx db.DBTX, kind string, payload any, runAt time.Time) error
}
