package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/pkg/errs"
)

// ProcessingLockRepository serializes webhook processing per booking. The
// primary key on booking_id makes the insert the mutual-exclusion point; a
// crashed holder is cleared by the expiry purge on the next acquire.
type ProcessingLockRepository struct{}

func NewProcessingLockRepository() *ProcessingLockRepository {
	return &ProcessingLockRepository{}
}

func (r *ProcessingLockRepository) Acquire(
	ctx context.Context,
	dbx db.DBTX,
	bookingID uuid.UUID,
	owner string,
	ttl time.Duration,
	now time.Time,
) error {
	_, err := dbx.Exec(ctx,
		`DELETE FROM booking_processing_locks WHERE expires_at <= $1`,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to purge expired processing locks", err)
	}

	_, err = dbx.Exec(ctx, `
		INSERT INTO booking_processing_locks (booking_id, owner, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`,
		pgconv.UUIDToPgtype(bookingID),
		owner,
		pgconv.TimeToPgtype(now.Add(ttl)),
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to acquire processing lock", err)
		if infra.IsKind(wrapped, infra.KindDuplicateKey) {
			return errs.Mark(wrapped, errs.ErrProcessingLockHeld)
		}
		return wrapped
	}
	return nil
}

func (r *ProcessingLockRepository) Release(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) error {
	_, err := dbx.Exec(ctx,
		`DELETE FROM booking_processing_locks WHERE booking_id = $1`,
		pgconv.UUIDToPgtype(bookingID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release processing lock", err)
	}
	return nil
}
