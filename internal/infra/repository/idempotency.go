package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/usecase/readmodel"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryLock claims a key for the current request. A false return with no error
// means another request holds or completed the key; the caller follows up
// with Get to decide between replay and conflict.
func (r *IdempotencyRepository) TryLock(
	ctx context.Context,
	dbx db.DBTX,
	key, method, path string,
	ttl time.Duration,
	now time.Time,
) (bool, error) {
	tag, err := dbx.Exec(ctx, `
		INSERT INTO idempotency_keys (key, method, path, status, locked_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO NOTHING`,
		key, method, path, readmodel.IdempotencyProcessing,
		pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(now.Add(ttl)),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to lock idempotency key", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// The key exists. A processing claim whose lease has lapsed belongs to a
	// crashed or hung request and may be taken over.
	tag, err = dbx.Exec(ctx, `
		UPDATE idempotency_keys
		SET locked_at = $2, expires_at = $3
		WHERE key = $1 AND status = $4 AND expires_at <= $2`,
		key,
		pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(now.Add(ttl)),
		readmodel.IdempotencyProcessing,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reclaim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, dbx db.DBTX, key string) (*readmodel.IdempotencyRecord, error) {
	row := dbx.QueryRow(ctx, `
		SELECT key, method, path, status, locked_at, expires_at, response, status_code, result_booking_id
		FROM idempotency_keys
		WHERE key = $1`,
		key,
	)

	var (
		record              readmodel.IdempotencyRecord
		lockedAt, expiresAt pgtype.Timestamptz
		statusCode          pgtype.Int4
		bookingID           pgtype.UUID
	)
	err := row.Scan(
		&record.Key, &record.Method, &record.Path, &record.Status,
		&lockedAt, &expiresAt, &record.Response, &statusCode, &bookingID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}

	record.LockedAt = lockedAt.Time
	record.ExpiresAt = expiresAt.Time
	if statusCode.Valid {
		code := int(statusCode.Int32)
		record.StatusCode = &code
	}
	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(bookingID)
	return &record, nil
}

// Complete stores the final response against the key so duplicates replay it.
func (r *IdempotencyRepository) Complete(
	ctx context.Context,
	dbx db.DBTX,
	key string,
	statusCode int,
	response []byte,
	bookingID *uuid.UUID,
) error {
	var pgBookingID pgtype.UUID
	if bookingID != nil {
		pgBookingID = pgconv.UUIDToPgtype(*bookingID)
	}
	tag, err := dbx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = $2, status_code = $3, response = $4, result_booking_id = $5
		WHERE key = $1`,
		key, readmodel.IdempotencyCompleted, statusCode, response, pgBookingID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

// Release frees a processing claim after a failed request so the client can
// retry with the same key.
func (r *IdempotencyRepository) Release(ctx context.Context, dbx db.DBTX, key string) error {
	_, err := dbx.Exec(ctx,
		`DELETE FROM idempotency_keys WHERE key = $1 AND status = $2`,
		key, readmodel.IdempotencyProcessing,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}
