package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/usecase/readmodel"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// CreatePending records the pending payment row alongside the new booking.
// The gateway outcome arrives later through the webhook.
func (r *PaymentRepository) CreatePending(
	ctx context.Context,
	dbx db.DBTX,
	bookingID uuid.UUID,
	method string,
	amountCents int64,
	currency string,
	now time.Time,
) error {
	_, err := dbx.Exec(ctx, `
		INSERT INTO payments (id, booking_id, method, amount_cents, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(bookingID),
		method,
		amountCents,
		currency,
		PaymentPending,
		pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByBooking(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) (readmodel.PaymentRecord, error) {
	record := readmodel.PaymentRecord{BookingID: bookingID}
	err := dbx.QueryRow(ctx, `
		SELECT method, amount_cents, currency, reference, status
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		pgconv.UUIDToPgtype(bookingID),
	).Scan(&record.Method, &record.AmountCents, &record.Currency, &record.Reference, &record.Status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return record, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return record, infra.WrapRepoErr("failed to find payment", err)
	}
	return record, nil
}

// Settle records the gateway outcome and reference on the booking's payment.
func (r *PaymentRepository) Settle(
	ctx context.Context,
	dbx db.DBTX,
	bookingID uuid.UUID,
	status, reference string,
	now time.Time,
) error {
	_, err := dbx.Exec(ctx, `
		UPDATE payments
		SET status = $2, reference = $3, updated_at = $4
		WHERE booking_id = $1`,
		pgconv.UUIDToPgtype(bookingID),
		status,
		reference,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to settle payment", err)
	}
	return nil
}
