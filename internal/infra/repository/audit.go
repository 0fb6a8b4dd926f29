package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase/readmodel"
)

type AuditRepository struct{}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) RecordHistory(
	ctx context.Context,
	dbx db.DBTX,
	bookingID uuid.UUID,
	from, to booking.Status,
	note string,
	now time.Time,
) error {
	_, err := dbx.Exec(ctx, `
		INSERT INTO booking_history (booking_id, from_status, to_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		pgconv.UUIDToPgtype(bookingID),
		string(from), string(to), note,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record booking history", err)
	}
	return nil
}

// RecordTransition appends the structured audit entry. Rejected attempts are
// recorded with succeeded=false; the audit trail is the only place a rejected
// transition leaves a durable trace.
func (r *AuditRepository) RecordTransition(
	ctx context.Context,
	dbx db.DBTX,
	bookingID uuid.UUID,
	from, to booking.Status,
	reason, actor string,
	metadata map[string]any,
	succeeded bool,
	now time.Time,
) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return errs.Wrap(err, "failed to encode audit metadata")
	}

	_, err = dbx.Exec(ctx, `
		INSERT INTO booking_audit_logs (booking_id, previous_status, new_status, reason, actor, metadata, succeeded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgconv.UUIDToPgtype(bookingID),
		string(from), string(to), reason, actor, encoded, succeeded,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record audit entry", err)
	}
	return nil
}

func (r *AuditRepository) ListHistory(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) ([]readmodel.HistoryEntry, error) {
	rows, err := dbx.Query(ctx, `
		SELECT from_status, to_status, note, created_at
		FROM booking_history
		WHERE booking_id = $1
		ORDER BY id`,
		pgconv.UUIDToPgtype(bookingID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking history", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (readmodel.HistoryEntry, error) {
		var (
			entry     readmodel.HistoryEntry
			from, to  string
			createdAt pgtype.Timestamptz
		)
		err := row.Scan(&from, &to, &entry.Note, &createdAt)
		entry.From = from
		entry.To = to
		entry.CreatedAt = createdAt.Time
		return entry, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking history", err)
	}
	return entries, nil
}
