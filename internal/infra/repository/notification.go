package repository

import (
	"context"
	"encoding/json"
	"time"

	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/pkg/errs"
)

// NotificationRepository enqueues outbound notification work as table rows.
// A separate worker drains the queue; failure to enqueue never fails the
// booking flow that triggered it.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, dbx db.DBTX, kind string, payload any, runAt time.Time) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}
	_, err = dbx.Exec(ctx, `
		INSERT INTO notification_jobs (kind, payload, run_at, created_at)
		VALUES ($1, $2, $3, $4)`,
		kind, encoded,
		pgconv.TimeToPgtype(runAt),
		pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}
