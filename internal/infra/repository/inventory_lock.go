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

type InventoryLockRepository struct{}

func NewInventoryLockRepository() *InventoryLockRepository {
	return &InventoryLockRepository{}
}

// PurgeExpired removes lapsed holds. Callers invoke it before counting or
// inserting; there is no background sweeper.
func (r *InventoryLockRepository) PurgeExpired(ctx context.Context, dbx db.DBTX, now time.Time) (int64, error) {
	tag, err := dbx.Exec(ctx,
		`DELETE FROM inventory_locks WHERE expires_at <= $1`,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to purge expired inventory locks", err)
	}
	return tag.RowsAffected(), nil
}

// Hold inserts one lock row per physical room.
func (r *InventoryLockRepository) Hold(ctx context.Context, dbx db.DBTX, hold readmodel.InventoryHold, expiresAt, now time.Time) error {
	if hold.RoomCount < 1 {
		return nil
	}
	perRoom := hold.TotalPriceCents / int64(hold.RoomCount)
	remainder := hold.TotalPriceCents % int64(hold.RoomCount)

	for i := 0; i < hold.RoomCount; i++ {
		price := perRoom
		if int64(i) < remainder {
			price++
		}
		_, err := dbx.Exec(ctx, `
			INSERT INTO inventory_locks (id, session_id, room_type_id, check_in, check_out, price_cents, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			pgconv.UUIDToPgtype(uuid.New()),
			pgconv.UUIDToPgtype(hold.SessionID),
			pgconv.UUIDToPgtype(hold.RoomTypeID),
			pgconv.TimeToPgtype(hold.CheckIn),
			pgconv.TimeToPgtype(hold.CheckOut),
			price,
			pgconv.TimeToPgtype(expiresAt),
			pgconv.TimeToPgtype(now),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert inventory lock", err)
		}
	}
	return nil
}

// CountHeldByOthers returns how many rooms of a room type are currently held
// by other sessions for an overlapping stay window.
func (r *InventoryLockRepository) CountHeldByOthers(
	ctx context.Context,
	dbx db.DBTX,
	roomTypeID, excludeSessionID uuid.UUID,
	checkIn, checkOut time.Time,
	now time.Time,
) (int, error) {
	var count int
	err := dbx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM inventory_locks
		WHERE room_type_id = $1
		  AND session_id <> $2
		  AND expires_at > $3
		  AND check_in < $5
		  AND check_out > $4`,
		pgconv.UUIDToPgtype(roomTypeID),
		pgconv.UUIDToPgtype(excludeSessionID),
		pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(checkIn),
		pgconv.TimeToPgtype(checkOut),
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count inventory locks", err)
	}
	return count, nil
}

// ReleaseForSession drops all holds owned by a session, used after the
// booking outcome is settled either way.
func (r *InventoryLockRepository) ReleaseForSession(ctx context.Context, dbx db.DBTX, sessionID uuid.UUID) error {
	_, err := dbx.Exec(ctx,
		`DELETE FROM inventory_locks WHERE session_id = $1`,
		pgconv.UUIDToPgtype(sessionID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release inventory locks", err)
	}
	return nil
}
