package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/usecase/readmodel"
)

type RoomTypeRepository struct{}

func NewRoomTypeRepository() *RoomTypeRepository {
	return &RoomTypeRepository{}
}

const roomTypeColumns = `id, code, name, crs_room_id, min_occupancy, max_guests, max_adults, max_children`

func (r *RoomTypeRepository) FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (readmodel.RoomTypeSnapshot, error) {
	row := dbx.QueryRow(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snapshot, err := scanRoomType(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return readmodel.RoomTypeSnapshot{}, infra.WrapRepoErr("room type not found", err, infra.KindNotFound)
		}
		return readmodel.RoomTypeSnapshot{}, infra.WrapRepoErr("failed to find room type", err)
	}
	return snapshot, nil
}

func (r *RoomTypeRepository) FindAll(ctx context.Context, dbx db.DBTX) ([]readmodel.RoomTypeSnapshot, error) {
	rows, err := dbx.Query(ctx, `SELECT `+roomTypeColumns+` FROM room_types ORDER BY code`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room types", err)
	}
	snapshots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (readmodel.RoomTypeSnapshot, error) {
		return scanRoomType(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan room types", err)
	}
	return snapshots, nil
}

func scanRoomType(row pgx.Row) (readmodel.RoomTypeSnapshot, error) {
	var (
		id       pgtype.UUID
		snapshot readmodel.RoomTypeSnapshot
	)
	err := row.Scan(
		&id, &snapshot.Code, &snapshot.Name, &snapshot.CRSRoomID,
		&snapshot.Limits.MinOccupancy, &snapshot.Limits.MaxGuests,
		&snapshot.Limits.MaxAdults, &snapshot.Limits.MaxChildren,
	)
	snapshot.ID = uuid.UUID(id.Bytes)
	return snapshot, err
}
