package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Create persists a new booking with its room items and add-ons. It must run
// inside the caller's transaction so a partial graph never becomes visible.
func (r *BookingRepository) Create(ctx context.Context, dbx db.DBTX, b *booking.Booking) error {
	_, err := dbx.Exec(ctx, `
		INSERT INTO bookings (
			id, booking_number, status, version,
			guest_first_name, guest_last_name, guest_email, guest_phone,
			check_in, check_out, adults, children,
			subtotal_cents, tax_cents, total_cents,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		pgconv.UUIDToPgtype(b.ID()),
		b.BookingNumber(),
		string(b.Status()),
		b.Version(),
		b.Guest().FirstName,
		b.Guest().LastName,
		b.Guest().Email,
		b.Guest().Phone,
		pgconv.TimeToPgtype(b.CheckIn()),
		pgconv.TimeToPgtype(b.CheckOut()),
		b.Adults(),
		b.Children(),
		b.SubtotalCents(),
		b.TaxCents(),
		b.TotalCents(),
		pgconv.TimeToPgtype(b.CreatedAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}

	for _, item := range b.Items() {
		_, err := dbx.Exec(ctx, `
			INSERT INTO booking_items (id, booking_id, room_type_id, rate_plan_id, quantity, nights, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			pgconv.UUIDToPgtype(item.ID),
			pgconv.UUIDToPgtype(b.ID()),
			pgconv.UUIDToPgtype(item.RoomTypeID),
			item.RatePlanID,
			item.Quantity,
			item.Nights,
			item.SubtotalCents,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create booking item", err)
		}
	}

	for _, addOn := range b.AddOns() {
		_, err := dbx.Exec(ctx, `
			INSERT INTO booking_add_ons (id, booking_id, code, name, quantity, price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			pgconv.UUIDToPgtype(addOn.ID),
			pgconv.UUIDToPgtype(b.ID()),
			addOn.Code,
			addOn.Name,
			addOn.Quantity,
			addOn.PriceCents,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create booking add-on", err)
		}
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbx, `WHERE b.id = $1`, pgconv.UUIDToPgtype(id))
}

func (r *BookingRepository) FindByNumber(ctx context.Context, dbx db.DBTX, number string) (*booking.Booking, error) {
	return r.findOne(ctx, dbx, `WHERE b.booking_number = $1`, number)
}

// FindByIDForUpdate loads a booking row-locked for the duration of the
// caller's transaction. Item and add-on rows are immutable after creation so
// they are loaded without a lock.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbx, `WHERE b.id = $1 FOR UPDATE OF b`, pgconv.UUIDToPgtype(id))
}

func (r *BookingRepository) findOne(ctx context.Context, dbx db.DBTX, where string, arg any) (*booking.Booking, error) {
	row := dbx.QueryRow(ctx, `
		SELECT b.id, b.booking_number, b.status, b.version,
		       b.guest_first_name, b.guest_last_name, b.guest_email, b.guest_phone,
		       b.check_in, b.check_out, b.adults, b.children,
		       b.subtotal_cents, b.tax_cents, b.total_cents,
		       b.confirmation_number, b.external_reservation_id, b.cancel_reason,
		       b.confirmed_at, b.cancelled_at, b.created_at, b.updated_at
		FROM bookings b `+where,
		arg,
	)

	var (
		id                       pgtype.UUID
		number, status           string
		version                  int32
		firstName, lastName      string
		email, phone             string
		checkIn, checkOut        pgtype.Date
		adults, children         int
		subtotal, tax, total     int64
		confNumber, externalID   pgtype.Text
		cancelReason             pgtype.Text
		confirmedAt, cancelledAt pgtype.Timestamptz
		createdAt, updatedAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &number, &status, &version,
		&firstName, &lastName, &email, &phone,
		&checkIn, &checkOut, &adults, &children,
		&subtotal, &tax, &total,
		&confNumber, &externalID, &cancelReason,
		&confirmedAt, &cancelledAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	bookingID := uuid.UUID(id.Bytes)
	items, err := r.loadItems(ctx, dbx, bookingID)
	if err != nil {
		return nil, err
	}
	addOns, err := r.loadAddOns(ctx, dbx, bookingID)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		bookingID,
		number,
		booking.Status(status),
		version,
		booking.Guest{FirstName: firstName, LastName: lastName, Email: email, Phone: phone},
		checkIn.Time, checkOut.Time,
		adults, children,
		subtotal, tax, total,
		items, addOns,
		pgconv.StringPtrFromPgtype(confNumber),
		pgconv.StringPtrFromPgtype(externalID),
		pgconv.StringPtrFromPgtype(cancelReason),
		pgconv.TimePtrFromPgtype(confirmedAt),
		pgconv.TimePtrFromPgtype(cancelledAt),
		createdAt.Time, updatedAt.Time,
	), nil
}

func (r *BookingRepository) loadItems(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) ([]booking.Item, error) {
	rows, err := dbx.Query(ctx, `
		SELECT id, room_type_id, rate_plan_id, quantity, nights, subtotal_cents
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY id`,
		pgconv.UUIDToPgtype(bookingID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (booking.Item, error) {
		var (
			id, roomTypeID pgtype.UUID
			item           booking.Item
		)
		err := row.Scan(&id, &roomTypeID, &item.RatePlanID, &item.Quantity, &item.Nights, &item.SubtotalCents)
		item.ID = uuid.UUID(id.Bytes)
		item.RoomTypeID = uuid.UUID(roomTypeID.Bytes)
		return item, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking items", err)
	}
	return items, nil
}

func (r *BookingRepository) loadAddOns(ctx context.Context, dbx db.DBTX, bookingID uuid.UUID) ([]booking.AddOn, error) {
	rows, err := dbx.Query(ctx, `
		SELECT id, code, name, quantity, price_cents
		FROM booking_add_ons
		WHERE booking_id = $1
		ORDER BY id`,
		pgconv.UUIDToPgtype(bookingID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking add-ons", err)
	}

	addOns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (booking.AddOn, error) {
		var (
			id    pgtype.UUID
			addOn booking.AddOn
		)
		err := row.Scan(&id, &addOn.Code, &addOn.Name, &addOn.Quantity, &addOn.PriceCents)
		addOn.ID = uuid.UUID(id.Bytes)
		return addOn, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking add-ons", err)
	}
	return addOns, nil
}

// UpdateStatus applies a guarded status change with an optimistic version
// check. Zero rows affected means another writer advanced the booking first;
// the caller reloads and re-evaluates rather than retrying blindly.
func (r *BookingRepository) UpdateStatus(
	ctx context.Context,
	dbx db.DBTX,
	id uuid.UUID,
	to booking.Status,
	expectedVersion int32,
	cancelReason *string,
	now time.Time,
) error {
	tag, err := dbx.Exec(ctx, `
		UPDATE bookings
		SET status = $3,
		    version = version + 1,
		    cancel_reason = COALESCE($4, cancel_reason),
		    confirmed_at = CASE WHEN $3 = 'confirmed' THEN $5 ELSE confirmed_at END,
		    cancelled_at = CASE WHEN $3 IN ('cancelled', 'expired') THEN $5 ELSE cancelled_at END,
		    updated_at = $5
		WHERE id = $1 AND version = $2`,
		pgconv.UUIDToPgtype(id),
		expectedVersion,
		string(to),
		pgconv.StringPtrToPgtype(cancelReason),
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking version conflict", nil, infra.KindVersionConflict)
	}
	return nil
}

// SetConfirmation records both identifiers returned by the CRS. They are
// written together; a booking with only one of the two is treated as
// unconfirmed everywhere else.
func (r *BookingRepository) SetConfirmation(
	ctx context.Context,
	dbx db.DBTX,
	id uuid.UUID,
	confirmationNumber, externalReservationID string,
	now time.Time,
) error {
	tag, err := dbx.Exec(ctx, `
		UPDATE bookings
		SET confirmation_number = $2, external_reservation_id = $3, updated_at = $4
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
		confirmationNumber,
		externalReservationID,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set booking confirmation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
