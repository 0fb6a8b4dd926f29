package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"crs-booking-engine/internal/domain/session"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/infra/pgconv"
	"crs-booking-engine/internal/pkg/errs"
)

type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Create(ctx context.Context, dbx db.DBTX, s *session.Session) error {
	selections, guestDraft, addOns, err := marshalSessionState(s)
	if err != nil {
		return errs.Wrap(err, "failed to encode session state")
	}

	_, err = dbx.Exec(ctx, `
		INSERT INTO sessions (
			id, check_in, check_out, adults, children,
			selections, guest_draft, add_ons,
			expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pgconv.UUIDToPgtype(s.ID()),
		pgconv.TimeToPgtype(s.CheckIn()),
		pgconv.TimeToPgtype(s.CheckOut()),
		s.Adults(),
		s.Children(),
		selections,
		guestDraft,
		addOns,
		pgconv.TimeToPgtype(s.ExpiresAt()),
		pgconv.TimeToPgtype(s.CreatedAt()),
		pgconv.TimeToPgtype(s.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create session", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*session.Session, error) {
	row := dbx.QueryRow(ctx, `
		SELECT id, check_in, check_out, adults, children,
		       selections, guest_draft, add_ons,
		       expires_at, created_at, updated_at
		FROM sessions
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)

	var (
		sessionID                         pgtype.UUID
		checkIn, checkOut                 pgtype.Date
		adults, children                  int
		selectionsRaw, draftRaw, addOnRaw []byte
		expiresAt, createdAt, updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&sessionID, &checkIn, &checkOut, &adults, &children,
		&selectionsRaw, &draftRaw, &addOnRaw,
		&expiresAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session", err)
	}

	var selections []session.RoomSelection
	if err := json.Unmarshal(selectionsRaw, &selections); err != nil {
		return nil, errs.Wrap(err, "failed to decode session state")
	}
	var guestDraft *session.GuestDraft
	if len(draftRaw) > 0 {
		guestDraft = &session.GuestDraft{}
		if err := json.Unmarshal(draftRaw, guestDraft); err != nil {
			return nil, errs.Wrap(err, "failed to decode session state")
		}
	}
	var addOns []session.AddOn
	if err := json.Unmarshal(addOnRaw, &addOns); err != nil {
		return nil, errs.Wrap(err, "failed to decode session state")
	}

	return session.ReconstructSession(
		uuid.UUID(sessionID.Bytes),
		checkIn.Time, checkOut.Time,
		adults, children,
		selections, guestDraft, addOns,
		expiresAt.Time, createdAt.Time, updatedAt.Time,
	), nil
}

// Save persists the mutable portion of a session: the cart, the guest draft
// and the sliding expiry.
func (r *SessionRepository) Save(ctx context.Context, dbx db.DBTX, s *session.Session) error {
	selections, guestDraft, addOns, err := marshalSessionState(s)
	if err != nil {
		return errs.Wrap(err, "failed to encode session state")
	}

	tag, err := dbx.Exec(ctx, `
		UPDATE sessions
		SET selections = $2, guest_draft = $3, add_ons = $4,
		    expires_at = $5, updated_at = $6
		WHERE id = $1`,
		pgconv.UUIDToPgtype(s.ID()),
		selections,
		guestDraft,
		addOns,
		pgconv.TimeToPgtype(s.ExpiresAt()),
		pgconv.TimeToPgtype(s.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, dbx db.DBTX, id uuid.UUID) error {
	_, err := dbx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, pgconv.UUIDToPgtype(id))
	if err != nil {
		return infra.WrapRepoErr("failed to delete session", err)
	}
	return nil
}

func marshalSessionState(s *session.Session) (selections, guestDraft, addOns []byte, err error) {
	selections, err = json.Marshal(s.Selections())
	if err != nil {
		return nil, nil, nil, err
	}
	if s.GuestDraft() != nil {
		guestDraft, err = json.Marshal(s.GuestDraft())
		if err != nil {
			return nil, nil, nil, err
		}
	}
	addOns, err = json.Marshal(s.AddOns())
	if err != nil {
		return nil, nil, nil, err
	}
	return selections, guestDraft, addOns, nil
}
