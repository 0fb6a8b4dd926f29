package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/occupancy"
	"crs-booking-engine/internal/domain/session"
	reqdto "crs-booking-engine/internal/handler/dto/request"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase/readmodel"
)

type SessionUseCase interface {
	CreateSession(ctx context.Context, req reqdto.CreateSessionRequest) (*readmodel.SessionView, error)
	GetSession(ctx context.Context, id uuid.UUID) (*readmodel.SessionView, error)
	SelectRoom(ctx context.Context, sessionID uuid.UUID, req reqdto.SelectRoomRequest) (*readmodel.SessionView, error)
	ChangeQuantity(ctx context.Context, sessionID uuid.UUID, req reqdto.ChangeQuantityRequest) (*readmodel.SessionView, error)
	RemoveSelection(ctx context.Context, sessionID, roomTypeID uuid.UUID) (*readmodel.SessionView, error)
	SetGuestDetails(ctx context.Context, sessionID uuid.UUID, req reqdto.GuestDetailsRequest) (*readmodel.SessionView, error)
	SetAddOns(ctx context.Context, sessionID uuid.UUID, req reqdto.SetAddOnsRequest) (*readmodel.SessionView, error)
}

type sessionUseCaseImpl struct {
	sessions  SessionRepository
	roomTypes RoomTypeRepository
	inventory InventoryLockRepository
	provider  crs.Provider
	pool      db.Pool
	clock     clock.Clock
	locks     config.LockConfig
}

func NewSessionUseCase(
	sessions SessionRepository,
	roomTypes RoomTypeRepository,
	inventory InventoryLockRepository,
	provider crs.Provider,
	pool db.Pool,
	clk clock.Clock,
	locks config.LockConfig,
) SessionUseCase {
	return &sessionUseCaseImpl{
		sessions:  sessions,
		roomTypes: roomTypes,
		inventory: inventory,
		provider:  provider,
		pool:      pool,
		clock:     clk,
		locks:     locks,
	}
}

func (u *sessionUseCaseImpl) CreateSession(ctx context.Context, req reqdto.CreateSessionRequest) (*readmodel.SessionView, error) {
	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return nil, errs.Wrap(err, "invalid stay dates")
	}

	s, err := session.NewSession(checkIn, checkOut, req.Adults, req.Children, u.locks.SessionTTL, u.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Create(ctx, u.pool, s); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return readmodel.NewSessionView(s), nil
}

func (u *sessionUseCaseImpl) GetSession(ctx context.Context, id uuid.UUID) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reads slide the expiry window too.
	s.Touch(u.locks.SessionTTL, u.clock.Now())
	if err := u.sessions.Save(ctx, u.pool, s); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return readmodel.NewSessionView(s), nil
}

func (u *sessionUseCaseImpl) SelectRoom(ctx context.Context, sessionID uuid.UUID, req reqdto.SelectRoomRequest) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	roomType, err := u.findRoomType(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if err := u.validateSelectionOccupancy(s, roomType, req.Quantity); err != nil {
		return nil, err
	}

	room, err := u.verifyAvailability(ctx, s, roomType, req.Quantity)
	if err != nil {
		return nil, err
	}

	quote, err := u.captureQuote(ctx, s, roomType, req.RatePlanID, req.Quantity, room)
	if err != nil {
		return nil, err
	}

	if err := s.SelectRoom(req.RoomTypeID, req.RatePlanID, req.Quantity, quote); err != nil {
		return nil, err
	}
	return u.saveAndView(ctx, s)
}

func (u *sessionUseCaseImpl) ChangeQuantity(ctx context.Context, sessionID uuid.UUID, req reqdto.ChangeQuantityRequest) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Selection(req.RoomTypeID); !ok {
		return nil, ErrSelectionNotFound
	}

	roomType, err := u.findRoomType(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if err := u.validateSelectionOccupancy(s, roomType, req.Quantity); err != nil {
		return nil, err
	}
	if _, err := u.verifyAvailability(ctx, s, roomType, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.ChangeQuantity(req.RoomTypeID, req.Quantity, u.clock.Now()); err != nil {
		return nil, err
	}
	return u.saveAndView(ctx, s)
}

func (u *sessionUseCaseImpl) RemoveSelection(ctx context.Context, sessionID, roomTypeID uuid.UUID) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveSelection(roomTypeID); err != nil {
		return nil, ErrSelectionNotFound
	}
	return u.saveAndView(ctx, s)
}

func (u *sessionUseCaseImpl) SetGuestDetails(ctx context.Context, sessionID uuid.UUID, req reqdto.GuestDetailsRequest) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.SetGuestDraft(req.ToDraft())
	return u.saveAndView(ctx, s)
}

func (u *sessionUseCaseImpl) SetAddOns(ctx context.Context, sessionID uuid.UUID, req reqdto.SetAddOnsRequest) (*readmodel.SessionView, error) {
	s, err := u.loadActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.SetAddOns(req.ToDomain())
	return u.saveAndView(ctx, s)
}

func (u *sessionUseCaseImpl) loadActiveSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	s, err := u.sessions.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if s.IsExpired(u.clock.Now()) {
		// Expiry is enforced on access; the row itself is just garbage now,
		// and any inventory holds it placed go with it.
		if releaseErr := u.inventory.ReleaseForSession(ctx, u.pool, id); releaseErr != nil {
			slog.Warn("failed to release holds for expired session", "session_id", id, "error", releaseErr)
		}
		_ = u.sessions.Delete(ctx, u.pool, id)
		return nil, errs.ErrSessionExpired
	}
	return s, nil
}

func (u *sessionUseCaseImpl) findRoomType(ctx context.Context, id uuid.UUID) (readmodel.RoomTypeSnapshot, error) {
	roomType, err := u.roomTypes.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return readmodel.RoomTypeSnapshot{}, ErrUnknownRoomType
		}
		return readmodel.RoomTypeSnapshot{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return roomType, nil
}

// validateSelectionOccupancy checks the whole party against this line's room
// count in isolation; the combined cross-line check runs again at finalize.
func (u *sessionUseCaseImpl) validateSelectionOccupancy(s *session.Session, roomType readmodel.RoomTypeSnapshot, quantity int) error {
	party := occupancy.Party{Adults: s.Adults(), Children: s.Children()}
	if err := occupancy.Validate(roomType.Limits, quantity, party); err != nil {
		return errs.Mark(err, errs.ErrInvalidOccupancy)
	}
	return nil
}

// verifyAvailability asks the CRS for live availability and subtracts rooms
// held by other sessions locally; the remainder must cover the request.
func (u *sessionUseCaseImpl) verifyAvailability(
	ctx context.Context,
	s *session.Session,
	roomType readmodel.RoomTypeSnapshot,
	quantity int,
) (crs.RoomAvailability, error) {
	resp, err := u.provider.CheckAvailability(ctx, crs.AvailabilityRequest{
		CheckIn:  s.CheckIn(),
		CheckOut: s.CheckOut(),
		Adults:   s.Adults(),
		Children: s.Children(),
	})
	if err != nil {
		return crs.RoomAvailability{}, err
	}
	room, ok := resp.RoomFor(roomType.CRSRoomID)
	if !ok {
		return crs.RoomAvailability{}, errs.Mark(
			&AvailabilityShortfallError{RoomTypeID: roomType.ID, Requested: quantity, Remaining: 0},
			errs.ErrNoAvailability,
		)
	}

	held, err := u.inventory.CountHeldByOthers(ctx, u.pool, roomType.ID, s.ID(), s.CheckIn(), s.CheckOut(), u.clock.Now())
	if err != nil {
		return crs.RoomAvailability{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	remaining := room.AvailableCount - held
	if remaining < quantity {
		if remaining < 0 {
			remaining = 0
		}
		return crs.RoomAvailability{}, errs.Mark(
			&AvailabilityShortfallError{RoomTypeID: roomType.ID, Requested: quantity, Remaining: remaining},
			errs.ErrNoAvailability,
		)
	}
	return room, nil
}

// captureQuote snapshots the price at selection time via the CRS pricing
// call, falling back to the availability line price when pricing declines.
func (u *sessionUseCaseImpl) captureQuote(
	ctx context.Context,
	s *session.Session,
	roomType readmodel.RoomTypeSnapshot,
	ratePlanID string,
	quantity int,
	room crs.RoomAvailability,
) (session.PriceQuote, error) {
	pricing, err := u.provider.GetPricing(ctx, crs.PricingRequest{
		RoomID:     roomType.CRSRoomID,
		RatePlanID: ratePlanID,
		CheckIn:    s.CheckIn(),
		CheckOut:   s.CheckOut(),
		Adults:     s.Adults(),
		Children:   s.Children(),
		Rooms:      quantity,
	})
	if err != nil {
		return session.PriceQuote{}, err
	}
	now := u.clock.Now()
	if pricing.Status != crs.CallSuccess {
		return session.PriceQuote{
			TotalCents: room.PriceCents * int64(quantity) * int64(s.Nights()),
			CapturedAt: now,
		}, nil
	}
	return session.PriceQuote{
		TotalCents: pricing.TotalCents,
		TaxCents:   pricing.TaxCents,
		CapturedAt: now,
	}, nil
}

func (u *sessionUseCaseImpl) saveAndView(ctx context.Context, s *session.Session) (*readmodel.SessionView, error) {
	s.Touch(u.locks.SessionTTL, u.clock.Now())
	if err := u.sessions.Save(ctx, u.pool, s); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return readmodel.NewSessionView(s), nil
}
