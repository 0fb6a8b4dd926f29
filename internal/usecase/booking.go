package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/booking"
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
	"crs-booking-engine/internal/usecase/shared"
)

type BookingUseCase interface {
	FinalizeBooking(ctx context.Context, req reqdto.FinalizeBookingRequest) (*readmodel.BookingView, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*readmodel.BookingView, error)
	GetBookingByNumber(ctx context.Context, number string) (*readmodel.BookingView, error)
}

type bookingUseCaseImpl struct {
	sessions     SessionRepository
	bookings     BookingRepository
	roomTypes    RoomTypeRepository
	inventory    InventoryLockRepository
	idempotency  IdempotencyRepository
	payments     PaymentRepository
	audit        AuditRepository
	stateMachine *StateMachine
	provider     crs.Provider
	pool         db.Pool
	clock        clock.Clock
	locks        config.LockConfig
}

func NewBookingUseCase(
	sessions SessionRepository,
	bookings BookingRepository,
	roomTypes RoomTypeRepository,
	inventory InventoryLockRepository,
	idempotency IdempotencyRepository,
	payments PaymentRepository,
	audit AuditRepository,
	stateMachine *StateMachine,
	provider crs.Provider,
	pool db.Pool,
	clk clock.Clock,
	locks config.LockConfig,
) BookingUseCase {
	return &bookingUseCaseImpl{
		sessions:     sessions,
		bookings:     bookings,
		roomTypes:    roomTypes,
		inventory:    inventory,
		idempotency:  idempotency,
		payments:     payments,
		audit:        audit,
		stateMachine: stateMachine,
		provider:     provider,
		pool:         pool,
		clock:        clk,
		locks:        locks,
	}
}

// selectionPlan is one cart line with everything finalize needs resolved:
// the catalog entry and the price actually charged.
type selectionPlan struct {
	selection session.RoomSelection
	roomType  readmodel.RoomTypeSnapshot
	// chargedCents is max(quoted, recomputed) so a stale quote never
	// undercharges.
	chargedCents int64
	taxCents     int64
}

// FinalizeBooking is the commit boundary of the synchronous flow. It creates
// the booking in pending_payment and stops: the CRS reservation itself is
// issued only by the payment webhook, keeping "money collected" and "room
// reserved" separably auditable.
func (u *bookingUseCaseImpl) FinalizeBooking(ctx context.Context, req reqdto.FinalizeBookingRequest) (*readmodel.BookingView, error) {
	s, err := u.loadActiveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireSelections(); err != nil {
		return nil, errs.Mark(err, errs.ErrEmptyCart)
	}

	plans, err := u.resolveSelections(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := u.validateOccupancyAcross(s, plans); err != nil {
		return nil, err
	}
	if err := u.verifyAvailabilityForAll(ctx, s, plans); err != nil {
		return nil, err
	}

	key := finalizeFingerprint(req)
	replayed, claimed, err := u.claimIdempotency(ctx, key)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}
	if !claimed {
		return nil, errs.ErrIdempotencyInProgress
	}

	if err := u.recomputePrices(ctx, s, plans); err != nil {
		u.releaseIdempotency(ctx, key)
		return nil, err
	}

	view, err := u.commitBooking(ctx, s, req, plans, key)
	if err != nil {
		u.releaseIdempotency(ctx, key)
		return nil, err
	}

	s.Touch(u.locks.SessionTTL, u.clock.Now())
	if saveErr := u.sessions.Save(ctx, u.pool, s); saveErr != nil {
		slog.Warn("failed to slide session expiry after finalize", "session_id", s.ID(), "error", saveErr)
	}
	return view, nil
}

func (u *bookingUseCaseImpl) GetBooking(ctx context.Context, id uuid.UUID) (*readmodel.BookingView, error) {
	b, err := u.bookings.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	history, err := u.audit.ListHistory(ctx, u.pool, b.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return readmodel.NewBookingView(b, history), nil
}

func (u *bookingUseCaseImpl) GetBookingByNumber(ctx context.Context, number string) (*readmodel.BookingView, error) {
	b, err := u.bookings.FindByNumber(ctx, u.pool, number)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	history, err := u.audit.ListHistory(ctx, u.pool, b.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return readmodel.NewBookingView(b, history), nil
}

func (u *bookingUseCaseImpl) loadActiveSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	s, err := u.sessions.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if s.IsExpired(u.clock.Now()) {
		// An expired session's inventory holds die with it.
		if releaseErr := u.inventory.ReleaseForSession(ctx, u.pool, id); releaseErr != nil {
			slog.Warn("failed to release holds for expired session", "session_id", id, "error", releaseErr)
		}
		_ = u.sessions.Delete(ctx, u.pool, id)
		return nil, errs.ErrSessionExpired
	}
	return s, nil
}

func (u *bookingUseCaseImpl) resolveSelections(ctx context.Context, s *session.Session) ([]selectionPlan, error) {
	plans := make([]selectionPlan, 0, len(s.Selections()))
	for _, sel := range s.Selections() {
		roomType, err := u.roomTypes.FindByID(ctx, u.pool, sel.RoomTypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrUnknownRoomType
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		plans = append(plans, selectionPlan{
			selection:    sel,
			roomType:     roomType,
			chargedCents: sel.Quote.TotalCents,
			taxCents:     sel.Quote.TaxCents,
		})
	}
	return plans, nil
}

// validateOccupancyAcross applies the occupancy limits to the booking as a
// whole; a party may span multiple room types, so the rooms' capacities sum.
func (u *bookingUseCaseImpl) validateOccupancyAcross(s *session.Session, plans []selectionPlan) error {
	allocations := make([]occupancy.Allocation, 0, len(plans))
	for _, plan := range plans {
		allocations = append(allocations, occupancy.Allocation{
			Limits:    plan.roomType.Limits,
			RoomCount: plan.selection.Quantity,
		})
	}
	party := occupancy.Party{Adults: s.Adults(), Children: s.Children()}
	if err := occupancy.ValidateAcross(allocations, party); err != nil {
		return errs.Mark(err, errs.ErrInvalidOccupancy)
	}
	return nil
}

func (u *bookingUseCaseImpl) verifyAvailabilityForAll(ctx context.Context, s *session.Session, plans []selectionPlan) error {
	resp, err := u.provider.CheckAvailability(ctx, crs.AvailabilityRequest{
		CheckIn:  s.CheckIn(),
		CheckOut: s.CheckOut(),
		Adults:   s.Adults(),
		Children: s.Children(),
	})
	if err != nil {
		return err
	}

	now := u.clock.Now()
	for _, plan := range plans {
		room, ok := resp.RoomFor(plan.roomType.CRSRoomID)
		remaining := 0
		if ok {
			held, err := u.inventory.CountHeldByOthers(ctx, u.pool, plan.roomType.ID, s.ID(), s.CheckIn(), s.CheckOut(), now)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			remaining = room.AvailableCount - held
			if remaining < 0 {
				remaining = 0
			}
		}
		if remaining < plan.selection.Quantity {
			return errs.Mark(
				&AvailabilityShortfallError{
					RoomTypeID: plan.roomType.ID,
					Requested:  plan.selection.Quantity,
					Remaining:  remaining,
				},
				errs.ErrNoAvailability,
			)
		}
	}
	return nil
}

// claimIdempotency resolves the three-way outcome for a finalize key: a
// completed record replays the stored booking, a live processing claim means
// a concurrent duplicate, and a fresh claim lets this request proceed.
func (u *bookingUseCaseImpl) claimIdempotency(ctx context.Context, key string) (*readmodel.BookingView, bool, error) {
	claimed, err := u.idempotency.TryLock(ctx, u.pool, key, http.MethodPost, "/api/bookings", u.locks.IdempotencyTTL, u.clock.Now())
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, true, nil
	}

	record, err := u.idempotency.Get(ctx, u.pool, key)
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if record.Status == readmodel.IdempotencyCompleted && record.ResultBookingID != nil {
		view, err := u.GetBooking(ctx, *record.ResultBookingID)
		if err != nil {
			return nil, false, err
		}
		return view, false, nil
	}
	return nil, false, nil
}

func (u *bookingUseCaseImpl) releaseIdempotency(ctx context.Context, key string) {
	if err := u.idempotency.Release(ctx, u.pool, key); err != nil {
		slog.Warn("failed to release idempotency key", "key", key, "error", err)
	}
}

// recomputePrices re-quotes every line through the CRS and charges
// max(quoted, recomputed) so a stale captured quote never undercharges.
func (u *bookingUseCaseImpl) recomputePrices(ctx context.Context, s *session.Session, plans []selectionPlan) error {
	for i := range plans {
		plan := &plans[i]
		pricing, err := u.provider.GetPricing(ctx, crs.PricingRequest{
			RoomID:     plan.roomType.CRSRoomID,
			RatePlanID: plan.selection.RatePlanID,
			CheckIn:    s.CheckIn(),
			CheckOut:   s.CheckOut(),
			Adults:     s.Adults(),
			Children:   s.Children(),
			Rooms:      plan.selection.Quantity,
		})
		if err != nil {
			return err
		}
		if pricing.Status == crs.CallSuccess && pricing.TotalCents > plan.chargedCents {
			plan.chargedCents = pricing.TotalCents
			plan.taxCents = pricing.TaxCents
		}
	}
	return nil
}

func (u *bookingUseCaseImpl) commitBooking(
	ctx context.Context,
	s *session.Session,
	req reqdto.FinalizeBookingRequest,
	plans []selectionPlan,
	key string,
) (*readmodel.BookingView, error) {
	b, err := u.buildBooking(s, req, plans)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidOccupancy)
	}

	view, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (*readmodel.BookingView, error) {
		now := u.clock.Now()

		if err := u.bookings.Create(ctx, tx, b); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.payments.CreatePending(ctx, tx, b.ID(), req.Payment.Method, b.TotalCents(), req.Payment.NormalizedCurrency(), now); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if _, err := u.inventory.PurgeExpired(ctx, tx, now); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, plan := range plans {
			hold := readmodel.InventoryHold{
				SessionID:       s.ID(),
				RoomTypeID:      plan.roomType.ID,
				CheckIn:         s.CheckIn(),
				CheckOut:        s.CheckOut(),
				RoomCount:       plan.selection.Quantity,
				TotalPriceCents: plan.chargedCents,
			}
			if err := u.inventory.Hold(ctx, tx, hold, now.Add(u.locks.InventoryTTL), now); err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := u.stateMachine.Transition(ctx, tx, b, booking.StatusPendingPayment, TransitionContext{
			Reason: "payment initiated",
			Actor:  "finalize",
		}); err != nil {
			return nil, err
		}

		// Reload inside the transaction so the view reflects the
		// post-transition row, then store it as the replay response.
		committed, err := u.bookings.FindByID(ctx, tx, b.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		history, err := u.audit.ListHistory(ctx, tx, b.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		view := readmodel.NewBookingView(committed, history)

		response, err := json.Marshal(view)
		if err != nil {
			return nil, errs.Wrap(err, "failed to encode finalize response")
		}
		bookingID := b.ID()
		if err := u.idempotency.Complete(ctx, tx, key, http.StatusCreated, response, &bookingID); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return view, nil
	})
	if err != nil {
		slog.Error("finalize failed", "booking_id", b.ID(), "session_id", s.ID(), "error", err)
		return nil, err
	}
	return view, nil
}

func (u *bookingUseCaseImpl) buildBooking(s *session.Session, req reqdto.FinalizeBookingRequest, plans []selectionPlan) (*booking.Booking, error) {
	draft := req.Guest.ToDraft()
	guest := booking.Guest{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Phone:     draft.Phone,
	}

	var subtotal, tax int64
	items := make([]booking.Item, 0, len(plans))
	for _, plan := range plans {
		// chargedCents is tax-inclusive; the booking splits net and tax.
		net := plan.chargedCents - plan.taxCents
		subtotal += net
		tax += plan.taxCents
		items = append(items, booking.Item{
			ID:            uuid.New(),
			RoomTypeID:    plan.roomType.ID,
			RatePlanID:    plan.selection.RatePlanID,
			Quantity:      plan.selection.Quantity,
			Nights:        s.Nights(),
			SubtotalCents: net,
		})
	}

	addOns := make([]booking.AddOn, 0, len(s.AddOns()))
	for _, addOn := range s.AddOns() {
		addOns = append(addOns, booking.AddOn{
			ID:         uuid.New(),
			Code:       addOn.Code,
			Name:       addOn.Name,
			Quantity:   addOn.Quantity,
			PriceCents: addOn.PriceCents,
		})
	}

	return booking.NewBooking(
		guest,
		s.CheckIn(), s.CheckOut(),
		s.Adults(), s.Children(),
		subtotal, tax,
		items, addOns,
		u.clock.Now(),
	)
}

// finalizeFingerprint hashes the logical request (session plus payment
// details) so client retries map to the same idempotency record regardless
// of transport-level differences.
func finalizeFingerprint(req reqdto.FinalizeBookingRequest) string {
	canonical, _ := json.Marshal(map[string]string{
		"sessionId": req.SessionID.String(),
		"method":    req.Payment.Method,
		"reference": req.Payment.Reference,
		"currency":  req.Payment.NormalizedCurrency(),
	})
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
