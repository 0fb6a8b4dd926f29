package usecase

import (
	"context"
	"log/slog"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/errs"
)

// TransitionContext carries who moved a booking and why, for the audit trail.
type TransitionContext struct {
	Reason   string
	Actor    string
	Metadata map[string]any
}

// StateMachine enforces the booking transition graph. A valid transition
// updates the row (with an optimistic version check), one history entry and
// one audit entry in the caller's transaction. A rejected transition leaves
// only a failed-attempt audit entry, written outside the caller's
// transaction so a subsequent rollback cannot erase the trace.
type StateMachine struct {
	bookings BookingRepository
	audit    AuditRepository
	pool     db.Pool
	clock    clock.Clock
}

func NewStateMachine(bookings BookingRepository, audit AuditRepository, pool db.Pool, clk clock.Clock) *StateMachine {
	return &StateMachine{bookings: bookings, audit: audit, pool: pool, clock: clk}
}

func (sm *StateMachine) Transition(ctx context.Context, tx db.DBTX, b *booking.Booking, to booking.Status, tctx TransitionContext) error {
	from := b.Status().Normalize()
	to = to.Normalize()

	// Same-state replay is a success with no effects, so a redelivered
	// webhook can drive the machine again without harm.
	if from == to {
		return nil
	}

	if !booking.CanTransition(from, to) {
		sm.recordRejected(ctx, b, from, to, tctx)
		return errs.Mark(&booking.InvalidTransitionError{From: from, To: to}, errs.ErrInvalidTransition)
	}

	now := sm.clock.Now()
	actor := tctx.Actor
	if actor == "" {
		actor = "system"
	}

	var cancelReason *string
	if tctx.Reason != "" {
		switch to {
		case booking.StatusCancelled, booking.StatusFailed, booking.StatusExpired:
			reason := tctx.Reason
			cancelReason = &reason
		}
	}

	if err := sm.bookings.UpdateStatus(ctx, tx, b.ID(), to, b.Version(), cancelReason, now); err != nil {
		return err
	}
	if err := sm.audit.RecordHistory(ctx, tx, b.ID(), from, to, tctx.Reason, now); err != nil {
		return err
	}
	if err := sm.audit.RecordTransition(ctx, tx, b.ID(), from, to, tctx.Reason, actor, tctx.Metadata, true, now); err != nil {
		return err
	}
	return nil
}

func (sm *StateMachine) recordRejected(ctx context.Context, b *booking.Booking, from, to booking.Status, tctx TransitionContext) {
	actor := tctx.Actor
	if actor == "" {
		actor = "system"
	}
	slog.Error("rejected booking transition",
		"booking_id", b.ID(),
		"from", string(from),
		"to", string(to),
		"reason", tctx.Reason,
		"actor", actor)

	err := sm.audit.RecordTransition(ctx, sm.pool, b.ID(), from, to, tctx.Reason, actor, tctx.Metadata, false, sm.clock.Now())
	if err != nil {
		slog.Error("failed to record rejected transition", "booking_id", b.ID(), "error", err)
	}
}
