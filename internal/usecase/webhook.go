package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/domain/occupancy"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/pkg/resilience"
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase/shared"
)

type WebhookOutcome string

const (
	// OutcomeConfirmed: the CRS holds the reservation and the booking is
	// confirmed, either by this call or a previous one.
	OutcomeConfirmed WebhookOutcome = "confirmed"
	// OutcomePendingRetry: a transient CRS failure; the booking is left
	// intact and the webhook should be redelivered later.
	OutcomePendingRetry WebhookOutcome = "pending_retry"
)

type WebhookResult struct {
	Outcome            WebhookOutcome
	BookingID          uuid.UUID
	Status             booking.Status
	ConfirmationNumber string
	Detail             string
}

type WebhookUseCase interface {
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*WebhookResult, error)
}

type webhookUseCaseImpl struct {
	bookings      BookingRepository
	payments      PaymentRepository
	processing    ProcessingLockRepository
	notifications NotificationRepository
	stateMachine  *StateMachine
	roomTypes     RoomTypeRepository
	provider      crs.Provider
	pool          db.Pool
	clock         clock.Clock
	locks         config.LockConfig
	owner         string
}

func NewWebhookUseCase(
	bookings BookingRepository,
	payments PaymentRepository,
	processing ProcessingLockRepository,
	notifications NotificationRepository,
	stateMachine *StateMachine,
	roomTypes RoomTypeRepository,
	provider crs.Provider,
	pool db.Pool,
	clk clock.Clock,
	locks config.LockConfig,
) WebhookUseCase {
	host, _ := os.Hostname()
	return &webhookUseCaseImpl{
		bookings:      bookings,
		payments:      payments,
		processing:    processing,
		notifications: notifications,
		stateMachine:  stateMachine,
		roomTypes:     roomTypes,
		provider:      provider,
		pool:          pool,
		clock:         clk,
		locks:         locks,
		owner:         fmt.Sprintf("%s-%s", host, uuid.NewString()[:8]),
	}
}

// ConfirmBooking is the asynchronous half of the flow, driven by the payment
// webhook. The retry unit is the whole operation, not the inner CRS call: a
// transient failure surfaces as pending_retry and the webhook is redelivered,
// re-running lock acquisition and replay detection from scratch.
func (u *webhookUseCaseImpl) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*WebhookResult, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if result, done := u.settledResult(b); done {
		return result, nil
	}

	// Every transition for one booking runs under this lock, so transitions
	// are totally ordered per booking even with overlapping deliveries.
	if err := u.processing.Acquire(ctx, u.pool, bookingID, u.owner, u.locks.ProcessingTTL, u.clock.Now()); err != nil {
		if errors.Is(err, errs.ErrProcessingLockHeld) {
			return nil, errs.Mark(err, ErrWebhookConflict)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer func() {
		if releaseErr := u.processing.Release(ctx, u.pool, bookingID); releaseErr != nil {
			slog.Warn("failed to release processing lock", "booking_id", bookingID, "error", releaseErr)
		}
	}()

	// Reload under the lock; the state may have moved while we waited.
	b, err = u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if result, done := u.settledResult(b); done {
		return result, nil
	}

	b, err = u.advanceToRequested(ctx, b, paymentReference)
	if err != nil {
		return nil, err
	}

	// A replayed webhook for a booking whose CRS call already succeeded:
	// re-issue the confirm transition (a no-op when already confirmed) and
	// return the stored confirmation without touching the CRS.
	if b.HasConfirmation() {
		return u.confirmFromStored(ctx, b)
	}

	resp, err := u.createReservation(ctx, b, paymentReference)
	if err != nil {
		if transient, detail := u.classifyTransient(err, nil); transient {
			slog.Warn("crs reservation transient failure, webhook will retry",
				"booking_id", b.ID(), "detail", detail)
			return &WebhookResult{
				Outcome:   OutcomePendingRetry,
				BookingID: b.ID(),
				Status:    b.Status(),
				Detail:    detail,
			}, nil
		}
		return nil, u.failBooking(ctx, b, err.Error())
	}

	if !resp.IsFullyConfirmed() {
		if transient, detail := u.classifyTransient(nil, resp); transient {
			slog.Warn("crs reservation not yet confirmed, webhook will retry",
				"booking_id", b.ID(), "detail", detail)
			return &WebhookResult{
				Outcome:   OutcomePendingRetry,
				BookingID: b.ID(),
				Status:    b.Status(),
				Detail:    detail,
			}, nil
		}
		detail := resp.Message
		if len(resp.Errors) > 0 {
			detail = strings.Join(resp.Errors, "; ")
		}
		return nil, u.failBooking(ctx, b, detail)
	}

	return u.confirmBooking(ctx, b, resp)
}

func (u *webhookUseCaseImpl) loadBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookings.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

// settledResult short-circuits bookings whose outcome is already decided:
// confirmed replays its confirmation, failed and refunded refuse to retry.
func (u *webhookUseCaseImpl) settledResult(b *booking.Booking) (*WebhookResult, bool) {
	switch b.Status().Normalize() {
	case booking.StatusConfirmed, booking.StatusCompleted:
		result := &WebhookResult{
			Outcome:   OutcomeConfirmed,
			BookingID: b.ID(),
			Status:    b.Status(),
		}
		if b.ConfirmationNumber() != nil {
			result.ConfirmationNumber = *b.ConfirmationNumber()
		}
		return result, true
	case booking.StatusFailed, booking.StatusRefunded:
		return nil, false
	}
	return nil, false
}

// advanceToRequested drives pending_payment through payment_success to
// booking_requested. A booking already at booking_requested from a prior
// partial attempt passes through unchanged; the CRS call is still retried.
func (u *webhookUseCaseImpl) advanceToRequested(ctx context.Context, b *booking.Booking, paymentReference string) (*booking.Booking, error) {
	status := b.Status().Normalize()
	switch status {
	case booking.StatusBookingRequested:
		return b, nil
	case booking.StatusFailed, booking.StatusRefunded:
		return nil, ErrBookingUnpayable
	case booking.StatusPendingPayment, booking.StatusPaymentSuccess:
	default:
		return nil, ErrBookingUnpayable
	}

	return shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (*booking.Booking, error) {
		current, err := u.bookings.FindByIDForUpdate(ctx, tx, b.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if current.Status().Normalize() == booking.StatusPendingPayment {
			if err := u.stateMachine.Transition(ctx, tx, current, booking.StatusPaymentSuccess, TransitionContext{
				Reason: "payment captured",
				Actor:  "webhook",
			}); err != nil {
				return nil, err
			}
			if err := u.payments.Settle(ctx, tx, current.ID(), "paid", paymentReference, u.clock.Now()); err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			current, err = u.bookings.FindByIDForUpdate(ctx, tx, current.ID())
			if err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if current.Status().Normalize() == booking.StatusPaymentSuccess {
			if err := u.stateMachine.Transition(ctx, tx, current, booking.StatusBookingRequested, TransitionContext{
				Reason: "reservation requested",
				Actor:  "webhook",
			}); err != nil {
				return nil, err
			}
			current, err = u.bookings.FindByIDForUpdate(ctx, tx, current.ID())
			if err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return current, nil
	})
}

func (u *webhookUseCaseImpl) confirmFromStored(ctx context.Context, b *booking.Booking) (*WebhookResult, error) {
	_, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, u.stateMachine.Transition(ctx, tx, b, booking.StatusConfirmed, TransitionContext{
			Reason: "webhook replay",
			Actor:  "webhook",
		})
	})
	if err != nil {
		return nil, err
	}
	result := &WebhookResult{
		Outcome:   OutcomeConfirmed,
		BookingID: b.ID(),
		Status:    booking.StatusConfirmed,
	}
	if b.ConfirmationNumber() != nil {
		result.ConfirmationNumber = *b.ConfirmationNumber()
	}
	return result, nil
}

// createReservation maps local identifiers to the CRS's and issues the
// reservation through the resilient provider, one room entry per physical
// room with the party distributed across them.
func (u *webhookUseCaseImpl) createReservation(ctx context.Context, b *booking.Booking, paymentReference string) (*crs.ReservationResponse, error) {
	payment, err := u.payments.FindByBooking(ctx, u.pool, b.ID())
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if payment.Method == "" {
		payment.Method = "card"
	}
	if payment.Currency == "" {
		payment.Currency = "USD"
	}
	if paymentReference != "" {
		payment.Reference = paymentReference
	}

	split := occupancy.Distribute(b.TotalRooms(), occupancy.Party{Adults: b.Adults(), Children: b.Children()})

	rooms := make([]crs.ReservationRoom, 0, b.TotalRooms())
	roomIndex := 0
	for _, item := range b.Items() {
		roomType, err := u.roomTypes.FindByID(ctx, u.pool, item.RoomTypeID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for i := 0; i < item.Quantity; i++ {
			rooms = append(rooms, crs.ReservationRoom{
				RoomTypeID: roomType.CRSRoomID,
				RatePlanID: item.RatePlanID,
				Adults:     split[roomIndex].Adults,
				Children:   split[roomIndex].Children,
				GuestName:  b.Guest().FullName(),
			})
			roomIndex++
		}
	}

	return u.provider.CreateReservation(ctx, crs.ReservationRequest{
		ReservationRef: b.BookingNumber(),
		CheckIn:        b.CheckIn(),
		CheckOut:       b.CheckOut(),
		Rooms:          rooms,
		PrimaryGuest: crs.PrimaryGuest{
			FirstName: b.Guest().FirstName,
			LastName:  b.Guest().LastName,
			Email:     b.Guest().Email,
			Phone:     b.Guest().Phone,
		},
		Payment: crs.Payment{
			Method:      payment.Method,
			AmountCents: b.TotalCents(),
			Currency:    payment.Currency,
			Reference:   payment.Reference,
		},
	})
}

var transientPatterns = []string{
	"timeout", "timed out", "unavailable", "maintenance",
	"network", "connection reset", "try again", "temporarily",
}

// classifyTransient decides whether a CRS outcome should surface as
// pending_retry instead of failing the booking. Resilience-layer errors
// (exhausted retries, open breaker) are transient by construction; responses
// are transient when explicitly pending or when the message matches the
// retryable patterns.
func (u *webhookUseCaseImpl) classifyTransient(err error, resp *crs.ReservationResponse) (bool, string) {
	if err != nil {
		var exhausted *resilience.ExhaustedError
		switch {
		case errors.Is(err, errs.ErrCircuitOpen):
			return true, "circuit open"
		case errors.As(err, &exhausted):
			return true, exhausted.Error()
		case resilience.IsRetryable(err):
			return true, err.Error()
		}
		return false, err.Error()
	}

	if resp.Status == crs.ReservationPending {
		return true, "reservation pending at crs"
	}
	message := strings.ToLower(resp.Message + " " + strings.Join(resp.Errors, " "))
	for _, pattern := range transientPatterns {
		if strings.Contains(message, pattern) {
			return true, resp.Message
		}
	}
	return false, resp.Message
}

func (u *webhookUseCaseImpl) failBooking(ctx context.Context, b *booking.Booking, detail string) error {
	slog.Error("crs rejected reservation", "booking_id", b.ID(), "detail", detail)
	_, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, u.stateMachine.Transition(ctx, tx, b, booking.StatusFailed, TransitionContext{
			Reason:   detail,
			Actor:    "webhook",
			Metadata: map[string]any{"crs_detail": detail},
		})
	})
	if err != nil {
		return err
	}
	return errs.Mark(errs.New("crs rejected reservation: "+detail), errs.ErrProviderFatal)
}

func (u *webhookUseCaseImpl) confirmBooking(ctx context.Context, b *booking.Booking, resp *crs.ReservationResponse) (*WebhookResult, error) {
	_, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
		if err := u.stateMachine.Transition(ctx, tx, b, booking.StatusConfirmed, TransitionContext{
			Reason:   "crs reservation confirmed",
			Actor:    "webhook",
			Metadata: map[string]any{"confirmation_number": resp.ConfirmationNumber, "reservation_id": resp.ReservationID},
		}); err != nil {
			return struct{}{}, err
		}
		if err := u.bookings.SetConfirmation(ctx, tx, b.ID(), resp.ConfirmationNumber, resp.ReservationID, u.clock.Now()); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	// Notification failure never fails the reservation.
	notifyErr := u.notifications.Enqueue(ctx, u.pool, "booking_confirmed", map[string]any{
		"booking_id":          b.ID(),
		"booking_number":      b.BookingNumber(),
		"guest_email":         b.Guest().Email,
		"confirmation_number": resp.ConfirmationNumber,
	}, u.clock.Now())
	if notifyErr != nil {
		slog.Warn("failed to enqueue confirmation notification", "booking_id", b.ID(), "error", notifyErr)
	}

	return &WebhookResult{
		Outcome:            OutcomeConfirmed,
		BookingID:          b.ID(),
		Status:             booking.StatusConfirmed,
		ConfirmationNumber: resp.ConfirmationNumber,
	}, nil
}
