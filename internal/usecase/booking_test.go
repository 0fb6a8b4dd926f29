//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/domain/occupancy"
	"crs-booking-engine/internal/domain/session"
	reqdto "crs-booking-engine/internal/handler/dto/request"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/internal/usecase/readmodel"
)

type BookingUseCaseTestSuite struct {
	suite.Suite
	sessions    *fakeSessionRepo
	bookings    *fakeBookingRepo
	roomTypes   *fakeRoomTypeRepo
	inventory   *fakeInventoryRepo
	idempotency *fakeIdempotencyRepo
	payments    *fakePaymentRepo
	audit       *fakeAuditRepo
	sandbox     *crs.Sandbox
	clk         *clock.MockClock
	locks       config.LockConfig
	uc          usecase.BookingUseCase

	roomTypeID uuid.UUID
}

func TestBookingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(BookingUseCaseTestSuite))
}

func (s *BookingUseCaseTestSuite) SetupTest() {
	s.clk = clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	s.roomTypeID = uuid.New()

	s.sessions = newFakeSessionRepo()
	s.bookings = newFakeBookingRepo()
	s.roomTypes = newFakeRoomTypeRepo(standardRoomSnapshot(s.roomTypeID))
	s.inventory = newFakeInventoryRepo()
	s.idempotency = newFakeIdempotencyRepo()
	s.payments = newFakePaymentRepo()
	s.audit = newFakeAuditRepo()
	s.sandbox = crs.NewSandbox(crs.SandboxRoom{
		RoomTypeID: "CRS-STD",
		Available:  3,
		PriceCents: 12000,
		TaxCents:   1200,
	})
	s.locks = config.LockConfig{
		SessionTTL:     10 * time.Minute,
		InventoryTTL:   5 * time.Minute,
		ProcessingTTL:  2 * time.Minute,
		IdempotencyTTL: 24 * time.Hour,
	}

	sm := usecase.NewStateMachine(s.bookings, s.audit, fakePool{}, s.clk)
	s.uc = usecase.NewBookingUseCase(
		s.sessions, s.bookings, s.roomTypes, s.inventory,
		s.idempotency, s.payments, s.audit, sm,
		s.sandbox, fakePool{}, s.clk, s.locks,
	)
}

// cartSession seeds a two-adult session holding one standard room for three
// nights at the sandbox price.
func (s *BookingUseCaseTestSuite) cartSession() *session.Session {
	now := s.clk.Now()
	sess, err := session.NewSession(
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		2, 0, s.locks.SessionTTL, now,
	)
	s.Require().NoError(err)
	s.Require().NoError(sess.SelectRoom(s.roomTypeID, "RP-STD", 1, session.PriceQuote{
		TotalCents: 39600,
		TaxCents:   3600,
		CapturedAt: now,
	}))
	s.Require().NoError(s.sessions.Create(context.Background(), nil, sess))
	return sess
}

func (s *BookingUseCaseTestSuite) finalizeRequest(sessionID uuid.UUID) reqdto.FinalizeBookingRequest {
	return reqdto.FinalizeBookingRequest{
		SessionID: sessionID,
		Guest: reqdto.GuestDetailsRequest{
			FirstName: "Aiko",
			LastName:  "Tanaka",
			Email:     "aiko.tanaka@example.com",
		},
		Payment: reqdto.PaymentDetailsRequest{
			Method:    "card",
			Reference: "PAY-001",
			Currency:  "usd",
		},
	}
}

func (s *BookingUseCaseTestSuite) TestFinalizeCreatesPendingPaymentBooking() {
	sess := s.cartSession()

	view, err := s.uc.FinalizeBooking(context.Background(), s.finalizeRequest(sess.ID()))
	s.Require().NoError(err)

	s.Equal(string(booking.StatusPendingPayment), view.Status)
	s.Equal("Aiko Tanaka", view.GuestName)
	s.Equal(int64(36000), view.SubtotalCents)
	s.Equal(int64(3600), view.TaxCents)
	s.Equal(int64(39600), view.TotalCents)
	s.Equal(1, s.bookings.created)
	s.Equal(1, s.payments.pending)
	s.Require().Len(s.inventory.holds, 1)
	s.Equal(sess.ID(), s.inventory.holds[0].SessionID)
	s.Equal(s.roomTypeID, s.inventory.holds[0].RoomTypeID)

	rec, err := s.payments.FindByBooking(context.Background(), nil, view.ID)
	s.Require().NoError(err)
	s.Equal("pending", rec.Status)
	s.Equal("USD", rec.Currency)
}

func (s *BookingUseCaseTestSuite) TestDuplicateFinalizeReplaysWithoutNewSideEffects() {
	sess := s.cartSession()
	req := s.finalizeRequest(sess.ID())

	first, err := s.uc.FinalizeBooking(context.Background(), req)
	s.Require().NoError(err)

	second, err := s.uc.FinalizeBooking(context.Background(), req)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(first.BookingNumber, second.BookingNumber)

	// The retry replayed the stored result; nothing ran twice.
	s.Equal(1, s.bookings.created)
	s.Equal(1, s.payments.pending)
	s.Len(s.inventory.holds, 1)
}

func (s *BookingUseCaseTestSuite) TestFinalizeAtZeroAvailabilityCreatesNothing() {
	sess := s.cartSession()
	// Other sessions hold everything the sandbox reports available.
	s.inventory.heldByOthers[s.roomTypeID] = 3

	_, err := s.uc.FinalizeBooking(context.Background(), s.finalizeRequest(sess.ID()))
	s.Require().ErrorIs(err, errs.ErrNoAvailability)

	var shortfall *usecase.AvailabilityShortfallError
	s.Require().True(errors.As(err, &shortfall))
	s.Equal(1, shortfall.Requested)
	s.Equal(0, shortfall.Remaining)

	s.Zero(s.bookings.created)
	s.Zero(s.payments.pending)
	s.Empty(s.inventory.holds)
	s.Empty(s.idempotency.records)
}

func (s *BookingUseCaseTestSuite) TestInFlightDuplicateIsRejected() {
	sess := s.cartSession()
	req := s.finalizeRequest(sess.ID())

	// First attempt claims the key, then dies mid-commit; the release also
	// fails, stranding a live processing claim.
	s.idempotency.releaseErr = errs.New("connection lost")
	s.bookings.createErr = errs.New("insert failed")
	_, err := s.uc.FinalizeBooking(context.Background(), req)
	s.Require().Error(err)
	s.Require().Len(s.idempotency.records, 1)
	s.idempotency.releaseErr = nil
	s.bookings.createErr = nil

	_, err = s.uc.FinalizeBooking(context.Background(), req)
	s.Require().ErrorIs(err, errs.ErrIdempotencyInProgress)
	s.Zero(s.bookings.created)
	s.Zero(s.payments.pending)
}

func (s *BookingUseCaseTestSuite) TestLapsedProcessingClaimIsReclaimed() {
	sess := s.cartSession()
	req := s.finalizeRequest(sess.ID())

	s.idempotency.releaseErr = errs.New("connection lost")
	s.bookings.createErr = errs.New("insert failed")
	_, err := s.uc.FinalizeBooking(context.Background(), req)
	s.Require().Error(err)
	s.idempotency.releaseErr = nil
	s.bookings.createErr = nil

	// The crashed attempt's lease runs out; a retry takes the claim over.
	for _, rec := range s.idempotency.records {
		rec.ExpiresAt = s.clk.Now().Add(-time.Minute)
	}

	view, err := s.uc.FinalizeBooking(context.Background(), req)
	s.Require().NoError(err)
	s.Equal(string(booking.StatusPendingPayment), view.Status)
	s.Equal(1, s.bookings.created)
}

func (s *BookingUseCaseTestSuite) TestFinalizeWithEmptyCartIsRejected() {
	now := s.clk.Now()
	sess, err := session.NewSession(
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		2, 0, s.locks.SessionTTL, now,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.Create(context.Background(), nil, sess))

	_, err = s.uc.FinalizeBooking(context.Background(), s.finalizeRequest(sess.ID()))
	s.ErrorIs(err, errs.ErrEmptyCart)
	s.Empty(s.idempotency.records)
}

func (s *BookingUseCaseTestSuite) TestExpiredSessionReleasesItsHolds() {
	sess := s.cartSession()
	s.clk.Advance(s.locks.SessionTTL + time.Minute)

	_, err := s.uc.FinalizeBooking(context.Background(), s.finalizeRequest(sess.ID()))
	s.Require().ErrorIs(err, errs.ErrSessionExpired)

	s.Require().Len(s.inventory.released, 1)
	s.Equal(sess.ID(), s.inventory.released[0])
	_, err = s.sessions.FindByID(context.Background(), nil, sess.ID())
	s.Error(err)
}

func (s *BookingUseCaseTestSuite) TestStaleQuoteIsRepricedUpward() {
	now := s.clk.Now()
	sess, err := session.NewSession(
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		2, 0, s.locks.SessionTTL, now,
	)
	s.Require().NoError(err)
	// A quote captured before a price rise: the CRS re-quote wins.
	s.Require().NoError(sess.SelectRoom(s.roomTypeID, "RP-STD", 1, session.PriceQuote{
		TotalCents: 30000,
		TaxCents:   3000,
		CapturedAt: now,
	}))
	s.Require().NoError(s.sessions.Create(context.Background(), nil, sess))

	view, err := s.uc.FinalizeBooking(context.Background(), s.finalizeRequest(sess.ID()))
	s.Require().NoError(err)
	s.Equal(int64(39600), view.TotalCents)
}

func (s *BookingUseCaseTestSuite) TestGetBookingNotFound() {
	_, err := s.uc.GetBooking(context.Background(), uuid.New())
	s.ErrorIs(err, errs.ErrBookingNotFound)
}

func standardRoomSnapshot(id uuid.UUID) readmodel.RoomTypeSnapshot {
	return readmodel.RoomTypeSnapshot{
		ID:        id,
		Code:      "STD",
		Name:      "Standard Room",
		CRSRoomID: "CRS-STD",
		Limits:    occupancy.Limits{MinOccupancy: 1, MaxGuests: 2, MaxAdults: 2, MaxChildren: 1},
	}
}
