//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"crs-booking-engine/internal/domain/occupancy"
	reqdto "crs-booking-engine/internal/handler/dto/request"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/internal/usecase/readmodel"
)

type AvailabilityUseCaseTestSuite struct {
	suite.Suite
	inventory *fakeInventoryRepo
	sandbox   *crs.Sandbox
	uc        usecase.AvailabilityUseCase

	stdRoomID uuid.UUID
}

func (s *AvailabilityUseCaseTestSuite) SetupTest() {
	s.inventory = newFakeInventoryRepo()
	s.stdRoomID = uuid.New()

	roomTypes := newFakeRoomTypeRepo(readmodel.RoomTypeSnapshot{
		ID: s.stdRoomID, Code: "STD", Name: "Standard Double", CRSRoomID: "CRS-STD",
		Limits: occupancy.Limits{MinOccupancy: 1, MaxGuests: 2, MaxAdults: 2, MaxChildren: 1},
	})

	// CRS-EXT has no local catalog entry and must never surface in results.
	s.sandbox = crs.NewSandbox(
		crs.SandboxRoom{RoomTypeID: "CRS-STD", Available: 3, PriceCents: 12000, TaxCents: 1200},
		crs.SandboxRoom{RoomTypeID: "CRS-EXT", Available: 9, PriceCents: 5000, TaxCents: 500},
	)

	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	s.uc = usecase.NewAvailabilityUseCase(roomTypes, s.inventory, s.sandbox, nil, clk)
}

func TestAvailabilityUseCaseSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityUseCaseTestSuite))
}

func searchRequest() reqdto.AvailabilitySearchRequest {
	return reqdto.AvailabilitySearchRequest{
		CheckIn:  "2026-04-01",
		CheckOut: "2026-04-04",
		Adults:   2,
	}
}

func (s *AvailabilityUseCaseTestSuite) TestSearchJoinsCatalogAndSkipsUnknownRooms() {
	view, err := s.uc.Search(context.Background(), searchRequest())
	s.Require().NoError(err)

	s.Require().Len(view.Rooms, 1)
	room := view.Rooms[0]
	s.Equal(s.stdRoomID, room.RoomTypeID)
	s.Equal("STD", room.Code)
	s.Equal(3, room.AvailableCount)
	s.Equal(int64(12000), room.PriceCents)
	s.Require().NotEmpty(room.RatePlans)
	s.Equal("RP-STD", room.RatePlans[0].ID)
	s.Equal(2, room.MaxGuests)
}

func (s *AvailabilityUseCaseTestSuite) TestSearchSubtractsActiveHolds() {
	s.inventory.heldByOthers[s.stdRoomID] = 2

	view, err := s.uc.Search(context.Background(), searchRequest())
	s.Require().NoError(err)

	s.Require().Len(view.Rooms, 1)
	s.Equal(1, view.Rooms[0].AvailableCount)
}

func (s *AvailabilityUseCaseTestSuite) TestSearchClampsOversubscribedHoldsToZero() {
	s.inventory.heldByOthers[s.stdRoomID] = 5

	view, err := s.uc.Search(context.Background(), searchRequest())
	s.Require().NoError(err)

	s.Require().Len(view.Rooms, 1)
	s.Equal(0, view.Rooms[0].AvailableCount)
}

func (s *AvailabilityUseCaseTestSuite) TestSearchPropagatesProviderFailure() {
	s.sandbox.NextError = errs.Mark(errs.New("crs unreachable"), errs.ErrProviderTransient)

	_, err := s.uc.Search(context.Background(), searchRequest())
	s.Require().ErrorIs(err, errs.ErrProviderTransient)
}

func (s *AvailabilityUseCaseTestSuite) TestSearchRejectsMalformedDates() {
	req := searchRequest()
	req.CheckIn = "april first"

	_, err := s.uc.Search(context.Background(), req)
	s.Require().Error(err)
}
