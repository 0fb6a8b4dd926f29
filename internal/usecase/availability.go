package usecase

import (
	"context"

	reqdto "crs-booking-engine/internal/handler/dto/request"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type AvailabilityUseCase interface {
	Search(ctx context.Context, req reqdto.AvailabilitySearchRequest) (*readmodel.AvailabilityView, error)
}

type availabilityUseCaseImpl struct {
	roomTypes RoomTypeRepository
	inventory InventoryLockRepository
	provider  crs.Provider
	pool      db.Pool
	clock     clock.Clock
}

func NewAvailabilityUseCase(
	roomTypes RoomTypeRepository,
	inventory InventoryLockRepository,
	provider crs.Provider,
	pool db.Pool,
	clk clock.Clock,
) AvailabilityUseCase {
	return &availabilityUseCaseImpl{
		roomTypes: roomTypes,
		inventory: inventory,
		provider:  provider,
		pool:      pool,
		clock:     clk,
	}
}

// Search joins live CRS availability with the local room catalog. Room types
// the CRS does not offer for the stay are omitted; CRS lines without a local
// catalog entry are skipped rather than invented.
func (u *availabilityUseCaseImpl) Search(ctx context.Context, req reqdto.AvailabilitySearchRequest) (*readmodel.AvailabilityView, error) {
	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return nil, errs.Wrap(err, "invalid stay dates")
	}

	resp, err := u.provider.CheckAvailability(ctx, crs.AvailabilityRequest{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   req.Adults,
		Children: req.Children,
	})
	if err != nil {
		return nil, err
	}

	catalog, err := u.roomTypes.FindAll(ctx, u.pool)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	byCRSID := make(map[string]readmodel.RoomTypeSnapshot, len(catalog))
	for _, roomType := range catalog {
		byCRSID[roomType.CRSRoomID] = roomType
	}

	now := u.clock.Now()
	view := &readmodel.AvailabilityView{Rooms: make([]readmodel.RoomAvailabilityView, 0, len(resp.Rooms))}
	for _, room := range resp.Rooms {
		roomType, ok := byCRSID[room.RoomTypeID]
		if !ok {
			continue
		}
		held, err := u.inventory.CountHeldByOthers(ctx, u.pool, roomType.ID, uuid.Nil, checkIn, checkOut, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		available := room.AvailableCount - held
		if available < 0 {
			available = 0
		}
		view.Rooms = append(view.Rooms, readmodel.RoomAvailabilityView{
			RoomTypeID:     roomType.ID,
			Code:           roomType.Code,
			Name:           roomType.Name,
			AvailableCount: available,
			PriceCents:     room.PriceCents,
			RatePlans:      room.RatePlans,
			MinOccupancy:   roomType.Limits.MinOccupancy,
			MaxGuests:      roomType.Limits.MaxGuests,
			MaxAdults:      roomType.Limits.MaxAdults,
			MaxChildren:    roomType.Limits.MaxChildren,
		})
	}
	return view, nil
}
