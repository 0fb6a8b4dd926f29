package response

import (
	"crs-booking-engine/internal/provider/crs"
	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomAvailabilityResponse struct {
	RoomTypeID     uuid.UUID      `json:"roomTypeId"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	AvailableCount int            `json:"availableCount"`
	PriceCents     int64          `json:"priceCents"`
	RatePlans      []crs.RatePlan `json:"ratePlans"`
	MinOccupancy   int            `json:"minOccupancy"`
	MaxGuests      int            `json:"maxGuests"`
	MaxAdults      int            `json:"maxAdults"`
	MaxChildren    int            `json:"maxChildren"`
}

type AvailabilityResponse struct {
	Rooms []RoomAvailabilityResponse `json:"rooms"`
}

func FromAvailabilityView(view *readmodel.AvailabilityView) (*AvailabilityResponse, error) {
	var resp AvailabilityResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.Rooms == nil {
		resp.Rooms = []RoomAvailabilityResponse{}
	}
	return &resp, nil
}
