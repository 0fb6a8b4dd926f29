package readmodel

import (
	"github.com/google/uuid"

	"crs-booking-engine/internal/provider/crs"
)

// RoomAvailabilityView joins a CRS availability line with the local room
// catalog entry it maps to. AvailableCount already has holds by other
// sessions subtracted.
type RoomAvailabilityView struct {
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

type AvailabilityView struct {
	Rooms []RoomAvailabilityView `json:"rooms"`
}
