package response

import (
	"time"

	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomSelectionResponse struct {
	RoomTypeID      uuid.UUID `json:"roomTypeId"`
	RatePlanID      string    `json:"ratePlanId"`
	Quantity        int       `json:"quantity"`
	QuoteTotalCents int64     `json:"quoteTotalCents"`
	QuoteTaxCents   int64     `json:"quoteTaxCents"`
	QuoteCapturedAt time.Time `json:"quoteCapturedAt"`
}

type AddOnResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type SessionResponse struct {
	ID            uuid.UUID               `json:"id"`
	CheckIn       time.Time               `json:"checkIn"`
	CheckOut      time.Time               `json:"checkOut"`
	Adults        int                     `json:"adults"`
	Children      int                     `json:"children"`
	Nights        int                     `json:"nights"`
	Selections    []RoomSelectionResponse `json:"selections"`
	AddOns        []AddOnResponse         `json:"addOns"`
	HasGuestDraft bool                    `json:"hasGuestDraft"`
	SubtotalCents int64                   `json:"subtotalCents"`
	ExpiresAt     time.Time               `json:"expiresAt"`
}

type CreatedSessionResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}

func FromSessionView(view *readmodel.SessionView) (*SessionResponse, error) {
	var resp SessionResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.Selections == nil {
		resp.Selections = []RoomSelectionResponse{}
	}
	if resp.AddOns == nil {
		resp.AddOns = []AddOnResponse{}
	}
	return &resp, nil
}
