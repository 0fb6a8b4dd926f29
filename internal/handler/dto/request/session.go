package request

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/session"
)

const stayDateLayout = "2006-01-02"

type CreateSessionRequest struct {
	CheckIn  string `json:"checkIn" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" binding:"required,datetime=2006-01-02"`
	Adults   int    `json:"adults" binding:"required,min=1"`
	Children int    `json:"children" binding:"min=0"`
}

func (r CreateSessionRequest) StayDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(stayDateLayout, r.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err = time.Parse(stayDateLayout, r.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

type SelectRoomRequest struct {
	RoomTypeID uuid.UUID `json:"roomTypeId" binding:"required"`
	RatePlanID string    `json:"ratePlanId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

type ChangeQuantityRequest struct {
	RoomTypeID uuid.UUID `json:"roomTypeId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

type GuestDetailsRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

func (r GuestDetailsRequest) ToDraft() session.GuestDraft {
	return session.GuestDraft{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(strings.ToLower(r.Email)),
		Phone:     strings.TrimSpace(r.Phone),
	}
}

type AddOnRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type SetAddOnsRequest struct {
	AddOns []AddOnRequest `json:"addOns"`
}

// ToDomain normalizes loosely-typed client add-on entries into strict values:
// quantities clamp to at least one and negative prices to zero. Anything past
// this boundary works with the normalized form only.
func (r SetAddOnsRequest) ToDomain() []session.AddOn {
	addOns := make([]session.AddOn, 0, len(r.AddOns))
	for _, a := range r.AddOns {
		code := strings.TrimSpace(a.Code)
		if code == "" {
			continue
		}
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		price := a.PriceCents
		if price < 0 {
			price = 0
		}
		addOns = append(addOns, session.AddOn{
			Code:       code,
			Name:       strings.TrimSpace(a.Name),
			Quantity:   qty,
			PriceCents: price,
		})
	}
	return addOns
}
