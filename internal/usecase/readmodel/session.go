package readmodel

import (
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/session"
)

type RoomSelectionView struct {
	RoomTypeID      uuid.UUID `json:"roomTypeId"`
	RatePlanID      string    `json:"ratePlanId"`
	Quantity        int       `json:"quantity"`
	QuoteTotalCents int64     `json:"quoteTotalCents"`
	QuoteTaxCents   int64     `json:"quoteTaxCents"`
	QuoteCapturedAt time.Time `json:"quoteCapturedAt"`
}

type SessionView struct {
	ID            uuid.UUID           `json:"id"`
	CheckIn       time.Time           `json:"checkIn"`
	CheckOut      time.Time           `json:"checkOut"`
	Adults        int                 `json:"adults"`
	Children      int                 `json:"children"`
	Nights        int                 `json:"nights"`
	Selections    []RoomSelectionView `json:"selections"`
	AddOns        []session.AddOn     `json:"addOns"`
	HasGuestDraft bool                `json:"hasGuestDraft"`
	SubtotalCents int64               `json:"subtotalCents"`
	ExpiresAt     time.Time           `json:"expiresAt"`
}

func NewSessionView(s *session.Session) *SessionView {
	selections := make([]RoomSelectionView, 0, len(s.Selections()))
	for _, sel := range s.Selections() {
		selections = append(selections, RoomSelectionView{
			RoomTypeID:      sel.RoomTypeID,
			RatePlanID:      sel.RatePlanID,
			Quantity:        sel.Quantity,
			QuoteTotalCents: sel.Quote.TotalCents,
			QuoteTaxCents:   sel.Quote.TaxCents,
			QuoteCapturedAt: sel.Quote.CapturedAt,
		})
	}
	return &SessionView{
		ID:            s.ID(),
		CheckIn:       s.CheckIn(),
		CheckOut:      s.CheckOut(),
		Adults:        s.Adults(),
		Children:      s.Children(),
		Nights:        s.Nights(),
		Selections:    selections,
		AddOns:        s.AddOns(),
		HasGuestDraft: s.GuestDraft() != nil,
		SubtotalCents: s.QuotedSubtotalCents(),
		ExpiresAt:     s.ExpiresAt(),
	}
}
