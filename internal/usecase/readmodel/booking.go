package readmodel

import (
	"time"

	"github.com/google/uuid"

	"crs-booking-engine/internal/domain/booking"
)

type BookingItemView struct {
	RoomTypeID    uuid.UUID `json:"roomTypeId"`
	RatePlanID    string    `json:"ratePlanId"`
	Quantity      int       `json:"quantity"`
	Nights        int       `json:"nights"`
	SubtotalCents int64     `json:"subtotalCents"`
}

type BookingAddOnView struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type HistoryEntryView struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingView struct {
	ID                    uuid.UUID          `json:"id"`
	BookingNumber         string             `json:"bookingNumber"`
	Status                string             `json:"status"`
	GuestName             string             `json:"guestName"`
	GuestEmail            string             `json:"guestEmail"`
	CheckIn               time.Time          `json:"checkIn"`
	CheckOut              time.Time          `json:"checkOut"`
	Adults                int                `json:"adults"`
	Children              int                `json:"children"`
	SubtotalCents         int64              `json:"subtotalCents"`
	TaxCents              int64              `json:"taxCents"`
	TotalCents            int64              `json:"totalCents"`
	Items                 []BookingItemView  `json:"items"`
	AddOns                []BookingAddOnView `json:"addOns"`
	ConfirmationNumber    *string            `json:"confirmationNumber,omitempty"`
	ExternalReservationID *string            `json:"externalReservationId,omitempty"`
	ConfirmedAt           *time.Time         `json:"confirmedAt,omitempty"`
	History               []HistoryEntryView `json:"history,omitempty"`
	CreatedAt             time.Time          `json:"createdAt"`
}

func NewBookingView(b *booking.Booking, history []HistoryEntry) *BookingView {
	items := make([]BookingItemView, 0, len(b.Items()))
	for _, item := range b.Items() {
		items = append(items, BookingItemView{
			RoomTypeID:    item.RoomTypeID,
			RatePlanID:    item.RatePlanID,
			Quantity:      item.Quantity,
			Nights:        item.Nights,
			SubtotalCents: item.SubtotalCents,
		})
	}
	addOns := make([]BookingAddOnView, 0, len(b.AddOns()))
	for _, addOn := range b.AddOns() {
		addOns = append(addOns, BookingAddOnView{
			Code:       addOn.Code,
			Name:       addOn.Name,
			Quantity:   addOn.Quantity,
			PriceCents: addOn.PriceCents,
		})
	}
	entries := make([]HistoryEntryView, 0, len(history))
	for _, entry := range history {
		entries = append(entries, HistoryEntryView{
			From:      entry.From,
			To:        entry.To,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}

	return &BookingView{
		ID:                    b.ID(),
		BookingNumber:         b.BookingNumber(),
		Status:                string(b.Status()),
		GuestName:             b.Guest().FullName(),
		GuestEmail:            b.Guest().Email,
		CheckIn:               b.CheckIn(),
		CheckOut:              b.CheckOut(),
		Adults:                b.Adults(),
		Children:              b.Children(),
		SubtotalCents:         b.SubtotalCents(),
		TaxCents:              b.TaxCents(),
		TotalCents:            b.TotalCents(),
		Items:                 items,
		AddOns:                addOns,
		ConfirmationNumber:    b.ConfirmationNumber(),
		ExternalReservationID: b.ExternalReservationID(),
		ConfirmedAt:           b.ConfirmedAt(),
		History:               entries,
		CreatedAt:             b.CreatedAt(),
	}
}
