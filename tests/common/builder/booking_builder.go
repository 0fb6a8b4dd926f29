//go:build unit || e2e

package builder

import (
	"time"

	dombooking "crs-booking-engine/internal/domain/booking"
	reqdto "crs-booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Guest         dombooking.Guest
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	SubtotalCents int64
	TaxCents      int64
	Items         []dombooking.Item
	AddOns        []dombooking.AddOn
	Now           time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		Guest: dombooking.Guest{
			FirstName: "Aiko",
			LastName:  "Tanaka",
			Email:     "aiko.tanaka@example.com",
			Phone:     "+81-90-1234-5678",
		},
		CheckIn:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		Children:      0,
		SubtotalCents: 36000,
		TaxCents:      3600,
		Items: []dombooking.Item{
			{
				ID:            uuid.New(),
				RoomTypeID:    uuid.New(),
				RatePlanID:    "RP-STD",
				Quantity:      1,
				Nights:        3,
				SubtotalCents: 36000,
			},
		},
		Now: now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(
		b.Guest, b.CheckIn, b.CheckOut, b.Adults, b.Children,
		b.SubtotalCents, b.TaxCents, b.Items, b.AddOns, b.Now,
	)
}

func (b *BookingBuilder) BuildFinalizeRequestDTO() reqdto.FinalizeBookingRequest {
	return reqdto.FinalizeBookingRequest{
		Guest: reqdto.GuestDetailsRequest{
			FirstName: b.Guest.FirstName,
			LastName:  b.Guest.LastName,
			Email:     b.Guest.Email,
			Phone:     b.Guest.Phone,
		},
		Payment: reqdto.PaymentDetailsRequest{
			Method:    "card",
			Reference: "pay_" + uuid.NewString()[:8],
			Currency:  "USD",
		},
	}
}

func (b *BookingBuilder) BuildWebhookRequestDTO(bookingID uuid.UUID) reqdto.PaymentWebhookRequest {
	return reqdto.PaymentWebhookRequest{
		BookingID: bookingID,
		Status:    "captured",
		Reference: "pay_" + uuid.NewString()[:8],
	}
}
