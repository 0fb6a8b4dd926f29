package response

import (
	"time"

	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingItemResponse struct {
	RoomTypeID    uuid.UUID `json:"roomTypeId"`
	RatePlanID    string    `json:"ratePlanId"`
	Quantity      int       `json:"quantity"`
	Nights        int       `json:"nights"`
	SubtotalCents int64     `json:"subtotalCents"`
}

type HistoryEntryResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingResponse struct {
	ID                    uuid.UUID              `json:"id"`
	BookingNumber         string                 `json:"bookingNumber"`
	Status                string                 `json:"status"`
	GuestName             string                 `json:"guestName"`
	GuestEmail            string                 `json:"guestEmail"`
	CheckIn               time.Time              `json:"checkIn"`
	CheckOut              time.Time              `json:"checkOut"`
	Adults                int                    `json:"adults"`
	Children              int                    `json:"children"`
	SubtotalCents         int64                  `json:"subtotalCents"`
	TaxCents              int64                  `json:"taxCents"`
	TotalCents            int64                  `json:"totalCents"`
	Items                 []BookingItemResponse  `json:"items"`
	AddOns                []AddOnResponse        `json:"addOns"`
	ConfirmationNumber    *string                `json:"confirmationNumber,omitempty"`
	ExternalReservationID *string                `json:"externalReservationId,omitempty"`
	ConfirmedAt           *time.Time             `json:"confirmedAt,omitempty"`
	History               []HistoryEntryResponse `json:"history,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
}

type WebhookResultResponse struct {
	Outcome            string  `json:"outcome"`
	BookingID          string  `json:"bookingId"`
	Status             string  `json:"status"`
	ConfirmationNumber *string `json:"confirmationNumber,omitempty"`
	Detail             string  `json:"detail,omitempty"`
}

func FromBookingView(view *readmodel.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []BookingItemResponse{}
	}
	if resp.AddOns == nil {
		resp.AddOns = []AddOnResponse{}
	}
	return &resp, nil
}

func FromWebhookResult(result *usecase.WebhookResult) *WebhookResultResponse {
	resp := &WebhookResultResponse{
		Outcome:   string(result.Outcome),
		BookingID: result.BookingID.String(),
		Status:    string(result.Status),
		Detail:    result.Detail,
	}
	if result.ConfirmationNumber != "" {
		number := result.ConfirmationNumber
		resp.ConfirmationNumber = &number
	}
	return resp
}
