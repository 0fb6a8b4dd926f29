package request

import (
	"strings"

	"github.com/google/uuid"
)

type PaymentDetailsRequest struct {
	Method    string `json:"method" binding:"required,oneof=card bank_transfer on_site"`
	Reference string `json:"reference"`
	Currency  string `json:"currency"`
}

func (r PaymentDetailsRequest) NormalizedCurrency() string {
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		return "USD"
	}
	return currency
}

type FinalizeBookingRequest struct {
	// SessionID is filled from the verified session token, never from the body.
	SessionID uuid.UUID             `json:"-"`
	Guest     GuestDetailsRequest   `json:"guest" binding:"required"`
	Payment   PaymentDetailsRequest `json:"payment" binding:"required"`
}

type PaymentWebhookRequest struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
	Status    string    `json:"status" binding:"required"`
	Reference string    `json:"reference"`
}

// IsSuccess reports whether the gateway callback signals a captured payment.
// Anything else is acknowledged and ignored.
func (r PaymentWebhookRequest) IsSuccess() bool {
	switch strings.ToLower(r.Status) {
	case "success", "succeeded", "captured", "paid":
		return true
	}
	return false
}
