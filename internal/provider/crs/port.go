// Package crs defines the port to the external Central Reservation System —
// the authority for live availability and the system of record for issued
// reservations — together with its live HTTP and sandbox implementations.
package crs

import (
	"context"
	"fmt"
	"time"
)

type CallStatus string

const (
	CallSuccess CallStatus = "success"
	CallFailure CallStatus = "failure"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationFailed    ReservationStatus = "failed"
	ReservationPending   ReservationStatus = "pending"
)

type AvailabilityRequest struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Adults   int       `json:"adults"`
	Children int       `json:"children"`
}

type RatePlan struct {
	ID                 string   `json:"id"`
	AmountCents        int64    `json:"amount"`
	TaxCents           int64    `json:"tax"`
	MealPlan           string   `json:"mealPlan"`
	Inclusions         []string `json:"inclusions"`
	CancellationPolicy string   `json:"cancellationPolicy"`
}

// RoomAvailability reports one room type keyed by the CRS's own identifier.
type RoomAvailability struct {
	RoomTypeID     string     `json:"roomTypeId"`
	AvailableCount int        `json:"availableCount"`
	PriceCents     int64      `json:"price"`
	RatePlans      []RatePlan `json:"ratePlans"`
}

type AvailabilityResponse struct {
	Status  CallStatus         `json:"status"`
	Rooms   []RoomAvailability `json:"rooms"`
	Message string             `json:"message,omitempty"`
}

// RoomFor returns the availability line for one CRS room id.
func (r *AvailabilityResponse) RoomFor(crsRoomID string) (RoomAvailability, bool) {
	for _, room := range r.Rooms {
		if room.RoomTypeID == crsRoomID {
			return room, true
		}
	}
	return RoomAvailability{}, false
}

type PricingRequest struct {
	RoomID     string    `json:"roomId"`
	RatePlanID string    `json:"ratePlanId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Adults     int       `json:"adults"`
	Children   int       `json:"children"`
	Rooms      int       `json:"rooms"`
}

type NightRate struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount"`
}

type PricingResponse struct {
	Status         CallStatus  `json:"status"`
	TotalCents     int64       `json:"totalAmount"`
	TaxCents       int64       `json:"taxAmount"`
	NetCents       int64       `json:"netAmount"`
	IsPriceChanged bool        `json:"isPriceChanged"`
	Breakdown      []NightRate `json:"breakdown,omitempty"`
}

type ReservationRoom struct {
	RoomTypeID string `json:"roomTypeId"`
	RatePlanID string `json:"ratePlanId"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	GuestName  string `json:"guestName"`
}

type PrimaryGuest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Payment struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

type ReservationRequest struct {
	ReservationRef string            `json:"reservationRef"`
	CheckIn        time.Time         `json:"checkIn"`
	CheckOut       time.Time         `json:"checkOut"`
	Rooms          []ReservationRoom `json:"rooms"`
	PrimaryGuest   PrimaryGuest      `json:"primaryGuest"`
	Payment        Payment           `json:"payment"`
	Comments       string            `json:"comments,omitempty"`
}

type ReservationResponse struct {
	Status             ReservationStatus `json:"status"`
	ReservationID      string            `json:"reservationId"`
	ConfirmationNumber string            `json:"confirmationNumber"`
	Message            string            `json:"message,omitempty"`
	Errors             []string          `json:"errors,omitempty"`
}

// IsFullyConfirmed requires both external identifiers; anything less is
// treated as not confirmed regardless of the reported status.
func (r *ReservationResponse) IsFullyConfirmed() bool {
	return r.Status == ReservationConfirmed && r.ReservationID != "" && r.ConfirmationNumber != ""
}

// Provider is the port every CRS implementation satisfies. Callers reach it
// through the resilient decorator, never directly.
type Provider interface {
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error)
	GetPricing(ctx context.Context, req PricingRequest) (*PricingResponse, error)
	CreateReservation(ctx context.Context, req ReservationRequest) (*ReservationResponse, error)
}

// HTTPError is a non-2xx CRS response. 5xx and 429 are transient for the
// retry executor; everything else is fatal.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("crs returned status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
