package booking

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStayDates = errors.New("check-out must be after check-in")
	ErrInvalidParty     = errors.New("at least one adult is required")
	ErrNoItems          = errors.New("booking requires at least one room item")
	ErrMissingGuest     = errors.New("primary guest name and email are required")
)

// Item is one room-type line of a booking.
type Item struct {
	ID            uuid.UUID
	RoomTypeID    uuid.UUID
	RatePlanID    string
	Quantity      int
	Nights        int
	SubtotalCents int64
}

// AddOn is an optional extra attached to the booking as a whole.
type AddOn struct {
	ID         uuid.UUID
	Code       string
	Name       string
	Quantity   int
	PriceCents int64
}

// Guest is a snapshot of guest identity captured at finalize time.
type Guest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Booking is the durable reservation record driven through the state machine.
// It is created once in StatusInitiated and never deleted; failed, expired
// and cancelled bookings are retained for audit.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	status        Status
	version       int32
	guest         Guest
	checkIn       time.Time
	checkOut      time.Time
	adults        int
	children      int
	subtotalCents int64
	taxCents      int64
	totalCents    int64
	items         []Item
	addOns        []AddOn

	confirmationNumber    *string
	externalReservationID *string
	cancelReason          *string
	confirmedAt           *time.Time
	cancelledAt           *time.Time
	createdAt             time.Time
	updatedAt             time.Time
}

func NewBooking(
	guest Guest,
	checkIn, checkOut time.Time,
	adults, children int,
	subtotalCents, taxCents int64,
	items []Item,
	addOns []AddOn,
	now time.Time,
) (*Booking, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidStayDates
	}
	if adults < 1 || children < 0 {
		return nil, ErrInvalidParty
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if guest.FullName() == "" || strings.TrimSpace(guest.Email) == "" {
		return nil, ErrMissingGuest
	}

	totalCents := subtotalCents + taxCents
	for _, addOn := range addOns {
		totalCents += addOn.PriceCents * int64(addOn.Quantity)
	}

	return &Booking{
		id:            uuid.New(),
		bookingNumber: newBookingNumber(now),
		status:        StatusInitiated,
		version:       1,
		guest:         guest,
		checkIn:       checkIn,
		checkOut:      checkOut,
		adults:        adults,
		children:      children,
		subtotalCents: subtotalCents,
		taxCents:      taxCents,
		totalCents:    totalCents,
		items:         items,
		addOns:        addOns,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	status Status,
	version int32,
	guest Guest,
	checkIn, checkOut time.Time,
	adults, children int,
	subtotalCents, taxCents, totalCents int64,
	items []Item,
	addOns []AddOn,
	confirmationNumber, externalReservationID, cancelReason *string,
	confirmedAt, cancelledAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                    id,
		bookingNumber:         bookingNumber,
		status:                status.Normalize(),
		version:               version,
		guest:                 guest,
		checkIn:               checkIn,
		checkOut:              checkOut,
		adults:                adults,
		children:              children,
		subtotalCents:         subtotalCents,
		taxCents:              taxCents,
		totalCents:            totalCents,
		items:                 items,
		addOns:                addOns,
		confirmationNumber:    confirmationNumber,
		externalReservationID: externalReservationID,
		cancelReason:          cancelReason,
		confirmedAt:           confirmedAt,
		cancelledAt:           cancelledAt,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// HasConfirmation reports whether a prior webhook run already recorded both
// identifiers from the CRS; such a booking must not trigger a second
// reservation call.
func (b *Booking) HasConfirmation() bool {
	return b.confirmationNumber != nil && *b.confirmationNumber != "" &&
		b.externalReservationID != nil && *b.externalReservationID != ""
}

func (b *Booking) Nights() int {
	return int(b.checkOut.Sub(b.checkIn).Hours() / 24)
}

func (b *Booking) TotalRooms() int {
	rooms := 0
	for _, item := range b.items {
		rooms += item.Quantity
	}
	return rooms
}

func (b *Booking) ID() uuid.UUID                   { return b.id }
func (b *Booking) BookingNumber() string           { return b.bookingNumber }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) Version() int32                  { return b.version }
func (b *Booking) Guest() Guest                    { return b.guest }
func (b *Booking) CheckIn() time.Time              { return b.checkIn }
func (b *Booking) CheckOut() time.Time             { return b.checkOut }
func (b *Booking) Adults() int                     { return b.adults }
func (b *Booking) Children() int                   { return b.children }
func (b *Booking) SubtotalCents() int64            { return b.subtotalCents }
func (b *Booking) TaxCents() int64                 { return b.taxCents }
func (b *Booking) TotalCents() int64               { return b.totalCents }
func (b *Booking) Items() []Item                   { return b.items }
func (b *Booking) AddOns() []AddOn                 { return b.addOns }
func (b *Booking) ConfirmationNumber() *string     { return b.confirmationNumber }
func (b *Booking) ExternalReservationID() *string  { return b.externalReservationID }
func (b *Booking) CancelReason() *string           { return b.cancelReason }
func (b *Booking) ConfirmedAt() *time.Time         { return b.confirmedAt }
func (b *Booking) CancelledAt() *time.Time         { return b.cancelledAt }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }

// newBookingNumber builds the externally shown reference, e.g. BK-20260301-4F2A9C.
func newBookingNumber(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte{byte(now.UnixNano()), byte(now.UnixNano() >> 8), byte(now.UnixNano() >> 16)}
	}
	return "BK-" + now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(suffix))
}
