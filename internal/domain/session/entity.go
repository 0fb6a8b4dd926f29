package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStayDates = errors.New("check-out must be after check-in")
	ErrInvalidParty     = errors.New("at least one adult is required")
	ErrSelectionMissing = errors.New("room type not selected")
	ErrInvalidQuantity  = errors.New("room quantity out of range")
	ErrEmptyCart        = errors.New("session has no room selections")
)

// MaxRoomsPerSelection bounds a single line; larger requests go through a
// group-booking channel outside this system.
const MaxRoomsPerSelection = 8

// PriceQuote is the price snapshot captured when a room was selected.
type PriceQuote struct {
	TotalCents int64     `json:"totalCents"`
	TaxCents   int64     `json:"taxCents"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Rescale adjusts a quote proportionally for a quantity change and re-stamps
// the capture time, so the per-unit price is never silently stale.
func (q PriceQuote) Rescale(oldQty, newQty int, now time.Time) PriceQuote {
	if oldQty < 1 {
		oldQty = 1
	}
	return PriceQuote{
		TotalCents: roundedScale(q.TotalCents, oldQty, newQty),
		TaxCents:   roundedScale(q.TaxCents, oldQty, newQty),
		CapturedAt: now,
	}
}

func roundedScale(total int64, oldQty, newQty int) int64 {
	scaled := total * int64(newQty)
	return (scaled + int64(oldQty)/2) / int64(oldQty)
}

type RoomSelection struct {
	RoomTypeID uuid.UUID  `json:"roomTypeId"`
	RatePlanID string     `json:"ratePlanId"`
	Quantity   int        `json:"quantity"`
	Quote      PriceQuote `json:"quote"`
}

type GuestDraft struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type AddOn struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// Session is one shopper's ephemeral pre-payment state. Expiry slides
// forward on every read or write and is enforced by comparing now against
// ExpiresAt on access, never by a background sweep.
type Session struct {
	id         uuid.UUID
	checkIn    time.Time
	checkOut   time.Time
	adults     int
	children   int
	selections []RoomSelection
	guestDraft *GuestDraft
	addOns     []AddOn
	expiresAt  time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewSession(checkIn, checkOut time.Time, adults, children int, ttl time.Duration, now time.Time) (*Session, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidStayDates
	}
	if adults < 1 || children < 0 {
		return nil, ErrInvalidParty
	}

	return &Session{
		id:        uuid.New(),
		checkIn:   checkIn,
		checkOut:  checkOut,
		adults:    adults,
		children:  children,
		expiresAt: now.Add(ttl),
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructSession(
	id uuid.UUID,
	checkIn, checkOut time.Time,
	adults, children int,
	selections []RoomSelection,
	guestDraft *GuestDraft,
	addOns []AddOn,
	expiresAt, createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:         id,
		checkIn:    checkIn,
		checkOut:   checkOut,
		adults:     adults,
		children:   children,
		selections: selections,
		guestDraft: guestDraft,
		addOns:     addOns,
		expiresAt:  expiresAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// Touch slides the expiry window forward.
func (s *Session) Touch(ttl time.Duration, now time.Time) {
	s.expiresAt = now.Add(ttl)
	s.updatedAt = now
}

// SelectRoom adds or replaces the selection for a room type, capturing the
// quoted price at selection time.
func (s *Session) SelectRoom(roomTypeID uuid.UUID, ratePlanID string, quantity int, quote PriceQuote) error {
	if quantity < 1 || quantity > MaxRoomsPerSelection {
		return ErrInvalidQuantity
	}

	selection := RoomSelection{
		RoomTypeID: roomTypeID,
		RatePlanID: ratePlanID,
		Quantity:   quantity,
		Quote:      quote,
	}
	for i, existing := range s.selections {
		if existing.RoomTypeID == roomTypeID {
			s.selections[i] = selection
			return nil
		}
	}
	s.selections = append(s.selections, selection)
	return nil
}

// ChangeQuantity rescales the captured quote proportionally rather than
// keeping a stale per-unit price.
func (s *Session) ChangeQuantity(roomTypeID uuid.UUID, quantity int, now time.Time) error {
	if quantity < 1 || quantity > MaxRoomsPerSelection {
		return ErrInvalidQuantity
	}

	for i, selection := range s.selections {
		if selection.RoomTypeID == roomTypeID {
			s.selections[i].Quote = selection.Quote.Rescale(selection.Quantity, quantity, now)
			s.selections[i].Quantity = quantity
			return nil
		}
	}
	return ErrSelectionMissing
}

func (s *Session) RemoveSelection(roomTypeID uuid.UUID) error {
	for i, selection := range s.selections {
		if selection.RoomTypeID == roomTypeID {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			return nil
		}
	}
	return ErrSelectionMissing
}

func (s *Session) SetGuestDraft(draft GuestDraft) {
	s.guestDraft = &draft
}

func (s *Session) SetAddOns(addOns []AddOn) {
	s.addOns = addOns
}

// RequireSelections guards the invariant that an empty cart cannot advance
// past the selection step.
func (s *Session) RequireSelections() error {
	if len(s.selections) == 0 {
		return ErrEmptyCart
	}
	return nil
}

func (s *Session) TotalRooms() int {
	rooms := 0
	for _, selection := range s.selections {
		rooms += selection.Quantity
	}
	return rooms
}

func (s *Session) QuotedSubtotalCents() int64 {
	var total int64
	for _, selection := range s.selections {
		total += selection.Quote.TotalCents
	}
	return total
}

func (s *Session) Selection(roomTypeID uuid.UUID) (RoomSelection, bool) {
	for _, selection := range s.selections {
		if selection.RoomTypeID == roomTypeID {
			return selection, true
		}
	}
	return RoomSelection{}, false
}

func (s *Session) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

func (s *Session) ID() uuid.UUID               { return s.id }
func (s *Session) CheckIn() time.Time          { return s.checkIn }
func (s *Session) CheckOut() time.Time         { return s.checkOut }
func (s *Session) Adults() int                 { return s.adults }
func (s *Session) Children() int               { return s.children }
func (s *Session) Selections() []RoomSelection { return s.selections }
func (s *Session) GuestDraft() *GuestDraft     { return s.guestDraft }
func (s *Session) AddOns() []AddOn             { return s.addOns }
func (s *Session) ExpiresAt() time.Time        { return s.expiresAt }
func (s *Session) CreatedAt() time.Time        { return s.createdAt }
func (s *Session) UpdatedAt() time.Time        { return s.updatedAt }
