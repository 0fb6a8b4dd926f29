// Package occupancy validates a guest mix against room-type limits and
// distributes guests across the rooms a booking requests. All functions are
// pure; the CRS availability check stays the authoritative inventory gate.
package occupancy

import (
	"errors"
	"fmt"
)

var (
	ErrFewerAdultsThanRooms = errors.New("each room requires at least one adult")
	ErrTooManyGuests        = errors.New("guest count exceeds room capacity")
	ErrTooManyAdults        = errors.New("adult count exceeds room capacity")
	ErrTooManyChildren      = errors.New("child count exceeds room capacity")
	ErrBelowMinOccupancy    = errors.New("guest count below minimum occupancy")
	ErrNoRooms              = errors.New("at least one room is required")
)

// Limits are the per-room occupancy constraints of a room type.
type Limits struct {
	MinOccupancy int
	MaxGuests    int
	MaxAdults    int
	MaxChildren  int
}

type Party struct {
	Adults   int
	Children int
}

func (p Party) Total() int {
	return p.Adults + p.Children
}

// Allocation is one selected room type with its requested room count, used
// when validating a mixed-room-type booking as a whole.
type Allocation struct {
	Limits    Limits
	RoomCount int
}

// RoomOccupancy is the per-physical-room guest split sent to the CRS.
type RoomOccupancy struct {
	Adults   int
	Children int
}

// Validate checks a guest mix against one room type at the given room count.
func Validate(limits Limits, roomCount int, party Party) error {
	return ValidateAcross([]Allocation{{Limits: limits, RoomCount: roomCount}}, party)
}

// ValidateAcross checks the combined capacity of every selected room type
// against the whole party; a booking may span multiple room types, so the
// limits are summed rather than applied per line.
func ValidateAcross(allocations []Allocation, party Party) error {
	totalRooms := 0
	maxGuests, maxAdults, maxChildren, minOccupancy := 0, 0, 0, 0
	for _, a := range allocations {
		if a.RoomCount < 1 {
			return ErrNoRooms
		}
		totalRooms += a.RoomCount
		maxGuests += a.Limits.MaxGuests * a.RoomCount
		maxAdults += a.Limits.MaxAdults * a.RoomCount
		maxChildren += a.Limits.MaxChildren * a.RoomCount
		minOccupancy += a.Limits.MinOccupancy * a.RoomCount
	}
	if totalRooms == 0 {
		return ErrNoRooms
	}

	if party.Adults < totalRooms {
		return fmt.Errorf("%w: %d adults for %d rooms", ErrFewerAdultsThanRooms, party.Adults, totalRooms)
	}
	if party.Total() > maxGuests {
		return fmt.Errorf("%w: %d guests, capacity %d", ErrTooManyGuests, party.Total(), maxGuests)
	}
	if party.Adults > maxAdults {
		return fmt.Errorf("%w: %d adults, capacity %d", ErrTooManyAdults, party.Adults, maxAdults)
	}
	if party.Children > maxChildren {
		return fmt.Errorf("%w: %d children, capacity %d", ErrTooManyChildren, party.Children, maxChildren)
	}
	if party.Total() < minOccupancy {
		return fmt.Errorf("%w: %d guests, minimum %d", ErrBelowMinOccupancy, party.Total(), minOccupancy)
	}

	return nil
}

// Distribute splits the party across roomCount rooms: every room gets at
// least one adult, remaining adults round-robin, then children round-robin.
func Distribute(roomCount int, party Party) []RoomOccupancy {
	if roomCount < 1 {
		return nil
	}

	rooms := make([]RoomOccupancy, roomCount)
	adultsLeft := party.Adults
	for i := range rooms {
		if adultsLeft == 0 {
			break
		}
		rooms[i].Adults = 1
		adultsLeft--
	}
	for i := 0; adultsLeft > 0; i = (i + 1) % roomCount {
		rooms[i].Adults++
		adultsLeft--
	}
	for i, childrenLeft := 0, party.Children; childrenLeft > 0; i = (i + 1) % roomCount {
		rooms[i].Children++
		childrenLeft--
	}

	return rooms
}
