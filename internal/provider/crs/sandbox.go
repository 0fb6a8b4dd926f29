package crs

import (
	"context"
	"fmt"
	"sync"
)

// SandboxRoom seeds one room type in the sandbox inventory.
type SandboxRoom struct {
	RoomTypeID string
	Available  int
	PriceCents int64
	TaxCents   int64
	RatePlans  []RatePlan
}

// Sandbox is a deterministic in-memory CRS used by tests and by
// CRS_MODE=sandbox deployments. Reservations decrement availability so
// end-to-end flows observe real inventory movement.
type Sandbox struct {
	mu           sync.Mutex
	rooms        map[string]*SandboxRoom
	reservations int

	// Failure injection for tests.
	NextError       error
	NextReservation *ReservationResponse
}

func NewSandbox(rooms ...SandboxRoom) *Sandbox {
	s := &Sandbox{rooms: make(map[string]*SandboxRoom, len(rooms))}
	for _, room := range rooms {
		r := room
		if len(r.RatePlans) == 0 {
			r.RatePlans = []RatePlan{{
				ID:                 "RP-STD",
				AmountCents:        r.PriceCents,
				TaxCents:           r.TaxCents,
				MealPlan:           "room_only",
				CancellationPolicy: "free_until_24h",
			}}
		}
		s.rooms[r.RoomTypeID] = &r
	}
	return s
}

func (s *Sandbox) CheckAvailability(_ context.Context, _ AvailabilityRequest) (*AvailabilityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeError(); err != nil {
		return nil, err
	}

	resp := &AvailabilityResponse{Status: CallSuccess}
	for _, room := range s.rooms {
		resp.Rooms = append(resp.Rooms, RoomAvailability{
			RoomTypeID:     room.RoomTypeID,
			AvailableCount: room.Available,
			PriceCents:     room.PriceCents,
			RatePlans:      room.RatePlans,
		})
	}
	return resp, nil
}

func (s *Sandbox) GetPricing(_ context.Context, req PricingRequest) (*PricingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeError(); err != nil {
		return nil, err
	}

	room, ok := s.rooms[req.RoomID]
	if !ok {
		return &PricingResponse{Status: CallFailure}, nil
	}

	nights := int64(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	total := room.PriceCents * nights * int64(req.Rooms)
	tax := room.TaxCents * nights * int64(req.Rooms)
	return &PricingResponse{
		Status:     CallSuccess,
		TotalCents: total + tax,
		TaxCents:   tax,
		NetCents:   total,
	}, nil
}

func (s *Sandbox) CreateReservation(_ context.Context, req ReservationRequest) (*ReservationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeError(); err != nil {
		return nil, err
	}
	if s.NextReservation != nil {
		resp := s.NextReservation
		s.NextReservation = nil
		return resp, nil
	}

	counts := make(map[string]int)
	for _, room := range req.Rooms {
		counts[room.RoomTypeID]++
	}
	for roomTypeID, needed := range counts {
		room, ok := s.rooms[roomTypeID]
		if !ok {
			return &ReservationResponse{
				Status:  ReservationFailed,
				Message: "unknown room type " + roomTypeID,
			}, nil
		}
		if room.Available < needed {
			return &ReservationResponse{
				Status:  ReservationFailed,
				Message: fmt.Sprintf("no availability for %s: %d remaining", roomTypeID, room.Available),
			}, nil
		}
	}
	for roomTypeID, needed := range counts {
		s.rooms[roomTypeID].Available -= needed
	}

	s.reservations++
	return &ReservationResponse{
		Status:             ReservationConfirmed,
		ReservationID:      fmt.Sprintf("SBX-RES-%06d", s.reservations),
		ConfirmationNumber: fmt.Sprintf("CNF-%06d", s.reservations),
	}, nil
}

// Available reports remaining sandbox inventory for assertions in tests.
func (s *Sandbox) Available(roomTypeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[roomTypeID]; ok {
		return room.Available
	}
	return 0
}

// ReservationCalls reports how many reservations the sandbox accepted.
func (s *Sandbox) ReservationCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations
}

// takeError assumes s.mu is held.
func (s *Sandbox) takeError() error {
	if s.NextError != nil {
		err := s.NextError
		s.NextError = nil
		return err
	}
	return nil
}
