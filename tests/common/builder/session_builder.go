//go:build unit || e2e

package builder

import (
	"time"

	domsession "crs-booking-engine/internal/domain/session"
	reqdto "crs-booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type SessionBuilder struct {
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
	TTL      time.Duration
	Now      time.Time
}

func NewSessionBuilder() *SessionBuilder {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &SessionBuilder{
		CheckIn:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		Adults:   2,
		Children: 0,
		TTL:      10 * time.Minute,
		Now:      now,
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

func (b *SessionBuilder) BuildDomain() (*domsession.Session, error) {
	return domsession.NewSession(b.CheckIn, b.CheckOut, b.Adults, b.Children, b.TTL, b.Now)
}

func (b *SessionBuilder) BuildCreateRequestDTO() reqdto.CreateSessionRequest {
	return reqdto.CreateSessionRequest{
		CheckIn:  b.CheckIn.Format("2006-01-02"),
		CheckOut: b.CheckOut.Format("2006-01-02"),
		Adults:   b.Adults,
		Children: b.Children,
	}
}

func (b *SessionBuilder) BuildSelectRoomRequestDTO(roomTypeID uuid.UUID) reqdto.SelectRoomRequest {
	return reqdto.SelectRoomRequest{
		RoomTypeID: roomTypeID,
		RatePlanID: "RP-STD",
		Quantity:   1,
	}
}

func (b *SessionBuilder) BuildGuestDetailsRequestDTO() reqdto.GuestDetailsRequest {
	return reqdto.GuestDetailsRequest{
		FirstName: "Aiko",
		LastName:  "Tanaka",
		Email:     "aiko.tanaka@example.com",
		Phone:     "+81-90-1234-5678",
	}
}
