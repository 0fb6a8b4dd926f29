//go:build unit

package session_test

import (
	"testing"
	"time"

	"crs-booking-engine/internal/domain/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testCheckIn  = time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	testCheckOut = time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.NewSession(testCheckIn, testCheckOut, 2, 1, 10*time.Minute, testNow)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := newTestSession(t)
		assert.NotEqual(t, uuid.Nil, s.ID())
		assert.Equal(t, testNow.Add(10*time.Minute), s.ExpiresAt())
		assert.Equal(t, 2, s.Nights())
		assert.ErrorIs(t, s.RequireSelections(), session.ErrEmptyCart)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		_, err := session.NewSession(testCheckOut, testCheckIn, 2, 0, 10*time.Minute, testNow)
		assert.ErrorIs(t, err, session.ErrInvalidStayDates)
	})

	t.Run("no adults", func(t *testing.T) {
		_, err := session.NewSession(testCheckIn, testCheckOut, 0, 1, 10*time.Minute, testNow)
		assert.ErrorIs(t, err, session.ErrInvalidParty)
	})
}

func TestExpiry(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.IsExpired(testNow.Add(9*time.Minute)))
	assert.True(t, s.IsExpired(testNow.Add(11*time.Minute)))

	s.Touch(10*time.Minute, testNow.Add(9*time.Minute))
	assert.False(t, s.IsExpired(testNow.Add(11*time.Minute)))
}

func TestSelectRoom(t *testing.T) {
	s := newTestSession(t)
	roomTypeID := uuid.New()
	quote := session.PriceQuote{TotalCents: 10000, TaxCents: 1000, CapturedAt: testNow}

	require.NoError(t, s.SelectRoom(roomTypeID, "RP-STD", 2, quote))
	require.NoError(t, s.RequireSelections())
	assert.Equal(t, 2, s.TotalRooms())
	assert.Equal(t, int64(10000), s.QuotedSubtotalCents())

	t.Run("re-selecting replaces the line", func(t *testing.T) {
		newQuote := session.PriceQuote{TotalCents: 12000, TaxCents: 1200, CapturedAt: testNow}
		require.NoError(t, s.SelectRoom(roomTypeID, "RP-FLEX", 1, newQuote))
		selection, ok := s.Selection(roomTypeID)
		require.True(t, ok)
		assert.Equal(t, "RP-FLEX", selection.RatePlanID)
		assert.Equal(t, 1, selection.Quantity)
		assert.Len(t, s.Selections(), 1)
	})

	t.Run("quantity bounds", func(t *testing.T) {
		assert.ErrorIs(t, s.SelectRoom(uuid.New(), "RP-STD", 0, quote), session.ErrInvalidQuantity)
		assert.ErrorIs(t, s.SelectRoom(uuid.New(), "RP-STD", 9, quote), session.ErrInvalidQuantity)
	})
}

func TestChangeQuantityRescalesQuote(t *testing.T) {
	s := newTestSession(t)
	roomTypeID := uuid.New()
	captured := testNow.Add(-time.Minute)
	quote := session.PriceQuote{TotalCents: 10000, TaxCents: 1000, CapturedAt: captured}
	require.NoError(t, s.SelectRoom(roomTypeID, "RP-STD", 2, quote))

	later := testNow.Add(time.Minute)
	require.NoError(t, s.ChangeQuantity(roomTypeID, 3, later))

	selection, ok := s.Selection(roomTypeID)
	require.True(t, ok)
	assert.Equal(t, 3, selection.Quantity)
	assert.Equal(t, int64(15000), selection.Quote.TotalCents)
	assert.Equal(t, int64(1500), selection.Quote.TaxCents)
	assert.Equal(t, later, selection.Quote.CapturedAt)

	t.Run("unknown room type", func(t *testing.T) {
		assert.ErrorIs(t, s.ChangeQuantity(uuid.New(), 2, later), session.ErrSelectionMissing)
	})

	t.Run("rounding", func(t *testing.T) {
		oddID := uuid.New()
		require.NoError(t, s.SelectRoom(oddID, "RP-STD", 3, session.PriceQuote{TotalCents: 10001, CapturedAt: captured}))
		require.NoError(t, s.ChangeQuantity(oddID, 2, later))
		selection, ok := s.Selection(oddID)
		require.True(t, ok)
		// 10001 / 3 * 2 = 6667.33..., rounded
		assert.Equal(t, int64(6667), selection.Quote.TotalCents)
	})
}

func TestRemoveSelection(t *testing.T) {
	s := newTestSession(t)
	roomTypeID := uuid.New()
	require.NoError(t, s.SelectRoom(roomTypeID, "RP-STD", 1, session.PriceQuote{TotalCents: 5000}))

	require.NoError(t, s.RemoveSelection(roomTypeID))
	assert.ErrorIs(t, s.RequireSelections(), session.ErrEmptyCart)
	assert.ErrorIs(t, s.RemoveSelection(roomTypeID), session.ErrSelectionMissing)
}

func TestGuestDraftAndAddOns(t *testing.T) {
	s := newTestSession(t)
	s.SetGuestDraft(session.GuestDraft{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NotNil(t, s.GuestDraft())
	assert.Equal(t, "ada@example.com", s.GuestDraft().Email)

	s.SetAddOns([]session.AddOn{{Code: "BRK", Name: "Breakfast", Quantity: 2, PriceCents: 1500}})
	assert.Len(t, s.AddOns(), 1)
}
