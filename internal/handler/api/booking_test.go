//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"crs-booking-engine/internal/handler/api"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/pkg/token"
	"crs-booking-engine/internal/usecase/readmodel"
	"crs-booking-engine/tests/common/builder"
	"crs-booking-engine/tests/common/httptest"
	"crs-booking-engine/tests/common/testutil"
	usecasemock "crs-booking-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockUC    *usecasemock.MockBookingUseCase
	tokens    *token.Service
	handler   *api.BookingHandler
	sessionID uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUC = usecasemock.NewMockBookingUseCase(s.mockCtrl)
	s.tokens = token.NewService("test-session-secret", 10*time.Minute)
	s.handler = api.NewBookingHandler(s.mockUC)
	s.sessionID = uuid.New()

	sessionMw := middleware.NewSessionMiddleware(s.tokens)

	s.router.POST("/bookings", sessionMw.RequireSession(), s.handler.FinalizeBooking)
	s.router.GET("/bookings/:id", s.handler.GetBooking)
	s.router.GET("/bookings/number/:number", s.handler.GetBookingByNumber)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) sessionToken() string {
	signed, err := s.tokens.Issue(s.sessionID)
	s.Require().NoError(err)
	return signed
}

func sampleBookingView() *readmodel.BookingView {
	return &readmodel.BookingView{
		ID:            uuid.New(),
		BookingNumber: "BK-20260310-000042",
		Status:        "pending_payment",
		GuestName:     "Aiko Tanaka",
		GuestEmail:    "aiko.tanaka@example.com",
		CheckIn:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		SubtotalCents: 36000,
		TaxCents:      3600,
		TotalCents:    39600,
		Items: []readmodel.BookingItemView{{
			RoomTypeID:    uuid.New(),
			RatePlanID:    "RP-STD",
			Quantity:      1,
			Nights:        3,
			SubtotalCents: 36000,
		}},
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (s *BookingHandlerTestSuite) TestFinalizeBooking() {
	url := "/bookings"
	reqBody := builder.NewBookingBuilder().BuildFinalizeRequestDTO()

	s.Run("success: returns 201 with the created booking", func() {
		view := sampleBookingView()
		s.mockUC.EXPECT().FinalizeBooking(gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.sessionToken())

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.BookingNumber, body.BookingNumber)
		s.Equal("pending_payment", body.Status)
		s.Equal(int64(39600), body.TotalCents)
	})

	s.Run("error: 401 Unauthorized without a session token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 400 on invalid payment method", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody)
		payment, ok := requestMap["payment"].(map[string]any)
		s.Require().True(ok)
		payment["method"] = "crypto"

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, s.sessionToken())
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name       string
			ucError    error
			expectCode int
		}{
			{name: "session gone", ucError: errs.ErrSessionNotFound, expectCode: http.StatusNotFound},
			{name: "session expired", ucError: errs.ErrSessionExpired, expectCode: http.StatusGone},
			{name: "empty cart", ucError: errs.ErrEmptyCart, expectCode: http.StatusUnprocessableEntity},
			{name: "occupancy violated", ucError: errs.ErrInvalidOccupancy, expectCode: http.StatusUnprocessableEntity},
			{name: "availability lost", ucError: errs.ErrNoAvailability, expectCode: http.StatusConflict},
			{name: "duplicate in flight", ucError: errs.ErrIdempotencyInProgress, expectCode: http.StatusConflict},
			{name: "circuit open", ucError: errs.ErrCircuitOpen, expectCode: http.StatusServiceUnavailable},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockUC.EXPECT().FinalizeBooking(gomock.Any(), gomock.Any()).
					Return(nil, tc.ucError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.sessionToken())
				s.Equal(tc.expectCode, rec.Code, rec.Body.String())
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := sampleBookingView()

	s.Run("success: returns 200", func() {
		s.mockUC.EXPECT().GetBooking(gomock.Any(), view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/nope", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 when missing", func() {
		missingID := uuid.New()
		s.mockUC.EXPECT().GetBooking(gomock.Any(), missingID).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+missingID.String(), nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetBookingByNumber() {
	view := sampleBookingView()

	s.Run("success: returns 200", func() {
		s.mockUC.EXPECT().GetBookingByNumber(gomock.Any(), view.BookingNumber).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/number/"+view.BookingNumber, nil, "")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.BookingNumber, body.BookingNumber)
	})

	s.Run("error: 404 when missing", func() {
		s.mockUC.EXPECT().GetBookingByNumber(gomock.Any(), "BK-NOPE").
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/number/BK-NOPE", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
