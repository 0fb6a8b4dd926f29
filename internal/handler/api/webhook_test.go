//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/handler/api"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/tests/common/builder"
	"crs-booking-engine/tests/common/httptest"
	"crs-booking-engine/tests/common/testutil"
	usecasemock "crs-booking-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockUC   *usecasemock.MockWebhookUseCase
	handler  *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUC = usecasemock.NewMockWebhookUseCase(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockUC)

	s.router.POST("/webhooks/payment", s.handler.HandlePayment)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestHandlePayment() {
	url := "/webhooks/payment"
	bookingID := uuid.New()
	reqBody := builder.NewBookingBuilder().BuildWebhookRequestDTO(bookingID)

	s.Run("success: 200 with confirmation details", func() {
		s.mockUC.EXPECT().ConfirmBooking(gomock.Any(), bookingID, reqBody.Reference).
			Return(&usecase.WebhookResult{
				Outcome:            usecase.OutcomeConfirmed,
				BookingID:          bookingID,
				Status:             booking.StatusConfirmed,
				ConfirmationNumber: "CNF-1234",
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.WebhookResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Outcome)
		s.Require().NotNil(body.ConfirmationNumber)
		s.Equal("CNF-1234", *body.ConfirmationNumber)
	})

	s.Run("success: 202 Accepted when confirmation is pending retry", func() {
		s.mockUC.EXPECT().ConfirmBooking(gomock.Any(), bookingID, reqBody.Reference).
			Return(&usecase.WebhookResult{
				Outcome:   usecase.OutcomePendingRetry,
				BookingID: bookingID,
				Status:    booking.StatusBookingRequested,
				Detail:    "crs timeout",
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.WebhookResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Equal("pending_retry", body.Outcome)
	})

	s.Run("success: failed payment events are acknowledged without confirming", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("status", "failed"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"outcome":"ignored"`)
	})

	s.Run("error: 400 without a booking id", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("bookingId", nil))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name       string
			ucError    error
			expectCode int
		}{
			{name: "booking missing", ucError: errs.ErrBookingNotFound, expectCode: http.StatusNotFound},
			{name: "concurrent delivery", ucError: usecase.ErrWebhookConflict, expectCode: http.StatusConflict},
			{name: "not awaiting payment", ucError: usecase.ErrBookingUnpayable, expectCode: http.StatusUnprocessableEntity},
			{name: "crs rejected", ucError: errs.ErrProviderFatal, expectCode: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockUC.EXPECT().ConfirmBooking(gomock.Any(), bookingID, reqBody.Reference).
					Return(nil, tc.ucError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				s.Equal(tc.expectCode, rec.Code, rec.Body.String())
			})
		}
	})
}
