//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"crs-booking-engine/internal/handler/api"
	reqdto "crs-booking-engine/internal/handler/dto/request"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase/readmodel"
	"crs-booking-engine/tests/common/httptest"
	"crs-booking-engine/tests/common/testutil"
	usecasemock "crs-booking-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockUC   *usecasemock.MockAvailabilityUseCase
	handler  *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUC = usecasemock.NewMockAvailabilityUseCase(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockUC)

	s.router.POST("/availability", s.handler.Search)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestSearch() {
	url := "/availability"
	reqBody := reqdto.AvailabilitySearchRequest{
		CheckIn:  "2026-04-01",
		CheckOut: "2026-04-04",
		Adults:   2,
	}

	s.Run("success: returns 200 with bookable rooms", func() {
		s.mockUC.EXPECT().Search(gomock.Any(), gomock.Any()).
			Return(&readmodel.AvailabilityView{
				Rooms: []readmodel.RoomAvailabilityView{{
					RoomTypeID:     uuid.New(),
					Code:           "STD",
					Name:           "Standard Double",
					AvailableCount: 4,
					PriceCents:     12000,
				}},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Rooms, 1)
		s.Equal("STD", body.Rooms[0].Code)
		s.Equal(4, body.Rooms[0].AvailableCount)
	})

	s.Run("error: 400 on missing dates", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("checkIn", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 503 when the reservation system is down", func() {
		s.mockUC.EXPECT().Search(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrCircuitOpen).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}
