package api

import (
	"errors"
	"net/http"

	reqdto "crs-booking-engine/internal/handler/dto/request"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityUseCase usecase.AvailabilityUseCase
}

func NewAvailabilityHandler(availabilityUseCase usecase.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
	}
}

// @Summary Search availability
// @Description List bookable room types for a stay window, net of holds
// @Tags availability
// @Accept json
// @Produce json
// @Param request body reqdto.AvailabilitySearchRequest true "Stay dates and party size"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /availability [post]
func (h *AvailabilityHandler) Search(c *gin.Context) {
	var req reqdto.AvailabilitySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.availabilityUseCase.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCircuitOpen), errors.Is(err, errs.ErrProviderTransient):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Reservation system temporarily unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	resp, err := resdto.FromAvailabilityView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
