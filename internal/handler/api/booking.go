package api

import (
	"errors"
	"net/http"

	reqdto "crs-booking-engine/internal/handler/dto/request"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Finalize booking
// @Description Convert the current session cart into a booking awaiting payment
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FinalizeBookingRequest true "Guest details and payment intent"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) FinalizeBooking(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.FinalizeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	req.SessionID = sessionID

	view, err := h.bookingUseCase.FinalizeBooking(c.Request.Context(), req)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.respondBookingView(c, http.StatusCreated, view)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	view, err := h.bookingUseCase.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.respondBookingView(c, http.StatusOK, view)
}

// @Summary Get booking by number
// @Tags bookings
// @Produce json
// @Param number path string true "Booking number"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/number/{number} [get]
func (h *BookingHandler) GetBookingByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Booking number required",
		})
		return
	}

	view, err := h.bookingUseCase.GetBookingByNumber(c.Request.Context(), number)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	h.respondBookingView(c, http.StatusOK, view)
}

func (h *BookingHandler) respondBookingView(c *gin.Context, status int, view *readmodel.BookingView) {
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(status, resp)
}

func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var shortfall *usecase.AvailabilityShortfallError

	switch {
	case errors.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
	case errors.Is(err, errs.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{
			"error": "Session expired",
		})
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, errs.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Session has no room selections",
		})
	case errors.Is(err, usecase.ErrMissingGuestDetail):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Guest details are required",
		})
	case errors.Is(err, usecase.ErrUnknownRoomType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Session references an unknown room type",
		})
	case errors.Is(err, errs.ErrInvalidOccupancy):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Party size does not fit the selected rooms",
		})
	case errors.As(err, &shortfall) || errors.Is(err, errs.ErrNoAvailability):
		body := gin.H{"error": "Not enough rooms available"}
		if errors.As(err, &shortfall) {
			body["requested"] = shortfall.Requested
			body["remaining"] = shortfall.Remaining
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A matching finalize request is already in flight",
		})
	case errors.Is(err, errs.ErrCircuitOpen), errors.Is(err, errs.ErrProviderTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Reservation system temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
