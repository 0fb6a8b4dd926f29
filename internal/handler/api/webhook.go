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

type WebhookHandler struct {
	webhookUseCase usecase.WebhookUseCase
}

func NewWebhookHandler(webhookUseCase usecase.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		webhookUseCase: webhookUseCase,
	}
}

// @Summary Payment gateway callback
// @Description Drive a booking through CRS confirmation after a captured payment
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentWebhookRequest true "Gateway payment event"
// @Success 200 {object} resdto.WebhookResultResponse
// @Success 202 {object} resdto.WebhookResultResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	// Non-success events are acknowledged so the gateway stops retrying them;
	// the booking times out through its own expiry path.
	if !req.IsSuccess() {
		c.JSON(http.StatusOK, gin.H{
			"outcome": "ignored",
			"status":  req.Status,
		})
		return
	}

	result, err := h.webhookUseCase.ConfirmBooking(c.Request.Context(), req.BookingID, req.Reference)
	if err != nil {
		h.respondWebhookError(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == usecase.OutcomePendingRetry {
		// 202 tells the gateway the event was accepted but confirmation is
		// still pending, so it should redeliver later.
		status = http.StatusAccepted
	}
	c.JSON(status, resdto.FromWebhookResult(result))
}

func (h *WebhookHandler) respondWebhookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, usecase.ErrWebhookConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is being confirmed by another worker",
		})
	case errors.Is(err, usecase.ErrBookingUnpayable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking is not awaiting payment",
		})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking state does not allow confirmation",
		})
	case errors.Is(err, errs.ErrProviderFatal):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Reservation was rejected by the reservation system",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
