package api

import (
	"errors"
	"net/http"

	reqdto "crs-booking-engine/internal/handler/dto/request"
	resdto "crs-booking-engine/internal/handler/dto/response"
	"crs-booking-engine/internal/handler/middleware"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/pkg/token"
	"crs-booking-engine/internal/usecase"
	"crs-booking-engine/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionUseCase usecase.SessionUseCase
	tokens         *token.Service
}

func NewSessionHandler(sessionUseCase usecase.SessionUseCase, tokens *token.Service) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		tokens:         tokens,
	}
}

// @Summary Create booking session
// @Description Open a shopping session for a stay window and guest party
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSessionRequest true "Stay dates and party size"
// @Success 201 {object} resdto.CreatedSessionResponse
// @Failure 400 {object} map[string]string
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.sessionUseCase.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	signed, err := h.tokens.Issue(view.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to issue session token",
		})
		return
	}

	sessionResp, err := resdto.FromSessionView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedSessionResponse{
		Token:   signed,
		Session: *sessionResp,
	})
}

// @Summary Get current session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SessionResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /sessions/current [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.sessionUseCase.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

// @Summary Add room selection
// @Description Place or replace a room type selection on the session cart
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SelectRoomRequest true "Room selection"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sessions/current/rooms [put]
func (h *SessionHandler) SelectRoom(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.SelectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.sessionUseCase.SelectRoom(c.Request.Context(), sessionID, req)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

// @Summary Change selection quantity
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ChangeQuantityRequest true "New quantity"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/current/rooms [patch]
func (h *SessionHandler) ChangeQuantity(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.sessionUseCase.ChangeQuantity(c.Request.Context(), sessionID, req)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

// @Summary Remove room selection
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param roomTypeId path string true "Room type ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/current/rooms/{roomTypeId} [delete]
func (h *SessionHandler) RemoveSelection(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	roomTypeID, err := uuid.Parse(c.Param("roomTypeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room type ID",
		})
		return
	}

	view, err := h.sessionUseCase.RemoveSelection(c.Request.Context(), sessionID, roomTypeID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

// @Summary Set guest details
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GuestDetailsRequest true "Guest contact details"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/current/guest [put]
func (h *SessionHandler) SetGuestDetails(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.GuestDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.sessionUseCase.SetGuestDetails(c.Request.Context(), sessionID, req)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

// @Summary Set add-ons
// @Description Replace the session add-on list
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SetAddOnsRequest true "Add-on entries"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/current/add-ons [put]
func (h *SessionHandler) SetAddOns(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.SetAddOnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.sessionUseCase.SetAddOns(c.Request.Context(), sessionID, req)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	h.respondSessionView(c, http.StatusOK, view)
}

func (h *SessionHandler) respondSessionView(c *gin.Context, status int, view *readmodel.SessionView) {
	resp, err := resdto.FromSessionView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(status, resp)
}

func (h *SessionHandler) respondSessionError(c *gin.Context, err error) {
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
	case errors.Is(err, usecase.ErrUnknownRoomType):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown room type",
		})
	case errors.Is(err, usecase.ErrSelectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Room type is not in the session cart",
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
