package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serviqo/middleware"
	"serviqo/models"
	"serviqo/services/quote"
	"serviqo/utils"
)

// RequestHandler exposes the quote-flow endpoints.
type RequestHandler struct {
	Service quote.QuoteService
	Logger  *zap.Logger
}

// NewRequestHandler constructs a RequestHandler.
func NewRequestHandler(svc quote.QuoteService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{Service: svc, Logger: logger}
}

// CreateRequestHandler handles POST /api/booking-requests.
func (h *RequestHandler) CreateRequestHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	req, err := h.Service.CreateRequest(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GetRequestHandler handles GET /api/booking-requests/:id.
func (h *RequestHandler) GetRequestHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	req, err := h.Service.Get(c.Request.Context(), actor.ID, actor.Role, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListRequestsHandler handles GET /api/booking-requests.
func (h *RequestHandler) ListRequestsHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	reqs, err := h.Service.List(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// SubmitQuoteHandler handles POST /api/booking-requests/:id/quote.
func (h *RequestHandler) SubmitQuoteHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.SubmitQuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	req, err := h.Service.SubmitQuote(c.Request.Context(), actor.ID, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// AcceptQuoteHandler handles POST /api/booking-requests/:id/accept.
func (h *RequestHandler) AcceptQuoteHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	req, err := h.Service.AcceptQuote(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// RejectQuoteHandler handles POST /api/booking-requests/:id/reject.
func (h *RequestHandler) RejectQuoteHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	req, err := h.Service.RejectQuote(c.Request.Context(), actor.ID, actor.Role, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CancelRequestHandler handles POST /api/booking-requests/:id/cancel.
func (h *RequestHandler) CancelRequestHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	req, err := h.Service.CancelRequest(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ExpireLapsedHandler handles POST /api/booking-requests/expire-lapsed (admin only).
func (h *RequestHandler) ExpireLapsedHandler(c *gin.Context) {
	n, err := h.Service.ExpireLapsed(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}
