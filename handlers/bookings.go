package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serviqo/middleware"
	"serviqo/models"
	"serviqo/services/booking"
	"serviqo/utils"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	bk, warning, err := h.Service.CreateInstantBooking(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	resp := gin.H{"booking": bk}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusCreated, resp)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	bk, err := h.Service.Get(c.Request.Context(), actor.ID, actor.Role, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// ListBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	bks, err := h.Service.List(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bks})
}

// transitionHandler adapts a provider-driven lifecycle call into a gin handler.
func (h *BookingHandler) transitionHandler(fn func(c *gin.Context, providerID, bookingID string) (*models.Booking, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.Actor(c)
		bk, err := fn(c, actor.ID, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bk)
	}
}

// AcceptHandler handles PATCH /api/bookings/:id/accept.
func (h *BookingHandler) AcceptHandler() gin.HandlerFunc {
	return h.transitionHandler(func(c *gin.Context, providerID, bookingID string) (*models.Booking, error) {
		return h.Service.Accept(c.Request.Context(), providerID, bookingID)
	})
}

// RejectHandler handles PATCH /api/bookings/:id/reject.
func (h *BookingHandler) RejectHandler() gin.HandlerFunc {
	return h.transitionHandler(func(c *gin.Context, providerID, bookingID string) (*models.Booking, error) {
		return h.Service.Reject(c.Request.Context(), providerID, bookingID)
	})
}

// StartHandler handles PATCH /api/bookings/:id/start.
func (h *BookingHandler) StartHandler() gin.HandlerFunc {
	return h.transitionHandler(func(c *gin.Context, providerID, bookingID string) (*models.Booking, error) {
		return h.Service.Start(c.Request.Context(), providerID, bookingID)
	})
}

// CompleteHandler handles PATCH /api/bookings/:id/complete.
func (h *BookingHandler) CompleteHandler() gin.HandlerFunc {
	return h.transitionHandler(func(c *gin.Context, providerID, bookingID string) (*models.Booking, error) {
		return h.Service.Complete(c.Request.Context(), providerID, bookingID)
	})
}

// NoShowHandler handles PATCH /api/bookings/:id/no-show.
func (h *BookingHandler) NoShowHandler() gin.HandlerFunc {
	return h.transitionHandler(func(c *gin.Context, providerID, bookingID string) (*models.Booking, error) {
		return h.Service.MarkNoShow(c.Request.Context(), providerID, bookingID)
	})
}

// CancelBookingHandler handles PATCH /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.CancelBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	bk, err := h.Service.Cancel(c.Request.Context(), actor.ID, actor.Role, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// DisputeHandler handles PATCH /api/admin/bookings/:id/dispute.
func (h *BookingHandler) DisputeHandler(c *gin.Context) {
	bk, err := h.Service.Dispute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// CompleteOverdueHandler handles POST /api/bookings/complete-overdue (admin only).
func (h *BookingHandler) CompleteOverdueHandler(c *gin.Context) {
	n, err := h.Service.CompleteOverdue(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": n})
}

// HideBookingHandler handles DELETE /api/bookings/:id. The booking is only
// hidden from the caller's listings, never removed.
func (h *BookingHandler) HideBookingHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	if err := h.Service.Hide(c.Request.Context(), actor.ID, actor.Role, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hidden": true})
}

// MarkReviewedHandler handles PATCH /api/bookings/:id/reviewed.
func (h *BookingHandler) MarkReviewedHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	if err := h.Service.MarkReviewed(c.Request.Context(), actor.ID, actor.Role, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewed": true})
}
