package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serviqo/middleware"
	"serviqo/models"
	"serviqo/services/schedule"
	"serviqo/utils"
)

// ScheduleHandler exposes slot, exception, and calendar endpoints.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

// CreateSlotHandler handles POST /api/slots.
func (h *ScheduleHandler) CreateSlotHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.CreateSlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	slot, err := h.Service.CreateSlot(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// UpdateSlotHandler handles PUT /api/slots/:id.
func (h *ScheduleHandler) UpdateSlotHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var upd models.SlotUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	slot, err := h.Service.UpdateSlot(c.Request.Context(), actor.ID, c.Param("id"), upd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteSlotHandler handles DELETE /api/slots/:id.
func (h *ScheduleHandler) DeleteSlotHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	if err := h.Service.DeleteSlot(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListSlotsHandler handles GET /api/slots.
func (h *ScheduleHandler) ListSlotsHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	slots, err := h.Service.ListSlots(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateExceptionHandler handles POST /api/exceptions.
func (h *ScheduleHandler) CreateExceptionHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	var in models.CreateExceptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", err.Error())
		return
	}

	exc, err := h.Service.CreateException(c.Request.Context(), actor.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exc)
}

// ListExceptionsHandler handles GET /api/exceptions.
func (h *ScheduleHandler) ListExceptionsHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	excs, err := h.Service.ListExceptions(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": excs})
}

// DeleteExceptionHandler handles DELETE /api/exceptions/:id.
func (h *ScheduleHandler) DeleteExceptionHandler(c *gin.Context) {
	actor := middleware.Actor(c)

	if err := h.Service.DeleteException(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CalendarHandler handles GET /api/calendar?provider_id=&date=.
func (h *ScheduleHandler) CalendarHandler(c *gin.Context) {
	providerID := c.Query("provider_id")
	if providerID == "" {
		providerID = middleware.Actor(c).ID
	}
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid input", "date query parameter is required")
		return
	}

	days, err := h.Service.WeeklyCalendar(c.Request.Context(), providerID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider_id": providerID, "days": days})
}
