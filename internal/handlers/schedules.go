package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusScheduleSet = "schedule_set"

	errScheduleUpdate = "failed to update schedule"
	errBadSlotIndex   = "index must be an integer between 1 and 7"
)

// @Summary      List schedules
// @Description  Always returns exactly 7 slots; missing server slots are padded with disabled defaults.
// @Tags         schedules
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, slots"
// @Router       /api/v1/schedules [get]
func (h *Handler) getSchedules(c *gin.Context) {
	slots := h.services.Schedules.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count": len(slots),
		"slots": slots,
	})
}

// @Summary      Update a schedule slot
// @Description  Partial update of slot N (1-based). Padded slots have no server id and cannot be updated. Start/end minutes are clamped into [0, 1439].
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        index  path   int                   true  "Slot number, 1..7"
// @Param        body   body   models.SchedulePatch  true  "Fields to change"
// @Success      200    {object}  map[string]interface{}  "status, slot"
// @Failure      400    {object}  map[string]string
// @Failure      502    {object}  map[string]string
// @Router       /api/v1/schedules/{index} [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("index"))
	if err != nil || n < 1 || n > 7 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadSlotIndex})
		return
	}

	var patch models.SchedulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}

	slot, err := h.services.Schedules.Update(c.Request.Context(), n-1, patch)
	if err != nil {
		if errors.Is(err, service.ErrSlotUnavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errScheduleUpdate, "schedule_update_failed", err, "index", n)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusScheduleSet,
		"slot":   slot,
	})
}
