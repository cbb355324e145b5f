package handlers

import (
	"errors"
	"net/http"

	"github.com/fourhand/wifi-remocon/internal/models"
	"github.com/fourhand/wifi-remocon/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusRefreshed = "refreshed"
	statusSelected  = "selection_set"
	statusCommand   = "command_set"
	statusApplied   = "applied"
	statusAllOn     = "all_on"
	statusAllOff    = "all_off"

	errApply        = "failed to apply command"
	errAllOn        = "failed to switch all on"
	errAllOff       = "failed to switch all off"
	errInvalidBody  = "invalid body: "
	errBadSelection = "action must be one of: select, all, clear"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and the current panel snapshot so the caller can
// redraw without a second round trip.
func (h *Handler) respondWithSnapshot(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["panel"] = h.services.Control.Snapshot()
	c.JSON(http.StatusOK, resp)
}

// Request DTO for selection changes.
type selectionRequest struct {
	Action   string `json:"action" binding:"required"` // select | all | clear
	DeviceID string `json:"device_id,omitempty"`       // required if action=select
}

// SelectionRequest is an exported model for Swagger docs of the selection payload.
type SelectionRequest struct {
	// Action to perform. Allowed: select, all, clear
	Action string `json:"action" example:"select"`
	// Device to select (required when action=select)
	DeviceID string `json:"device_id,omitempty" example:"f3-ac-01"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Panel snapshot
// @Description  Devices with health, selection, pending set, and the current command draft.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/panel [get]
func (h *Handler) getPanel(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Control.Snapshot())
}

// @Summary      Refresh devices
// @Description  Re-fetches the device list and statuses from the control server.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, panel"
// @Router       /api/v1/devices/refresh [post]
func (h *Handler) refreshDevices(c *gin.Context) {
	ctx := c.Request.Context()
	h.services.Devices.RefreshDevices(ctx)
	h.services.Devices.RefreshStatuses(ctx)
	h.respondWithSnapshot(c, statusRefreshed, gin.H{})
}

// @Summary      Change selection
// @Description  select requires device_id; all selects every listed device; clear empties the selection.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body   SelectionRequest  true  "Selection payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/selection [put]
func (h *Handler) putSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	ctx := c.Request.Context()
	switch req.Action {
	case "select":
		if err := h.services.Control.SelectDevice(ctx, req.DeviceID); err != nil {
			code := http.StatusBadRequest
			if errors.Is(err, service.ErrUnknownDevice) {
				code = http.StatusNotFound
			}
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}
	case "all":
		h.services.Control.SelectAll(ctx)
	case "clear":
		h.services.Control.ClearSelection()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadSelection})
		return
	}
	h.respondWithSnapshot(c, statusSelected, gin.H{"action": req.Action})
}

// @Summary      Edit command draft
// @Description  Partial update of the shared command; omitted fields keep their value.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body   models.CommandPatch  true  "Command fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/command [put]
func (h *Handler) putCommand(c *gin.Context) {
	var patch models.CommandPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	cmd, err := h.services.Control.EditCommand(c.Request.Context(), patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithSnapshot(c, statusCommand, gin.H{"command": cmd})
}

// @Summary      Apply command
// @Description  Sends the current command to every selected device. Per-device failures are reported in the result, not as an error.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, result, panel"
// @Failure      409  {object}  map[string]string       "nothing selected"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/apply [post]
func (h *Handler) apply(c *gin.Context) {
	result, err := h.services.Control.Apply(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNothingSelected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errApply, "apply_failed", err)
		return
	}
	h.respondWithSnapshot(c, statusApplied, gin.H{"result": result})
}

// @Summary      All on
// @Description  Broadcast power-on with the default comfort command to every device.
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/all/on [post]
func (h *Handler) allOn(c *gin.Context) {
	if err := h.services.Control.AllOn(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errAllOn, "all_on_failed", err)
		return
	}
	h.respondWithSnapshot(c, statusAllOn, gin.H{})
}

// @Summary      All off
// @Tags         panel
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/all/off [post]
func (h *Handler) allOff(c *gin.Context) {
	if err := h.services.Control.AllOff(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errAllOff, "all_off_failed", err)
		return
	}
	h.respondWithSnapshot(c, statusAllOff, gin.H{})
}
