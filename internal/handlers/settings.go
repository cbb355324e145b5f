package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusRemoteSet = "remote_set"

// Request DTO for the remote override.
type remoteRequest struct {
	BaseURL string `json:"base_url" binding:"required"`
}

// RemoteRequest is an exported model for Swagger docs of the remote payload.
type RemoteRequest struct {
	// Control-server address, http or https
	BaseURL string `json:"base_url" example:"http://192.168.0.5:8000"`
}

// @Summary      Get remote address
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/settings/remote [get]
func (h *Handler) getRemoteSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base_url": h.services.Settings.RemoteBaseURL(),
	})
}

// @Summary      Set remote address
// @Description  Persists the control-server override and applies it immediately.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body   RemoteRequest  true  "Remote payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/remote [put]
func (h *Handler) putRemoteSettings(c *gin.Context) {
	var req remoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	if err := h.services.Settings.SetRemoteBaseURL(c.Request.Context(), req.BaseURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusRemoteSet,
		"base_url": h.services.Settings.RemoteBaseURL(),
	})
}
