package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsMiddleware keeps the panel usable from a browser served elsewhere on
// the LAN. The control API carries no credentials, so a permissive policy
// is acceptable here.
func (h *Handler) corsMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Accept")
	c.Header("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
