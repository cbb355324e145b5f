package handlers

import (
	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.corsMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Panel snapshot stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerPanelRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerLogRoutes(api)
		h.registerSettingsRoutes(api)
	}
}

func (h *Handler) registerPanelRoutes(api *gin.RouterGroup) {
	api.GET("/panel", h.getPanel)
	api.POST("/devices/refresh", h.refreshDevices)
	api.PUT("/selection", h.putSelection)
	api.PUT("/command", h.putCommand)
	api.POST("/apply", h.apply)

	all := api.Group("/all")
	{
		all.POST("/on", h.allOn)
		all.POST("/off", h.allOff)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("/", h.getSchedules)
		schedules.PUT("/:index", h.updateSchedule)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.GET("/remote", h.getRemoteSettings)
		settings.PUT("/remote", h.putRemoteSettings)
	}
}
