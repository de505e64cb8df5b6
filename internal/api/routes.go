package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/sirupsen/logrus"
)

// SetupRegistrationRoutes configures the registration service's routes.
func SetupRegistrationRoutes(router *gin.Engine, handlers *RegistrationHandlers, verifier *core.TokenVerifier, logger *logrus.Logger) {
	// Global middleware
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))
	router.NoRoute(NotFound)

	// Public endpoints
	router.GET("/", handlers.Info)
	router.GET("/api/status", handlers.Status)

	// Authenticated write endpoint
	device := router.Group("/Device")
	device.Use(TokenAuthentication(verifier))
	{
		device.POST("/register", handlers.RegisterDevice)
	}
}

// SetupStatisticsRoutes configures the statistics service's routes.
// The count query requires the same token as the write path; reads are not
// intentionally public.
func SetupStatisticsRoutes(router *gin.Engine, handlers *StatisticsHandlers, verifier *core.TokenVerifier, logger *logrus.Logger) {
	// Global middleware
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))
	router.NoRoute(NotFound)

	// Public endpoints
	router.GET("/", handlers.Info)
	router.GET("/api/status", handlers.Status)

	// Authenticated endpoints
	log := router.Group("/Log")
	log.Use(TokenAuthentication(verifier))
	{
		log.POST("/auth", handlers.SendLoginEvent)
		log.GET("/auth/statistics/:deviceType", handlers.GetDeviceCount)
	}
}
