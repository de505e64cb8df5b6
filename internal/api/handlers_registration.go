package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/sirupsen/logrus"
)

// RegistrationBackend is the domain surface the registration handlers need.
type RegistrationBackend interface {
	StoreLoginEvent(ctx context.Context, deviceType string) (*core.DeviceEvent, error)
}

// RegistrationHandlers holds the registration service's HTTP handlers.
type RegistrationHandlers struct {
	service RegistrationBackend
	logger  *logrus.Logger
}

// NewRegistrationHandlers creates a new handler instance.
func NewRegistrationHandlers(service RegistrationBackend, logger *logrus.Logger) *RegistrationHandlers {
	return &RegistrationHandlers{service: service, logger: logger}
}

// Info returns basic information about the API.
func (h *RegistrationHandlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"INFO": "DeviceRegistrationAPI MicroService"})
}

// Status is the health-check endpoint.
func (h *RegistrationHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"INFO": "DeviceRegistrationAPI status OK..."})
}

// RegisterDevice stores one device login event. The outcome is binary:
// 200 with StatusCode 200 on success, 400 with StatusCode 400 when the
// insert is rejected, 409 with a generic message for anything unexpected.
func (h *RegistrationHandlers) RegisterDevice(c *gin.Context) {
	var req core.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceType == nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "unexpected error while storing device type",
		})
		return
	}

	_, err := h.service.StoreLoginEvent(c.Request.Context(), *req.DeviceType)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"StatusCode": http.StatusOK})
	case errors.Is(err, core.ErrInvalidPayload), errors.Is(err, core.ErrInsertFailed):
		c.JSON(http.StatusBadRequest, gin.H{"StatusCode": http.StatusBadRequest})
	default:
		h.logger.WithError(err).Error("Unclassified error storing device event")
		c.JSON(http.StatusConflict, gin.H{
			"message": "unexpected error while storing device type",
		})
	}
}
