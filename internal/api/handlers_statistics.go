package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/sirupsen/logrus"
)

// StatisticsBackend is the domain surface the statistics handlers need.
type StatisticsBackend interface {
	ForwardLoginEvent(ctx context.Context, deviceType, userKey string) (*core.ForwardResult, error)
	DeviceTypeCount(ctx context.Context, deviceType string) (int64, error)
}

// StatisticsHandlers holds the statistics service's HTTP handlers.
type StatisticsHandlers struct {
	service StatisticsBackend
	logger  *logrus.Logger
}

// NewStatisticsHandlers creates a new handler instance.
func NewStatisticsHandlers(service StatisticsBackend, logger *logrus.Logger) *StatisticsHandlers {
	return &StatisticsHandlers{service: service, logger: logger}
}

// Info returns basic information about the API.
func (h *StatisticsHandlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"INFO": "StatisticsAPI component"})
}

// Status is the health-check endpoint.
func (h *StatisticsHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"INFO": "StatisticsAPI status OK..."})
}

// SendLoginEvent forwards a device login event to the registration service.
// Validation failures are rejected before any downstream call; the
// downstream status is mapped to one of three canned responses.
func (h *StatisticsHandlers) SendLoginEvent(c *gin.Context) {
	var req core.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceType == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid JSON data, key, syntax or value",
		})
		return
	}

	res, err := h.service.ForwardLoginEvent(c.Request.Context(), *req.DeviceType, c.GetHeader(userKeyHeader))
	switch {
	case err == nil:
		c.JSON(res.StatusCode, gin.H{
			"StatusCode": res.StatusCode,
			"message":    res.Message,
		})
	case errors.Is(err, core.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid JSON data, key, syntax or value",
		})
	case errors.Is(err, core.ErrTransport):
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "error forwarding device registration request",
		})
	default:
		h.logger.WithError(err).Error("Unclassified error forwarding device event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "unknown error while storing device type",
		})
	}
}

// GetDeviceCount answers how many events were recorded for the device type
// in the path. A type that was never recorded yields count -1, which is
// distinct from a legitimate zero.
func (h *StatisticsHandlers) GetDeviceCount(c *gin.Context) {
	deviceType := c.Param("deviceType")

	count, err := h.service.DeviceTypeCount(c.Request.Context(), deviceType)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"deviceType": deviceType,
			"count":      count,
		})
	case errors.Is(err, core.ErrReadFailed):
		// 520: non-standard "origin error", kept for API compatibility.
		c.JSON(520, gin.H{"message": "fetching device count failed"})
	default:
		h.logger.WithError(err).Error("Unclassified error counting device events")
		c.JSON(http.StatusConflict, gin.H{
			"message": "unknown error while retrieving device count",
		})
	}
}
