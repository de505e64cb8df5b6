package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmbazm/device-api/internal/core"
	"github.com/sirupsen/logrus"
)

// userKeyHeader carries the caller's authentication token.
const userKeyHeader = "userKey"

// RequestLogger logs HTTP requests
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
		}).Info("HTTP Request")
	}
}

// TokenAuthentication validates the userKey header against the service's
// expected token. A mismatch or missing header aborts with 403; the token
// itself is never logged.
func TokenAuthentication(verifier *core.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Verify(c.GetHeader(userKeyHeader)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Authentication failed",
			})
			return
		}
		c.Next()
	}
}

// Recovery handles panics and prevents server crashes
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithFields(logrus.Fields{
					"error":  err,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// NotFound is the fallback handler for unmatched routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
}
