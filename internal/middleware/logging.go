package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger logs one line per request. Pixel and script requests are
// high volume and logged at debug level.
func StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"request_id":     c.GetString(RequestIDKey),
			"method":         c.Request.Method,
			"path":           path,
			"endpoint":       endpointKind(path),
			"status_code":    c.Writer.Status(),
			"latency_ms":     float64(time.Since(start).Nanoseconds()) / 1000000,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
			"content_length": c.Request.ContentLength,
			"response_size":  c.Writer.Size(),
		}

		if raw := c.Request.URL.RawQuery; raw != "" && gin.Mode() == gin.DebugMode {
			fields["query"] = raw
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		case fields["endpoint"] == "pixel" || fields["endpoint"] == "script":
			entry.Debug("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}

// endpointKind groups request paths for log aggregation
func endpointKind(path string) string {
	switch {
	case path == "/health":
		return "health"
	case strings.HasPrefix(path, "/pixel.gif"), strings.HasPrefix(path, "/track.gif"):
		return "pixel"
	case strings.HasPrefix(path, "/collect"), strings.HasPrefix(path, "/track"):
		return "collect"
	case strings.HasPrefix(path, "/js/"):
		return "script"
	case path == "/enrich":
		return "enrich"
	default:
		return "other"
	}
}
