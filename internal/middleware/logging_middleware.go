package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs HTTP requests with structured logging
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})

		log.Debug("Incoming request", map[string]interface{}{
			"user_agent": c.Request.UserAgent(),
			"query":      c.Request.URL.RawQuery,
		})

		// Store logger in context for use in handlers
		c.Set("logger", log)

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		msg := "Request completed"
		if statusCode >= 500 {
			log.Error(msg, nil, fields)
		} else if statusCode >= 400 {
			log.Warn(msg, fields)
		} else {
			log.Info(msg, fields)
		}
	}
}

// GetLoggerFromContext retrieves the logger from gin context
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if log, exists := c.Get("logger"); exists {
		if l, ok := log.(*logger.Logger); ok {
			return l
		}
	}
	// Return global logger as fallback
	return logger.Get()
}
