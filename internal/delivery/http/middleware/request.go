package middleware

import (
	"strconv"
	"time"

	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/metrics"
	"portfolio-cms-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID reuses a sane inbound X-Request-ID or generates one, and echoes it
// back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request and feeds the HTTP
// Prometheus collectors.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString(response.RequestIDKey),
		}
		if userID := c.GetString(string(domain.KeyUserID)); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}

		switch {
		case status >= 500:
			logger.Log.Error("HTTP request", attrs...)
		case status >= 400:
			logger.Log.Warn("HTTP request", attrs...)
		default:
			logger.Log.Info("HTTP request", attrs...)
		}
	}
}

// RequestMeta collects the audit fields of the current request.
func RequestMeta(c *gin.Context) security.RequestMeta {
	return security.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(response.RequestIDKey),
		Path:      c.FullPath(),
	}
}
