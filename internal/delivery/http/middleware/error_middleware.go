package middleware

import (
	"errors"

	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const auditedKey = "SecurityAudited"

// MarkAudited tells ErrorHandler the handler already wrote a more specific
// audit event for this request.
func MarkAudited(c *gin.Context) {
	c.Set(auditedKey, true)
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Forbidden and unauthenticated outcomes are also written to the audit log.
func ErrorHandler(secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
			// SECURITY: never expose internal error details to clients
			logger.Log.Error("Internal server error",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(response.RequestIDKey))
			appErr = apperror.Internal(err)
		} else if appErr.Err != nil && appErr.Kind == apperror.KindUpstream {
			logger.Log.Warn("Upstream failure", "error", appErr.Err, "request_id", c.GetString(response.RequestIDKey))
		}

		audited := c.GetBool(auditedKey)
		switch {
		case audited:
		case appErr.Kind == apperror.KindForbidden:
			secLog.LogAccessDenied(c.Request.Context(), security.EventForbidden, CallerID(c), RequestMeta(c), appErr.Message)
		case appErr.Kind == apperror.KindUnauthenticated:
			secLog.LogAccessDenied(c.Request.Context(), security.EventUnauthenticated, CallerID(c), RequestMeta(c), appErr.Message)
		}

		if c.Writer.Written() {
			return
		}
		response.AppError(c, appErr)
	}
}
