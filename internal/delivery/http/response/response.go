package response

import (
	"github.com/gin-gonic/gin"

	"portfolio-cms-backend/pkg/apperror"
)

// RequestIDKey is the gin context key the request id middleware writes.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorBody is the machine-readable part of a failed response.
type ErrorBody struct {
	Kind   apperror.Kind     `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, body *ErrorBody) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     body,
		RequestID: c.GetString(RequestIDKey),
	})
}

// AppError renders err with its status, kind and field messages.
func AppError(c *gin.Context, err *apperror.AppError) {
	Error(c, err.Code, err.Message, &ErrorBody{Kind: err.Kind, Fields: err.Fields})
}
