// Package httpkit contains shared HTTP helpers for handlers and middleware.
package httpkit

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"leadrouter_backend/platform/apperr"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}

// OK writes a 200 response with the given body.
func OK(c *gin.Context, body interface{}) {
	c.JSON(200, body)
}

// Error writes an error response with the given status and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// HandleError maps a domain error to an HTTP response. Typed apperr errors
// use their own status mapping; anything else becomes a 500 and the
// underlying error is logged but not leaked to the client.
func HandleError(c *gin.Context, log *slog.Logger, err error) {
	if appErr, ok := err.(*apperr.Error); ok {
		if appErr.Kind == apperr.KindInternal {
			log.Error("internal error", "op", appErr.Op, "error", appErr.Error(), "cause", appErr.Unwrap())
			Error(c, appErr.HTTPStatus(), "internal server error")
			return
		}
		c.JSON(appErr.HTTPStatus(), ErrorResponse{Error: appErr.Message, Details: appErr.Details})
		return
	}
	log.Error("unhandled error", "error", err)
	Error(c, 500, "internal server error")
}
