// Package response writes the JSON envelope shared by every HTTP endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a successful envelope.
func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error renders err and aborts the chain. Errors that are not *apierror.APIError
// become 500 without leaking their text.
func Error(c *gin.Context, logger *logger.Logger, err error) {
	apiErr := apierror.From(err)
	if apiErr.Status >= http.StatusInternalServerError && logger != nil {
		logger.Error("HTTP handler: request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err.Error())
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, Envelope{Success: false, Message: apiErr.Message})
}
