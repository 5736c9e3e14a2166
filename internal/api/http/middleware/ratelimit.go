package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/ratelimit"
)

// RateLimit rejects clients that exceed limiter's budget, keyed by client IP.
// A nil limiter disables the check.
func RateLimit(limiter ratelimit.Limiter, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !limiter.Allow(c.Request.Context(), ip) {
			logger.Warn("RateLimit middleware: request throttled",
				"client_ip", ip,
				"path", c.FullPath())
			response.Error(c, logger, apierror.NewErrTooManyRequests())
			return
		}
		c.Next()
	}
}
