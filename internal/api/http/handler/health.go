package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
)

// HealthChecker reports the result of the latest dependency check.
type HealthChecker interface {
	Healthy() bool
}

type healthResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// Health handles GET /health.
type Health struct {
	checker HealthChecker
	now     func() time.Time
}

func NewHealth(checker HealthChecker) *Health {
	return &Health{checker: checker, now: time.Now}
}

func (h *Health) Get(c *gin.Context) {
	database := "disconnected"
	if h.checker.Healthy() {
		database = "connected"
	}

	response.Success(c, http.StatusOK, "Server is running", healthResponse{
		Timestamp: h.now().UTC(),
		Database:  database,
	})
}
