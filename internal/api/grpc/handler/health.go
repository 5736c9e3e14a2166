package handler

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Harry9021/kata-sweet-shop/internal/logger"
)

// ServiceName is the grpc.health.v1 service name reported next to the overall status.
const ServiceName = "sweetshop"

// Health publishes the application status over grpc.health.v1.
type Health struct {
	server *health.Server
	logger *logger.Logger
}

// NewHealth creates a health handler that reports NOT_SERVING until told otherwise.
func NewHealth(logger *logger.Logger) *Health {
	h := &Health{server: health.NewServer(), logger: logger}
	h.SetServing(false)
	return h
}

// SetServing updates the overall and the named service status.
func (h *Health) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}

// Register exposes the health service on s.
func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Shutdown reports NOT_SERVING to every watcher and ignores later updates.
func (h *Health) Shutdown() {
	h.logger.Info("Health handler: shutting down")
	h.server.Shutdown()
}
