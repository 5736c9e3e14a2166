package middleware

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Harry9021/kata-sweet-shop/internal/logger"
)

// RecoveryHandler turns a handler panic into codes.Internal after logging it.
func RecoveryHandler(logger *logger.Logger) recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		logger.Error("gRPC handler panicked",
			"panic", fmt.Sprint(p))
		return status.Error(codes.Internal, "internal server error")
	}
}
