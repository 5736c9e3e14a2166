package testutil

import (
	"io"

	"github.com/Harry9021/kata-sweet-shop/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(0, "text", io.Discard)
}
