package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Harry9021/kata-sweet-shop/internal/logger"
)

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSink receives health transitions.
type StatusSink interface {
	SetServing(serving bool)
}

// Health tracks database reachability.
type Health struct {
	db       Pinger
	interval time.Duration
	timeout  time.Duration
	sinks    []StatusSink
	logger   *logger.Logger
	healthy  atomic.Bool
}

func NewHealth(db Pinger, interval time.Duration, logger *logger.Logger, sinks ...StatusSink) *Health {
	return &Health{
		db:       db,
		interval: interval,
		timeout:  2 * time.Second,
		sinks:    sinks,
		logger:   logger,
	}
}

// Healthy reports the result of the latest check.
func (h *Health) Healthy() bool {
	return h.healthy.Load()
}

// Check pings the database once and publishes the result.
func (h *Health) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	ok := h.db.Ping(pingCtx) == nil
	if prev := h.healthy.Swap(ok); prev != ok {
		h.logger.Info("Health service: database status changed",
			"healthy", ok)
	}
	for _, sink := range h.sinks {
		sink.SetServing(ok)
	}
	return ok
}

// Run checks immediately and then every interval until ctx is done.
func (h *Health) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
