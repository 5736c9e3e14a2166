package service

import (
	"context"
	"time"

	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// LedgerSweeper periodically removes expired refresh tokens.
type LedgerSweeper struct {
	store    model.RefreshTokenStore
	interval time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

func NewLedgerSweeper(store model.RefreshTokenStore, interval time.Duration, logger *logger.Logger) *LedgerSweeper {
	return &LedgerSweeper{store: store, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *LedgerSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Ledger sweeper: stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes expired entries and returns how many were removed.
func (s *LedgerSweeper) Sweep(ctx context.Context) int64 {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Ledger sweeper: failed to delete expired refresh tokens",
				"error", err.Error())
		}
		return 0
	}
	if n > 0 {
		s.logger.Info("Ledger sweeper: expired refresh tokens removed",
			"count", n)
	}
	return n
}
