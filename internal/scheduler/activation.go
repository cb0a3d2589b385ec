package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// ActivationScheduler periodically promotes pending price rows whose effective
// date has arrived. One sweep runs at startup, then one per interval; Run
// blocks until the context is cancelled.
type ActivationScheduler struct {
	sweeper  portssvc.PricingSweeperSvc
	clock    providers.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewActivationScheduler(sweeper portssvc.PricingSweeperSvc, clock providers.Clock, interval time.Duration, logger *slog.Logger) *ActivationScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ActivationScheduler{
		sweeper:  sweeper,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Run executes sweeps until ctx is cancelled.
func (s *ActivationScheduler) Run(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, s.logger)

	s.logger.Info("Activation scheduler started", slog.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Activation scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ActivationScheduler) sweep(ctx context.Context) {
	asOf := s.clock.Now()
	activated, failed, err := s.sweeper.SweepDueActivations(ctx, asOf)
	if err != nil {
		s.logger.Error("Activation sweep failed", slog.String("error", err.Error()))
		return
	}
	if activated > 0 || failed > 0 {
		s.logger.Info("Activation sweep finished",
			slog.Int("activated", activated),
			slog.Int("failed", failed),
		)
	}
}
