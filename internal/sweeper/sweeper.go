// Package sweeper periodically deletes expired shares. The repository layer
// already treats expired shares as absent, so the sweep only reclaims rows;
// a missed run never serves a stale share.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

// ShareStore is the slice of the share service the sweeper needs.
type ShareStore interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Sweeper struct {
	shares   ShareStore
	logger   *slog.Logger
	interval time.Duration
	cron     *cron.Cron
}

func New(shares ShareStore, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &Sweeper{
		shares:   shares,
		logger:   logger,
		interval: interval,
	}
}

// Start schedules the periodic sweep. The given context bounds every run.
func (s *Sweeper) Start(ctx context.Context) error {
	const op = "sweeper.Sweeper.Start"

	s.cron = cron.New()

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: failed to schedule sweep: %w", op, err)
	}

	s.cron.Start()
	s.logger.Info("share sweeper started", slog.Duration("interval", s.interval))

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	const op = "sweeper.Sweeper.sweep"

	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	deleted, err := s.shares.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("failed to purge expired shares", slog.Group(op, slog.Any("err", err)))
		return
	}

	if deleted > 0 {
		s.logger.Info("purged expired shares", slog.Int64("deleted", deleted))
	}
}
