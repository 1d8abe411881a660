package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Dosada05/tournament-progression/services"
)

// Scheduler periodically rebuilds every league table so manual edits to links or results
// are picked up without an explicit recompute.
type Scheduler struct {
	s        gocron.Scheduler
	leagues  services.LeagueService
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(leagues services.LeagueService, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid league rebuild interval %s", interval)
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		s:        s,
		leagues:  leagues,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.rebuildLeagues),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create league rebuild job: %w", err)
	}

	s.s.Start()
	s.logger.Info("league rebuild scheduler started", slog.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) rebuildLeagues() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.leagues.RecomputeAll(ctx, services.TriggerScheduled); err != nil {
		s.logger.Error("scheduled league rebuild failed", slog.Any("error", err))
	}
}
