package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/signals"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// LeagueFetcher resolves the current league snapshot used to drive a
// scheduled refresh — satisfied by providers.ESPNClient.FetchLeagueContext.
type LeagueFetcher interface {
	FetchLeagueContext(leagueID, year int) (models.LeagueContext, error)
}

// SnapshotScheduler periodically re-evaluates the alpha signal provider
// for the current league/week and logs the outcome. It does not write
// anything to the feed snapshot store (C2).
type SnapshotScheduler struct {
	fetcher   LeagueFetcher
	provider  *signals.Provider
	leagueID  int
	year      int
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewSnapshotScheduler(fetcher LeagueFetcher, provider *signals.Provider, leagueID, year int, logger *logrus.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		fetcher:  fetcher,
		provider: provider,
		leagueID: leagueID,
		year:     year,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules a refresh every interval, plus an immediate one.
func (s *SnapshotScheduler) Start(interval string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return fmt.Errorf("snapshot scheduler is already running")
	}

	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("schedule snapshot refresh: %w", err)
	}

	// A second, nightly entry at 03:00 runs the same refresh.
	if _, err := s.cron.AddFunc("0 3 * * *", s.refresh); err != nil {
		return fmt.Errorf("schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	go s.refresh()

	s.logger.Info("snapshot scheduler started")
	return nil
}

func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("snapshot scheduler stopped")
}

func (s *SnapshotScheduler) refresh() {
	league, err := s.fetcher.FetchLeagueContext(s.leagueID, s.year)
	if err != nil {
		s.logger.Errorf("snapshot refresh: fetch league context: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := s.provider.Evaluate(ctx, league, league.CurrentWeek)
	if err != nil {
		s.logger.Errorf("snapshot refresh: evaluate signals for league %d week %d: %v", s.leagueID, league.CurrentWeek, err)
		return
	}
	if len(result.Warnings) > 0 {
		s.logger.Warnf("snapshot refresh completed with warnings: %v", result.Warnings)
	}
	s.logger.Infof("snapshot refresh: league %d week %d updated, %d player adjustments", s.leagueID, league.CurrentWeek, len(result.PlayerAdjustments))
}

// Status reports the scheduler's run state and upcoming cron entries.
func (s *SnapshotScheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		nextRuns = append(nextRuns, e.Next)
	}
	return map[string]interface{}{
		"is_running": s.isRunning,
		"next_runs":  nextRuns,
	}
}
