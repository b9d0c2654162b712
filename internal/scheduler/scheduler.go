// Package scheduler triggers scrape cycles on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"ge-course-scraper/internal/controllers"
	"ge-course-scraper/internal/logger"

	"github.com/robfig/cron/v3"
)

// CycleRunner is the part of *controllers.ScrapingController the scheduler drives.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*controllers.CycleResult, error)
}

// DegreeSync refreshes the stored degree requirements and reports how many
// degrees it saved.
type DegreeSync func(ctx context.Context) (int, error)

type Scheduler struct {
	cron   *cron.Cron
	runner CycleRunner
}

func New(runner CycleRunner) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
		runner: runner,
	}
}

// Schedule registers a cycle on expr, e.g. "@every 60s" or "*/5 * * * *".
func (s *Scheduler) Schedule(ctx context.Context, expr string) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return nil
}

// Tick runs one cycle unless one is already in progress.
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.runner.RunCycle(ctx)
	switch {
	case errors.Is(err, controllers.ErrCycleRunning):
		logger.Info().Msg("scheduled scrape skipped, previous cycle still running")
	case err != nil:
		logger.Error().Err(err).Msg("scheduled scrape cycle failed")
	}
}

// ScheduleDegreeSync registers a degree requirements refresh on expr.
func (s *Scheduler) ScheduleDegreeSync(ctx context.Context, expr string, sync DegreeSync) error {
	_, err := s.cron.AddFunc(expr, func() {
		SyncDegrees(ctx, sync)
	})
	if err != nil {
		return fmt.Errorf("invalid discovery schedule %q: %w", expr, err)
	}
	return nil
}

// SyncDegrees runs sync once and logs the outcome.
func SyncDegrees(ctx context.Context, sync DegreeSync) {
	if ctx.Err() != nil {
		return
	}
	n, err := sync(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("degree sync failed")
		return
	}
	logger.Info().Int("degrees", n).Msg("degree requirements refreshed")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug().Fields(keysAndValues).Msgf("cron: %s", msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error().Err(err).Fields(keysAndValues).Msgf("cron: %s", msg)
}
