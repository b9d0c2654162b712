package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/config"
	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"
	"ge-course-scraper/internal/model/response"
	"ge-course-scraper/internal/rabbitmq/producer"
	"ge-course-scraper/internal/refresh"
	"ge-course-scraper/internal/scraper"

	"github.com/google/uuid"
)

var (
	// ErrCycleRunning is returned when a cycle is requested while another runs.
	ErrCycleRunning = errors.New("scrape cycle already running")
	// ErrNothingScraped means every category failed; the stored snapshot is kept.
	ErrNothingScraped = errors.New("every category failed")
)

// CycleResult reports one scrape cycle. ScrapeErr and PersistErr are kept
// apart: the first means data was not collected, the second that collected
// data may not be durable.
type CycleResult struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Report      *scraper.Report
	Pool        browser.PoolStats
	RefreshedAt time.Time
	ScrapeErr   error
	PersistErr  error
}

func (r *CycleResult) Err() error {
	return errors.Join(r.ScrapeErr, r.PersistErr)
}

func (r *CycleResult) Response() response.CycleResponse {
	cycle := response.CycleResponse{
		CycleID:          r.ID,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		FailedCategories: []string{},
		Persisted:        r.PersistErr == nil && r.ScrapeErr == nil,
	}
	if r.Report != nil {
		cycle.Records = len(r.Report.Records)
		cycle.Categories = len(r.Report.Outcomes)
		cycle.FailedCategories = append(cycle.FailedCategories, r.Report.FailedCategories()...)
	}
	if r.PersistErr != nil {
		cycle.PersistError = r.PersistErr.Error()
	}
	return cycle
}

// ScrapingController runs scrape cycles: a fresh session pool per cycle,
// every category through the coordinator, then a snapshot replace.
type ScrapingController struct {
	Factory   browser.Factory
	Env       *config.ScraperEnv
	Selectors scraper.Selectors
	Pipeline  *refresh.Pipeline
	Producer  *producer.ScrapingControllerProducer

	running atomic.Bool
	wg      sync.WaitGroup
}

func NewScrapingController(factory browser.Factory, env *config.ScraperEnv, pipeline *refresh.Pipeline, producer *producer.ScrapingControllerProducer) *ScrapingController {
	scrapingController := &ScrapingController{
		Factory:   factory,
		Env:       env,
		Selectors: scraper.DefaultSelectors(),
		Pipeline:  pipeline,
		Producer:  producer,
	}
	return scrapingController
}

func (c *ScrapingController) categories() []string {
	if len(c.Env.Categories) > 0 {
		return c.Env.Categories
	}
	return scraper.CategoryCodes()
}

func (c *ScrapingController) timeouts() scraper.Timeouts {
	timeouts := scraper.DefaultTimeouts()
	if c.Env.WaitTimeout > 0 {
		timeouts.Results = c.Env.WaitTimeout
	}
	timeouts.Job = c.Env.JobTimeout
	return timeouts
}

// Scrape runs every category on a new pool and closes the pool before
// returning.
func (c *ScrapingController) Scrape(ctx context.Context) (*scraper.Report, browser.PoolStats, error) {
	var opts []browser.PoolOption
	if c.Env.AcquireWait > 0 {
		opts = append(opts, browser.WithAcquireWait(c.Env.AcquireWait))
	}
	pool := browser.NewPool(c.Factory, c.Env.PoolSize, opts...)

	job, err := scraper.NewJob(pool, c.Env.EntryURL, c.Selectors, c.timeouts(), c.Env.MaxPages)
	if err != nil {
		return nil, browser.PoolStats{}, err
	}
	coordinator := &scraper.Coordinator{
		Runner:      job,
		Workers:     pool.Capacity(),
		MaxAttempts: c.Env.MaxAttempts,
		RetryDelay:  c.Env.RetryDelay,
	}
	report := coordinator.Run(ctx, c.categories())

	if err := pool.CloseAll(); err != nil {
		logger.Warn().Err(err).Msg("Error closing browsing sessions")
	}
	return report, pool.Stats(), nil
}

// RunCycle scrapes, replaces the snapshot and announces the result.
// It returns ErrCycleRunning without doing anything when a cycle is already
// in progress.
func (c *ScrapingController) RunCycle(ctx context.Context) (*CycleResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrCycleRunning
	}
	defer c.running.Store(false)
	result := c.cycle(ctx)
	return result, result.Err()
}

// StartCycle runs a cycle in the background. It reports false when a cycle
// is already running.
func (c *ScrapingController) StartCycle(ctx context.Context) bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.running.Store(false)
		c.cycle(ctx)
	}()
	return true
}

func (c *ScrapingController) Running() bool {
	return c.running.Load()
}

// Wait blocks until background cycles started by StartCycle finish.
func (c *ScrapingController) Wait() {
	c.wg.Wait()
}

func (c *ScrapingController) cycle(ctx context.Context) *CycleResult {
	result := &CycleResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := logger.With("cycle", result.ID)
	log.Info().Msg("scrape cycle started")

	report, stats, err := c.Scrape(ctx)
	result.Report = report
	result.Pool = stats
	switch {
	case err != nil:
		result.ScrapeErr = err
	case len(report.Outcomes) > 0 && len(report.FailedCategories()) == len(report.Outcomes):
		result.ScrapeErr = ErrNothingScraped
	}

	if result.ScrapeErr == nil {
		at, err := c.Pipeline.Replace(ctx, report.Records)
		if err != nil {
			result.PersistErr = err
		}
		result.RefreshedAt = at
	}
	result.FinishedAt = time.Now()

	event := log.Info()
	if result.Err() != nil {
		event = log.Error().AnErr("scrape_error", result.ScrapeErr).AnErr("persist_error", result.PersistErr)
	}
	if report != nil {
		event = event.Int("records", len(report.Records)).Strs("failed_categories", report.FailedCategories())
	}
	event.Int("peak_sessions", stats.PeakLeased).Dur("took", result.FinishedAt.Sub(result.StartedAt)).Msg("scrape cycle finished")

	if c.Producer != nil {
		if err := c.Producer.PublishSnapshotRefreshed(result.Response()); err != nil {
			log.Warn().Err(err).Msg("Error publishing refresh event")
		}
	}
	return result
}

// DryRun scrapes without touching the store.
func (c *ScrapingController) DryRun(ctx context.Context) ([]entity.CourseRecord, *scraper.Report, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, nil, ErrCycleRunning
	}
	defer c.running.Store(false)

	report, _, err := c.Scrape(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("scrape failed: %w", err)
	}
	return report.Records, report, nil
}
