package scraper

import (
	"context"
	"sync"
	"time"

	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// CategoryRunner scrapes one category; *Job implements it.
type CategoryRunner interface {
	Run(ctx context.Context, category string) ([]entity.CourseRecord, error)
}

type RunnerFunc func(ctx context.Context, category string) ([]entity.CourseRecord, error)

func (f RunnerFunc) Run(ctx context.Context, category string) ([]entity.CourseRecord, error) {
	return f(ctx, category)
}

// Coordinator fans category jobs out over a fixed number of workers, retries
// failures and merges the records of every successful job.
type Coordinator struct {
	Runner CategoryRunner
	// Workers should match the session pool capacity.
	Workers     int
	MaxAttempts int
	RetryDelay  time.Duration
}

// CategoryOutcome is the final state of one category in a cycle.
type CategoryOutcome struct {
	Category string
	Attempts int
	Records  int
	Err      error
}

// Report is the aggregate of a cycle. Records of different categories are
// not ordered relative to each other.
type Report struct {
	Records  []entity.CourseRecord
	Outcomes []CategoryOutcome
}

// FailedCategories lists the categories missing from Records.
func (r *Report) FailedCategories() []string {
	var failed []string
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome.Category)
		}
	}
	return failed
}

type categoryResult struct {
	index   int
	outcome CategoryOutcome
	records []entity.CourseRecord
}

// RunAll returns the records of every category that succeeded.
func (c *Coordinator) RunAll(ctx context.Context, categories []string) []entity.CourseRecord {
	return c.Run(ctx, categories).Records
}

func (c *Coordinator) Run(ctx context.Context, categories []string) *Report {
	report := &Report{Outcomes: make([]CategoryOutcome, len(categories))}
	if len(categories) == 0 {
		return report
	}

	workers := c.Workers
	if workers <= 0 || workers > len(categories) {
		workers = len(categories)
	}

	tasks := make(chan int, len(categories))
	for i := range categories {
		tasks <- i
	}
	close(tasks)

	results := make(chan categoryResult, len(categories))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				outcome, records := c.runCategory(ctx, categories[i])
				results <- categoryResult{index: i, outcome: outcome, records: records}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		report.Outcomes[result.index] = result.outcome
		report.Records = append(report.Records, result.records...)
	}

	logger.Info().
		Int("categories", len(categories)).
		Int("failed", len(report.FailedCategories())).
		Int("records", len(report.Records)).
		Msg("scrape finished")
	return report
}

func (c *Coordinator) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.MaxAttempts
}

func (c *Coordinator) runCategory(ctx context.Context, category string) (CategoryOutcome, []entity.CourseRecord) {
	outcome := CategoryOutcome{Category: category}
	log := logger.With("category", category)

	for {
		outcome.Attempts++
		records, err := c.Runner.Run(ctx, category)
		if err == nil {
			outcome.Records = len(records)
			log.Info().Int("attempt", outcome.Attempts).Int("records", len(records)).Msg("category scraped")
			return outcome, records
		}

		if outcome.Attempts >= c.maxAttempts() || !IsRetryable(err) || ctx.Err() != nil {
			outcome.Err = &CategoryExhaustedError{Category: category, Attempts: outcome.Attempts, Last: err}
			log.Error().Err(err).Int("attempts", outcome.Attempts).Msg("category dropped")
			return outcome, nil
		}
		log.Warn().Err(err).Int("attempt", outcome.Attempts).Dur("retry_in", c.RetryDelay).Msg("category failed, retrying")

		timer := time.NewTimer(c.RetryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			outcome.Err = &CategoryExhaustedError{Category: category, Attempts: outcome.Attempts, Last: ctx.Err()}
			log.Error().Err(ctx.Err()).Msg("category abandoned")
			return outcome, nil
		}
	}
}
