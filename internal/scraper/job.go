package scraper

import (
	"context"
	"errors"
	"fmt"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"
)

// SessionSource hands out browsing sessions; *browser.Pool implements it.
type SessionSource interface {
	Acquire(ctx context.Context) (browser.Session, error)
	Release(session browser.Session) error
	Discard(session browser.Session) error
}

// Job runs one category search on a pooled session.
type Job struct {
	Sessions  SessionSource
	EntryURL  string
	Selectors Selectors
	Timeouts  Timeouts
	Walker    *Walker
}

// NewJob wires an extractor and walker from the same selectors and timeouts.
func NewJob(sessions SessionSource, entryURL string, selectors Selectors, timeouts Timeouts, maxPages int) (*Job, error) {
	extractor, err := NewExtractor(entryURL, selectors, timeouts.Results)
	if err != nil {
		return nil, err
	}
	return &Job{
		Sessions:  sessions,
		EntryURL:  entryURL,
		Selectors: selectors,
		Timeouts:  timeouts,
		Walker: &Walker{
			Extractor:   extractor,
			Next:        selectors.Next,
			NextTimeout: timeouts.Next,
			LoadTimeout: timeouts.Load,
			MaxPages:    maxPages,
		},
	}, nil
}

// Run searches one category and returns its records tagged with category.
// A walk that hits a malformed page after collecting some pages is returned
// as a success. Any other walk failure, including the job deadline, fails the
// job and discards the session.
func (j *Job) Run(ctx context.Context, category string) (records []entity.CourseRecord, err error) {
	if j.Timeouts.Job > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeouts.Job)
		defer cancel()
	}

	session, err := j.Sessions.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session for %s: %w", category, err)
	}
	defer func() {
		// a session abandoned mid-navigation is not fit for reuse
		if err != nil {
			if discardErr := j.Sessions.Discard(session); discardErr != nil {
				logger.Error().Err(discardErr).Str("category", category).Msg("failed to discard session")
			}
			return
		}
		if releaseErr := j.Sessions.Release(session); releaseErr != nil {
			logger.Error().Err(releaseErr).Str("category", category).Msg("failed to release session")
		}
	}()

	if err = j.openSearch(ctx, session, category); err != nil {
		return nil, err
	}

	result := j.Walker.Walk(ctx, session)
	if result.Err != nil && (len(result.Records) == 0 || !errors.Is(result.Err, ErrExtraction)) {
		err = fmt.Errorf("walk results for %s: %w", category, result.Err)
		return nil, err
	}
	if result.Err != nil {
		logger.Warn().Err(result.Err).Str("category", category).Int("records", len(result.Records)).
			Msg("keeping partial results")
	}

	records = make([]entity.CourseRecord, len(result.Records))
	for i, record := range result.Records {
		record.Category = category
		records[i] = record
	}
	return records, nil
}

func (j *Job) openSearch(ctx context.Context, session browser.Session, category string) error {
	if err := session.Navigate(ctx, j.EntryURL); err != nil {
		return fmt.Errorf("navigate to search: %w", err)
	}

	terms, err := session.WaitFor(ctx, j.Selectors.Term, j.Timeouts.Form)
	if err != nil {
		return fmt.Errorf("wait for term selector: %w", err)
	}
	term, err := session.ReadText(ctx, terms[0])
	if err != nil {
		return fmt.Errorf("read term: %w", err)
	}
	logger.Debug().Str("category", category).Str("term", CleanText(term)).Msg("search form loaded")

	if _, err := session.WaitFor(ctx, j.Selectors.Category, j.Timeouts.Form); err != nil {
		return fmt.Errorf("wait for category selector: %w", err)
	}
	if err := session.Click(ctx, j.Selectors.Category); err != nil {
		return fmt.Errorf("open category selector: %w", err)
	}
	if err := session.SelectOption(ctx, j.Selectors.Category, category); err != nil {
		return fmt.Errorf("select category %s: %w", category, err)
	}
	if _, err := session.WaitFor(ctx, j.Selectors.Submit, j.Timeouts.Form); err != nil {
		return fmt.Errorf("wait for submit: %w", err)
	}
	if err := session.ClickNavigate(ctx, j.Selectors.Submit, j.Timeouts.Load); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	return nil
}

// IsRetryable reports whether a failed job is worth another attempt.
// Cancellation of the whole cycle is not.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}
