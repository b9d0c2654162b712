package scraper

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/browser/browsertest"
	"ge-course-scraper/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T, pool *browser.Pool) *Job {
	t.Helper()
	job, err := NewJob(pool, browsertest.EntryURL, DefaultSelectors(), testTimeouts(), 0)
	require.NoError(t, err)
	return job
}

func TestJobTagsRecordsAndReleasesSession(t *testing.T) {
	site := browsertest.NewSite("CC", "ER")
	site.AddResults("CC", 2, testRows("ANTH", 3)...)
	pool := browser.NewPool(site.Factory(), 1)

	records, err := newTestJob(t, pool).Run(context.Background(), "CC")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		assert.Equal(t, "CC", record.Category)
	}

	stats := pool.Stats()
	assert.Equal(t, 0, stats.Leased)
	assert.Equal(t, 1, stats.Idle)
}

func TestJobNavigationFailureDiscardsSession(t *testing.T) {
	site := browsertest.NewSite("CC")
	site.NavigateErr = &browser.TimeoutError{Selector: "body"}
	pool := browser.NewPool(site.Factory(), 1)

	_, err := newTestJob(t, pool).Run(context.Background(), "CC")
	require.ErrorIs(t, err, browser.ErrNavigationTimeout)

	assert.Equal(t, 0, pool.Stats().Live)
	require.Len(t, site.Sessions(), 1)
	assert.True(t, site.Sessions()[0].Closed())
}

func TestJobKeepsPartialResults(t *testing.T) {
	good := testRows("LIT", 2)
	bad := testRows("LIT", 1)
	bad[0].Instructor = ""
	site := browsertest.NewSite("TA")
	site.Results["TA"] = []string{
		browsertest.ResultsPage(good, true),
		browsertest.ResultsPage(bad, false),
	}
	pool := browser.NewPool(site.Factory(), 1)

	records, err := newTestJob(t, pool).Run(context.Background(), "TA")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJobFailsWhenFirstPageIsMalformed(t *testing.T) {
	bad := testRows("LIT", 2)
	bad[1].Instructor = ""
	site := browsertest.NewSite("TA")
	site.AddResults("TA", 5, bad...)
	pool := browser.NewPool(site.Factory(), 1)

	_, err := newTestJob(t, pool).Run(context.Background(), "TA")
	require.ErrorIs(t, err, ErrExtraction)
}

func TestJobUnknownCategory(t *testing.T) {
	site := browsertest.NewSite("CC")
	pool := browser.NewPool(site.Factory(), 1)

	_, err := newTestJob(t, pool).Run(context.Background(), "ZZ")
	require.Error(t, err)
	assert.Equal(t, 0, pool.Stats().Leased)
}

func TestJobSessionUnavailable(t *testing.T) {
	site := browsertest.NewSite("CC")
	pool := browser.NewPool(site.Factory(), 1)
	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(held)

	_, err = newTestJob(t, pool).Run(context.Background(), "CC")
	require.ErrorIs(t, err, browser.ErrSessionUnavailable)
}

func TestJobHonoursCancellation(t *testing.T) {
	site := browsertest.NewSite("CC")
	site.AddResults("CC", 2, testRows("ANTH", 2)...)
	pool := browser.NewPool(site.Factory(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestJob(t, pool).Run(ctx, "CC")
	require.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsRetryable(err))
}

func TestJobDeadlineDuringPaginationFailsAndDiscardsSession(t *testing.T) {
	site := browsertest.NewSite("CC")
	site.AddResults("CC", 2, testRows("ANTH", 6)...)
	site.NextDelay = time.Hour
	pool := browser.NewPool(site.Factory(), 1)

	timeouts := testTimeouts()
	timeouts.Job = 50 * time.Millisecond
	job, err := NewJob(pool, browsertest.EntryURL, DefaultSelectors(), timeouts, 0)
	require.NoError(t, err)

	records, err := job.Run(context.Background(), "CC")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, records)
	assert.True(t, IsRetryable(err))

	stats := pool.Stats()
	assert.Equal(t, 0, stats.Live)
	assert.Equal(t, 0, stats.Idle)
	require.Len(t, site.Sessions(), 1)
	assert.True(t, site.Sessions()[0].Closed())
}

func TestJobWaitsForSlowResultPages(t *testing.T) {
	site := browsertest.NewSite("CC")
	site.AddResults("CC", 2, testRows("ANTH", 5)...)
	site.NextDelay = 10 * time.Millisecond
	pool := browser.NewPool(site.Factory(), 1)

	records, err := newTestJob(t, pool).Run(context.Background(), "CC")
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, []string{"CC#1", "CC#2", "CC#3"}, site.Sessions()[0].Visited())
}

type failingDiscard struct {
	*browser.Pool
}

func (f failingDiscard) Discard(session browser.Session) error {
	f.Pool.Discard(session)
	return errors.New("chrome did not exit")
}

func TestJobLogsDiscardFailure(t *testing.T) {
	var out bytes.Buffer
	logger.Configure(logger.Config{Level: logger.InfoLevel, Output: &out})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true}) })

	site := browsertest.NewSite("CC")
	site.NavigateErr = errors.New("connection reset")
	pool := browser.NewPool(site.Factory(), 1)
	job := newTestJob(t, pool)
	job.Sessions = failingDiscard{pool}

	_, err := job.Run(context.Background(), "CC")
	require.Error(t, err)
	assert.Contains(t, out.String(), "failed to discard session")
	assert.Contains(t, out.String(), "chrome did not exit")
	assert.Equal(t, 0, pool.Stats().Live)
}
