package refresh

import (
	"context"
	"fmt"
	"time"

	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"
)

const DefaultBatchSize = 100

// Store is the persistence side of the course snapshot.
type Store interface {
	ClearAll(ctx context.Context) error
	InsertBatch(ctx context.Context, records []entity.CourseRecord) error
	SetLastRefreshed(ctx context.Context, at time.Time) error
}

// Stage names the step of a refresh that failed.
type Stage string

const (
	StageClear     Stage = "clear"
	StageInsert    Stage = "insert"
	StageTimestamp Stage = "timestamp"
)

// Error is a persistence failure, reported separately from scrape failures
// because the snapshot may now be empty or partial.
type Error struct {
	Stage    Stage
	Batch    int
	Inserted int
	Err      error
}

func (e *Error) Error() string {
	if e.Stage == StageInsert {
		return fmt.Sprintf("refresh %s batch %d failed after %d records: %v", e.Stage, e.Batch, e.Inserted, e.Err)
	}
	return fmt.Sprintf("refresh %s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pipeline replaces the stored snapshot with a new record set.
type Pipeline struct {
	Store     Store
	BatchSize int
	Now       func() time.Time
}

func NewPipeline(store Store, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		Store:     store,
		BatchSize: batchSize,
		Now:       time.Now,
	}
}

// Replace clears the snapshot once, inserts records in batches each committed
// on its own, then stamps the refresh time. Readers may observe an empty or
// partial snapshot while it runs. The timestamp only moves on full success.
func (p *Pipeline) Replace(ctx context.Context, records []entity.CourseRecord) (time.Time, error) {
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	if err := p.Store.ClearAll(ctx); err != nil {
		return time.Time{}, &Error{Stage: StageClear, Err: err}
	}

	inserted := 0
	for batch, start := 0, 0; start < len(records); batch, start = batch+1, start+batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := p.Store.InsertBatch(ctx, records[start:end]); err != nil {
			return time.Time{}, &Error{Stage: StageInsert, Batch: batch, Inserted: inserted, Err: err}
		}
		inserted = end
	}

	at := now()
	if err := p.Store.SetLastRefreshed(ctx, at); err != nil {
		return time.Time{}, &Error{Stage: StageTimestamp, Inserted: inserted, Err: err}
	}
	logger.Info().Int("records", inserted).Time("refreshed_at", at).Msg("snapshot replaced")
	return at, nil
}
