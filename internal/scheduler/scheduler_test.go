package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ge-course-scraper/internal/controllers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) RunCycle(ctx context.Context) (*controllers.CycleResult, error) {
	r.calls.Add(1)
	return &controllers.CycleResult{}, r.err
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := New(&countingRunner{})
	assert.Error(t, s.Schedule(context.Background(), "every minute please"))
}

func TestScheduleRunsCycles(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner)
	require.NoError(t, s.Schedule(context.Background(), "@every 1s"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestTickSkipsAfterCancel(t *testing.T) {
	runner := &countingRunner{err: controllers.ErrCycleRunning}
	s := New(runner)

	s.Tick(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Tick(ctx)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestScheduleDegreeSync(t *testing.T) {
	var calls atomic.Int32
	sync := func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 3, nil
	}
	s := New(&countingRunner{})
	assert.Error(t, s.ScheduleDegreeSync(context.Background(), "fortnightly", sync))
	require.NoError(t, s.ScheduleDegreeSync(context.Background(), "@every 1s", sync))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSyncDegreesSkipsAfterCancel(t *testing.T) {
	var calls atomic.Int32
	sync := func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("catalog unreachable")
	}

	SyncDegrees(context.Background(), sync)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	SyncDegrees(ctx, sync)
	assert.Equal(t, int32(1), calls.Load())
}
