package maintenance

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/recordstore/internal/database"
)

type fakeMaintainer struct {
	optimized int
	vacuumed  int
	err       error
}

func (f *fakeMaintainer) Optimize(ctx context.Context) error {
	f.optimized++
	return f.err
}

func (f *fakeMaintainer) Vacuum(ctx context.Context) error {
	f.vacuumed++
	return f.err
}

func TestRunOnce(t *testing.T) {
	f := &fakeMaintainer{}

	require.NoError(t, NewScheduler(f, false).RunOnce(context.Background()))
	assert.Equal(t, 1, f.optimized)
	assert.Equal(t, 0, f.vacuumed)

	require.NoError(t, NewScheduler(f, true).RunOnce(context.Background()))
	assert.Equal(t, 2, f.optimized)
	assert.Equal(t, 1, f.vacuumed)
}

func TestRunOnce_StopsOnOptimizeError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeMaintainer{err: boom}

	err := NewScheduler(f, true).RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.vacuumed)
}

func TestRunOnce_Store(t *testing.T) {
	store := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Migrate(context.Background()))

	require.NoError(t, NewScheduler(store, true).RunOnce(context.Background()))
	assert.False(t, store.IsOpen())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&fakeMaintainer{}, false)

	require.NoError(t, s.Start("@hourly"))
	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), next, 31*time.Minute)

	require.Error(t, s.Start("@hourly"), "second start")

	s.Stop()
	assert.True(t, s.NextRun().IsZero())
	s.Stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&fakeMaintainer{}, false)

	err := s.Start("every now and then")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid maintenance schedule")
}

// blockingMaintainer holds Optimize open until its context is cancelled.
type blockingMaintainer struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingMaintainer) Optimize(ctx context.Context) error {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingMaintainer) Vacuum(ctx context.Context) error {
	return nil
}

func TestStop_WhileRunInProgress(t *testing.T) {
	b := &blockingMaintainer{started: make(chan struct{})}
	s := NewScheduler(b, false)

	require.NoError(t, s.Start("@every 1s"))

	select {
	case <-b.started:
	case <-time.After(5 * time.Second):
		s.Stop()
		t.Fatal("scheduled run never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return while a run was in progress")
	}
	assert.True(t, s.NextRun().IsZero())
}
