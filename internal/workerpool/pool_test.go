package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsTask(t *testing.T) {
	p := New(Config{Workers: 2, QueueSize: 4})
	defer p.Shutdown(context.Background())

	var ran atomic.Bool
	err := p.Do(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())

	wantErr := errors.New("boom")
	err = p.Do(context.Background(), func(ctx context.Context) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	st := p.Stats()
	assert.Equal(t, 2, st.Workers)
	assert.EqualValues(t, 2, st.Submitted)
	assert.EqualValues(t, 2, st.Completed)
	assert.EqualValues(t, 1, st.Failed)
}

func TestConcurrencyIsBounded(t *testing.T) {
	const workers = 3
	p := New(Config{Workers: workers, QueueSize: 20})
	defer p.Shutdown(context.Background())

	var (
		current atomic.Int64
		peak    atomic.Int64
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(context.Background(), func(ctx context.Context) error {
				n := current.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				current.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(workers))
	assert.EqualValues(t, 20, p.Stats().Completed)
}

func TestDoRecoversPanic(t *testing.T) {
	p := New(Config{Workers: 1})
	defer p.Shutdown(context.Background())

	err := p.Do(context.Background(), func(ctx context.Context) error {
		panic("nil map write")
	})
	require.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "nil map write")

	// the worker survives
	assert.NoError(t, p.Do(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestDoHonoursCallerDeadline(t *testing.T) {
	p := New(Config{Workers: 1})
	defer p.Shutdown(context.Background())

	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func(ctx context.Context) error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoAfterShutdown(t *testing.T) {
	p := New(Config{Workers: 2})
	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, p.Closed())

	err := p.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestShutdownWaitsForRunningTask(t *testing.T) {
	p := New(Config{Workers: 1})

	started := make(chan struct{})
	var finished atomic.Bool
	go p.Do(context.Background(), func(ctx context.Context) error {
		close(started)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	<-started

	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, finished.Load())
}

func TestNewClampsWorkers(t *testing.T) {
	p := New(Config{Workers: 0, QueueSize: -1})
	defer p.Shutdown(context.Background())
	assert.Equal(t, 1, p.Stats().Workers)
}
