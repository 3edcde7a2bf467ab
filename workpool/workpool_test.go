package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSize(t *testing.T) {
	size := DefaultSize()
	assert.GreaterOrEqual(t, size, 1)
	assert.LessOrEqual(t, size, MaxDefaultSize)
}

func TestNew(t *testing.T) {
	p, err := New(0)
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, DefaultSize(), p.Size())

	p2, err := New(2)
	require.NoError(t, err)
	defer p2.Release()
	assert.Equal(t, 2, p2.Size())
}

func TestSubmitAwait(t *testing.T) {
	ctx := context.Background()
	p, err := New(2)
	require.NoError(t, err)
	defer p.Release()

	t.Run("value", func(t *testing.T) {
		task, err := Submit(p, func() (string, error) { return "done", nil })
		require.NoError(t, err)

		v, err := task.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "done", v)
	})

	t.Run("error", func(t *testing.T) {
		want := errors.New("boom")
		task, err := Submit(p, func() (int, error) { return 0, want })
		require.NoError(t, err)

		_, err = task.Await(ctx)
		assert.ErrorIs(t, err, want)
	})

	t.Run("panic becomes error", func(t *testing.T) {
		task, err := Submit(p, func() (int, error) { panic("bad") })
		require.NoError(t, err)

		_, err = task.Await(ctx)
		assert.ErrorIs(t, err, ErrTaskPanicked)
	})

	t.Run("await honours context", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		task, err := Submit(p, func() (int, error) {
			<-release
			return 1, nil
		})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = task.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBoundedConcurrency(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Release()

	var running, peak atomic.Int32
	tasks := make([]*Task[struct{}], 6)
	for i := range tasks {
		tasks[i], err = Submit(p, func() (struct{}, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return struct{}{}, nil
		})
		require.NoError(t, err)
	}
	for _, task := range tasks {
		_, err := task.Await(context.Background())
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSubmitAfterRelease(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)
	p.Release()

	_, err = Submit(p, func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}
