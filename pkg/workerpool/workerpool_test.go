package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProcessesAllItems(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := make([]int, len(items))

	err := Run(context.Background(), 3, items, func(_ context.Context, i, v int) error {
		results[i] = v * 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80}, results)
}

func TestRunEmptyItems(t *testing.T) {
	err := Run(context.Background(), 4, nil, func(_ context.Context, _ int, _ struct{}) error {
		t.Fatal("fn called with no items")
		return nil
	})
	require.NoError(t, err)
}

func TestRunReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls int32

	err := Run(context.Background(), 2, []int{1, 2, 3, 4, 5, 6}, func(_ context.Context, _ int, v int) error {
		atomic.AddInt32(&calls, 1)
		if v == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	// The error cancels the feeder, so not every item runs.
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(6))
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, 2, []int{1, 2, 3}, func(_ context.Context, _ int, _ int) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunDefaultsWorkerCount(t *testing.T) {
	var calls int32
	err := Run(context.Background(), 0, []int{1, 2, 3}, func(_ context.Context, _ int, _ int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
