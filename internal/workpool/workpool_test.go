// internal/workpool/workpool_test.go
package workpool

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

func TestForEach_NeverExceedsLimit(t *testing.T) {
	items := make([]int, 10)
	var inFlight, peak, done int32

	err := ForEach(context.Background(), 3, items, func(ctx context.Context, _ int, _ int) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&done, 1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(10), atomic.LoadInt32(&done))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&peak), "slow tasks should saturate the pool")
}

func TestForEach_DispatchFollowsInputOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	var mu sync.Mutex
	var started []string

	err := ForEach(context.Background(), 1, items, func(ctx context.Context, _ int, item string) error {
		mu.Lock()
		started = append(started, item)
		mu.Unlock()
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, items, started)
}

func TestForEach_ErrorAbortsBatch(t *testing.T) {
	items := make([]int, 50)
	boom := errors.New("boom")
	var calls int32

	err := ForEach(context.Background(), 2, items, func(ctx context.Context, i int, _ int) error {
		atomic.AddInt32(&calls, 1)
		if i == 1 {
			return boom
		}
		select {
		case <-ctx.Done():
		case <-time.After(10 * time.Millisecond):
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Less(t, atomic.LoadInt32(&calls), int32(50), "dispatch should stop after the first failure")
}

func TestForEach_NonPositiveLimit(t *testing.T) {
	var calls int32
	err := ForEach(context.Background(), 0, []int{1, 2, 3}, func(ctx context.Context, _ int, _ int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls)
}

func TestForEach_Empty(t *testing.T) {
	err := ForEach(context.Background(), 4, []int(nil), func(ctx context.Context, _ int, _ int) error {
		t.Fatal("fn must not be called")
		return nil
	})
	assert.NoError(t, err)
}
