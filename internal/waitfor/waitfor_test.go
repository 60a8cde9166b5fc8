package waitfor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil_ImmediateSuccess(t *testing.T) {
	result := Until(context.Background(), Options{Timeout: time.Second}, func() (bool, error) {
		return true, nil
	})

	assert.True(t, result.Ok)
	assert.False(t, result.TimedOut)
	assert.NoError(t, result.Err)
}

func TestUntil_SucceedsAfterPolling(t *testing.T) {
	var calls int32
	result := Until(context.Background(), Options{Timeout: 5 * time.Second, Interval: 10 * time.Millisecond}, func() (bool, error) {
		return atomic.AddInt32(&calls, 1) >= 3, nil
	})

	assert.True(t, result.Ok)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestUntil_Timeout(t *testing.T) {
	result := Until(context.Background(), Options{
		Timeout:     50 * time.Millisecond,
		Interval:    10 * time.Millisecond,
		Description: "element to appear",
	}, func() (bool, error) {
		return false, nil
	})

	assert.False(t, result.Ok)
	assert.True(t, result.TimedOut)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "element to appear")
	assert.GreaterOrEqual(t, result.Elapsed, 50*time.Millisecond)
}

func TestUntil_PredicateError(t *testing.T) {
	boom := errors.New("session closed")
	result := Until(context.Background(), Options{Timeout: time.Second, Interval: 10 * time.Millisecond}, func() (bool, error) {
		return false, boom
	})

	assert.False(t, result.Ok)
	assert.False(t, result.TimedOut)
	assert.ErrorIs(t, result.Err, boom)
}

func TestUntil_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result := Until(ctx, Options{Interval: 10 * time.Millisecond}, func() (bool, error) {
		return false, nil
	})

	assert.False(t, result.Ok)
	assert.False(t, result.TimedOut)
	assert.ErrorIs(t, result.Err, context.Canceled)
}
