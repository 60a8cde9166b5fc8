package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/waitfor"
)

// WaitForPassStart blocks until the pass is observed starting or the timeout
// expires.
func (m *Monitor) WaitForPassStart(ctx context.Context, pass int, timeout time.Duration) waitfor.Result {
	return waitfor.Until(ctx, waitfor.Options{
		Timeout:     timeout,
		Interval:    time.Second,
		Description: fmt.Sprintf("pass %d to start", pass),
	}, func() (bool, error) {
		_, started := m.PassStarted(pass)
		return started, nil
	})
}

// WaitForTransition blocks until pass "to" is observed starting, which is the
// only reliable signal that the "from" handoff succeeded.
func (m *Monitor) WaitForTransition(ctx context.Context, from, to int, timeout time.Duration) waitfor.Result {
	return waitfor.Until(ctx, waitfor.Options{
		Timeout:     timeout,
		Interval:    time.Second,
		Description: fmt.Sprintf("pass %d to %d transition", from, to),
	}, func() (bool, error) {
		_, started := m.PassStarted(to)
		return started, nil
	})
}

// AwaitCompletion blocks until the final pass completes. Critical page errors
// abort the wait early since generation will not recover from them.
func (m *Monitor) AwaitCompletion(ctx context.Context, totalPasses int, timeout time.Duration) waitfor.Result {
	return waitfor.Until(ctx, waitfor.Options{
		Timeout:     timeout,
		Interval:    5 * time.Second,
		Description: fmt.Sprintf("all %d passes to complete", totalPasses),
	}, func() (bool, error) {
		if critical := m.CriticalErrors(); len(critical) > 0 {
			return false, fmt.Errorf("critical errors during generation: %v", critical)
		}
		_, completed := m.PassCompleted(totalPasses)
		return completed, nil
	})
}

// ObserveForStall watches the stall clock for the observation window. It
// returns true as soon as silence strictly exceeds the threshold; a full
// window without a stall returns false.
func (m *Monitor) ObserveForStall(ctx context.Context, threshold, window time.Duration) (bool, time.Duration) {
	result := waitfor.Until(ctx, waitfor.Options{
		Timeout:     window,
		Interval:    5 * time.Second,
		Description: "stall detection window",
	}, func() (bool, error) {
		return m.Stalled(threshold), nil
	})
	return result.Ok, m.StallElapsed()
}
