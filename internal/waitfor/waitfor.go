// Package waitfor provides a polling wait primitive for conditions that
// become true asynchronously, such as DOM state or console log activity.
package waitfor

import (
	"context"
	"fmt"
	"time"
)

// Predicate reports whether the awaited condition holds. Returning a non-nil
// error aborts the wait immediately.
type Predicate func() (bool, error)

// Options controls a single wait
type Options struct {
	// Timeout is the total wait budget. Zero means wait until ctx is done.
	Timeout time.Duration
	// Interval between predicate evaluations. Defaults to 500ms.
	Interval time.Duration
	// Description names the condition for timeout error messages
	Description string
}

// Result describes the outcome of a wait
type Result struct {
	Ok       bool
	TimedOut bool
	Elapsed  time.Duration
	Err      error
}

// Until polls the predicate until it returns true, the timeout expires, the
// context is cancelled, or the predicate errors. The predicate is evaluated
// once immediately before any ticking starts.
func Until(ctx context.Context, opts Options, predicate Predicate) Result {
	interval := opts.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	check := func() (Result, bool) {
		ok, err := predicate()
		if err != nil {
			return Result{Elapsed: time.Since(start), Err: err}, true
		}
		if ok {
			return Result{Ok: true, Elapsed: time.Since(start)}, true
		}
		return Result{}, false
	}

	if result, done := check(); done {
		return result
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			elapsed := time.Since(start)
			if ctx.Err() == context.DeadlineExceeded {
				return Result{
					TimedOut: true,
					Elapsed:  elapsed,
					Err:      timeoutError(opts.Description, elapsed),
				}
			}
			return Result{Elapsed: elapsed, Err: ctx.Err()}
		case <-ticker.C:
			if result, done := check(); done {
				return result
			}
		}
	}
}

func timeoutError(description string, elapsed time.Duration) error {
	if description == "" {
		return fmt.Errorf("condition not met after %s", elapsed.Round(time.Millisecond))
	}
	return fmt.Errorf("timed out waiting for %s after %s", description, elapsed.Round(time.Millisecond))
}
