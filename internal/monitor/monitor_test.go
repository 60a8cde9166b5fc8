package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance observed time deterministically
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time {
	return f.current
}

func (f *fakeClock) advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newTestMonitor() (*Monitor, *fakeClock) {
	clock := newFakeClock()
	m := New()
	m.now = clock.now
	m.lastActivity = clock.now()
	return m, clock
}

func TestOnConsole_CompletionLine(t *testing.T) {
	m, _ := newTestMonitor()

	m.OnConsole("[runPasses] After Pass 3: current_pass=4")

	_, completed := m.PassCompleted(3)
	assert.True(t, completed)
	_, completed4 := m.PassCompleted(4)
	assert.False(t, completed4)
}

func TestOnConsole_StartLineSetsWatermark(t *testing.T) {
	m, _ := newTestMonitor()

	m.OnConsole("Pass 5: Enriching micro semantics")

	_, started := m.PassStarted(5)
	assert.True(t, started)
	assert.Equal(t, 5, m.LastPassSeen())
}

func TestWatermarkNeverDecreases(t *testing.T) {
	m, _ := newTestMonitor()

	m.OnConsole("Pass 7: Writing introduction")
	assert.Equal(t, 7, m.LastPassSeen())

	// A lower pass number in a later line must not move the watermark back
	m.OnConsole("Pass 3: retry notice")
	assert.Equal(t, 7, m.LastPassSeen())

	// Nor does it record a start for the stale pass
	_, started := m.PassStarted(3)
	assert.False(t, started)

	m.OnConsole("Pass 8: Polishing")
	assert.Equal(t, 8, m.LastPassSeen())
}

func TestOnConsole_LiteralTransitionSequence(t *testing.T) {
	m, clock := newTestMonitor()

	m.OnConsole("[runPasses] After Pass 8: current_pass=9")
	completedAt, completed := m.PassCompleted(8)
	require.True(t, completed)
	assert.Equal(t, clock.now(), completedAt)

	clock.advance(10 * time.Second)
	m.OnConsole("Pass 9: Optimizing flow")

	startedAt, started := m.PassStarted(9)
	require.True(t, started)
	assert.Equal(t, clock.now(), startedAt)
	assert.Equal(t, 9, m.LastPassSeen())
}

func TestOnConsole_UnmatchedLinesStillCountAsActivity(t *testing.T) {
	m, clock := newTestMonitor()

	clock.advance(90 * time.Second)
	m.OnConsole("some unrelated debug output")

	assert.Equal(t, 1, m.LineCount())
	assert.Equal(t, time.Duration(0), m.StallElapsed())
	assert.Equal(t, 0, m.LastPassSeen())
}

func TestStalled_StrictThreshold(t *testing.T) {
	m, clock := newTestMonitor()
	threshold := 120 * time.Second

	m.OnConsole("Pass 1: Drafting")

	clock.advance(threshold)
	assert.False(t, m.Stalled(threshold), "exactly at threshold is not yet a stall")

	clock.advance(time.Millisecond)
	assert.True(t, m.Stalled(threshold), "strictly past threshold is a stall")

	// Any new line resets the stall clock
	m.OnConsole("Pass 2: Building headers")
	assert.False(t, m.Stalled(threshold))
}

func TestCheckTransition_WithinWindow(t *testing.T) {
	m, clock := newTestMonitor()
	window := 300 * time.Second

	m.OnConsole("[runPasses] After Pass 8: current_pass=9")
	clock.advance(45 * time.Second)
	m.OnConsole("Pass 9: Auditing")

	check := m.CheckTransition(8, 9, window)
	assert.True(t, check.Ok)
	assert.Equal(t, 45*time.Second, check.Elapsed)
	assert.Empty(t, check.Diagnosis)
}

func TestCheckTransition_BoundaryEqualsWindow(t *testing.T) {
	m, clock := newTestMonitor()
	window := 300 * time.Second

	m.OnConsole("[runPasses] After Pass 8: current_pass=9")
	clock.advance(window)
	m.OnConsole("Pass 9: Auditing")

	check := m.CheckTransition(8, 9, window)
	assert.True(t, check.Ok, "elapsed equal to the window must pass")
	assert.Equal(t, window, check.Elapsed)
}

func TestCheckTransition_PastWindowFails(t *testing.T) {
	m, clock := newTestMonitor()
	window := 300 * time.Second

	m.OnConsole("[runPasses] After Pass 8: current_pass=9")
	clock.advance(window + time.Second)
	m.OnConsole("Pass 9: Auditing")

	check := m.CheckTransition(8, 9, window)
	assert.False(t, check.Ok)
	assert.Equal(t, window+time.Second, check.Elapsed)
	assert.Contains(t, check.Diagnosis, "window was 5m0s")
}

func TestCheckTransition_StuckHandoffDiagnosis(t *testing.T) {
	m, clock := newTestMonitor()

	m.OnConsole("[runPasses] After Pass 8: current_pass=9")
	clock.advance(10 * time.Minute)

	check := m.CheckTransition(8, 9, 300*time.Second)
	assert.False(t, check.Ok)
	assert.Equal(t, "pass 8 completed but pass 9 never started", check.Diagnosis)
}

func TestCheckTransition_NothingObserved(t *testing.T) {
	m, _ := newTestMonitor()

	check := m.CheckTransition(8, 9, 300*time.Second)
	assert.False(t, check.Ok)
	assert.Contains(t, check.Diagnosis, "neither pass 8 completion nor pass 9 start")
}

func TestCheckTransition_StartWithoutCompletionLine(t *testing.T) {
	m, _ := newTestMonitor()

	m.OnConsole("Pass 9: Auditing")

	check := m.CheckTransition(8, 9, 300*time.Second)
	assert.True(t, check.Ok)
}

func TestFullPipelineRun(t *testing.T) {
	m, clock := newTestMonitor()
	threshold := 120 * time.Second

	for pass := 1; pass <= 10; pass++ {
		m.OnConsole(fmt.Sprintf("Pass %d: working", pass))
		assert.False(t, m.Stalled(threshold))
		clock.advance(30 * time.Second)
		m.OnConsole(fmt.Sprintf("[runPasses] After Pass %d: current_pass=%d", pass, pass+1))
		clock.advance(5 * time.Second)
	}

	summary := m.Summary()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, summary.PassesStarted)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, summary.PassesCompleted)
	assert.Equal(t, 10, summary.LastPassSeen)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, 20, summary.TotalLogs)

	_, completed := m.PassCompleted(10)
	assert.True(t, completed)
}

func TestOnError_RecordsAndFilters(t *testing.T) {
	m, _ := newTestMonitor()

	m.OnError("TypeError: Cannot read properties of undefined")
	m.OnError("warning: slow frame")
	m.OnError("CRITICAL generation aborted")

	assert.Len(t, m.Errors(), 3)

	critical := m.CriticalErrors()
	require.Len(t, critical, 2)
	assert.Contains(t, critical[0], "TypeError")
	assert.Contains(t, critical[1], "CRITICAL")
}

func TestWaitForPassStart(t *testing.T) {
	m := New()

	go func() {
		time.Sleep(30 * time.Millisecond)
		m.OnConsole("Pass 2: Building headers")
	}()

	result := m.WaitForPassStart(context.Background(), 2, 2*time.Second)
	assert.True(t, result.Ok)
}

func TestWaitForPassStart_Timeout(t *testing.T) {
	m := New()

	result := m.WaitForPassStart(context.Background(), 2, 50*time.Millisecond)
	assert.False(t, result.Ok)
	assert.True(t, result.TimedOut)
}

func TestAwaitCompletion(t *testing.T) {
	m := New()
	m.OnConsole("[runPasses] After Pass 10: current_pass=11")

	result := m.AwaitCompletion(context.Background(), 10, time.Second)
	assert.True(t, result.Ok)
}

func TestAwaitCompletion_CriticalErrorAborts(t *testing.T) {
	m := New()
	m.OnError("Error: generation crashed")

	result := m.AwaitCompletion(context.Background(), 10, 5*time.Second)
	assert.False(t, result.Ok)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "critical errors")
	assert.Less(t, result.Elapsed, time.Second, "critical errors must abort without waiting out the budget")
}
