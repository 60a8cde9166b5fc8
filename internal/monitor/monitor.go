// Package monitor tracks content generation progress by scraping browser
// console output. The generation pipeline is a black box observable only
// through its log lines, so progress is reconstructed from three known line
// shapes emitted by the pass runner.
package monitor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/common"
)

var (
	// "[runPasses] After Pass 8: current_pass=9"
	passCompletePattern = regexp.MustCompile(`\[runPasses\] After Pass (\d+): current_pass=(\d+)`)
	// "[Pass8] COMPLETED pass 8" from the section pass runner
	sectionCompletePattern = regexp.MustCompile(`\[Pass(\d+)\] COMPLETED pass (\d+)`)
	// "Pass 9: Optimizing flow" from onLog progress lines
	passStartPattern = regexp.MustCompile(`Pass (\d+):`)
)

// Monitor reconstructs generation progress from console log lines. Safe for
// concurrent use: chromedp delivers console events on a listener goroutine
// while scenarios poll state from their own loop.
type Monitor struct {
	mu            sync.Mutex
	lines         []string
	errors        []string
	passStarts    map[int]time.Time
	passCompletes map[int]time.Time
	lastPassSeen  int
	lastActivity  time.Time

	now func() time.Time
}

// New creates a monitor. The stall clock starts at creation time.
func New() *Monitor {
	m := &Monitor{
		passStarts:    make(map[int]time.Time),
		passCompletes: make(map[int]time.Time),
		now:           time.Now,
	}
	m.lastActivity = m.now()
	return m
}

// OnConsole processes one console log line. Unrecognized lines still count as
// activity; they reset the stall clock and increment the line total.
func (m *Monitor) OnConsole(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lines = append(m.lines, text)
	m.lastActivity = now

	logger := common.GetLogger()

	if match := passCompletePattern.FindStringSubmatch(text); match != nil {
		completedPass, _ := strconv.Atoi(match[1])
		nextPass, _ := strconv.Atoi(match[2])
		m.passCompletes[completedPass] = now
		logger.Info().Int("completed", completedPass).Int("next", nextPass).
			Msgf("Pass %d completed, advancing to %d", completedPass, nextPass)
	}

	if match := sectionCompletePattern.FindStringSubmatch(text); match != nil {
		passNum, _ := strconv.Atoi(match[1])
		logger.Debug().Msgf("Pass %d completed (section runner)", passNum)
	}

	if match := passStartPattern.FindStringSubmatch(text); match != nil {
		passNum, _ := strconv.Atoi(match[1])
		if passNum > m.lastPassSeen {
			m.lastPassSeen = passNum
			m.passStarts[passNum] = now
			logger.Info().Int("pass", passNum).Msgf("Pass %d (%s) started", passNum, common.PassLabel(passNum))
		}
	}
}

// OnError records a page error. Errors also count as activity.
func (m *Monitor) OnError(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = append(m.errors, text)
	m.lastActivity = m.now()

	common.GetLogger().Warn().Msgf("Page error: %s", text)
}

// PassStarted returns when the pass was first observed starting
func (m *Monitor) PassStarted(pass int) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.passStarts[pass]
	return t, ok
}

// PassCompleted returns when the pass was observed completing
func (m *Monitor) PassCompleted(pass int) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.passCompletes[pass]
	return t, ok
}

// LastPassSeen returns the highest pass number observed starting. The value
// never decreases over the lifetime of a run.
func (m *Monitor) LastPassSeen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPassSeen
}

// LineCount returns the total number of console lines observed
func (m *Monitor) LineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// Errors returns a copy of all recorded page errors
func (m *Monitor) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.errors))
	copy(out, m.errors)
	return out
}

// CriticalErrors filters errors that indicate generation may have aborted
func (m *Monitor) CriticalErrors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var critical []string
	for _, e := range m.errors {
		if strings.Contains(e, "Error") || strings.Contains(e, "CRITICAL") {
			critical = append(critical, e)
		}
	}
	return critical
}

// StallElapsed returns how long ago the last activity was observed
func (m *Monitor) StallElapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.lastActivity)
}

// Stalled reports whether the silence strictly exceeds the threshold. Exactly
// at the threshold is not yet a stall.
func (m *Monitor) Stalled(threshold time.Duration) bool {
	return m.StallElapsed() > threshold
}

// TransitionCheck is the result of a pass transition assertion
type TransitionCheck struct {
	Ok        bool
	Elapsed   time.Duration
	Diagnosis string
}

// CheckTransition verifies that pass "to" started within the window after
// pass "from" completed. An elapsed time exactly equal to the window still
// passes; only strictly exceeding it fails. When "from" completed but "to"
// never started the diagnosis names the stuck handoff.
func (m *Monitor) CheckTransition(from, to int, window time.Duration) TransitionCheck {
	m.mu.Lock()
	defer m.mu.Unlock()

	toStart, toStarted := m.passStarts[to]
	fromComplete, fromCompleted := m.passCompletes[from]

	if !toStarted {
		check := TransitionCheck{Ok: false}
		if fromCompleted {
			check.Diagnosis = fmt.Sprintf("pass %d completed but pass %d never started", from, to)
		} else {
			check.Diagnosis = fmt.Sprintf("neither pass %d completion nor pass %d start observed", from, to)
		}
		return check
	}

	if !fromCompleted {
		// Next pass started without an observed completion line. Treat the
		// handoff as successful; the completion log may simply be missing.
		return TransitionCheck{Ok: true}
	}

	elapsed := toStart.Sub(fromComplete)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > window {
		return TransitionCheck{
			Ok:        false,
			Elapsed:   elapsed,
			Diagnosis: fmt.Sprintf("pass %d started %s after pass %d completed, window was %s", to, elapsed, from, window),
		}
	}
	return TransitionCheck{Ok: true, Elapsed: elapsed}
}

// Summary is a snapshot of observed progress
type Summary struct {
	PassesStarted   []int `json:"passes_started"`
	PassesCompleted []int `json:"passes_completed"`
	LastPassSeen    int   `json:"last_pass_seen"`
	ErrorCount      int   `json:"error_count"`
	TotalLogs       int   `json:"total_logs"`
}

// Summary returns the current progress snapshot with sorted pass lists
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	started := make([]int, 0, len(m.passStarts))
	for pass := range m.passStarts {
		started = append(started, pass)
	}
	sort.Ints(started)

	completed := make([]int, 0, len(m.passCompletes))
	for pass := range m.passCompletes {
		completed = append(completed, pass)
	}
	sort.Ints(completed)

	return Summary{
		PassesStarted:   started,
		PassesCompleted: completed,
		LastPassSeen:    m.lastPassSeen,
		ErrorCount:      len(m.errors),
		TotalLogs:       len(m.lines),
	}
}
