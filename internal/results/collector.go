// Package results collects test outcomes across a run and renders them as
// console summaries, JSON reports and HTML reports.
package results

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/common"
)

// Status is the outcome of a single check
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

// Outcome is one recorded check result
type Outcome struct {
	Category   string    `json:"category"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Details    string    `json:"details"`
	Screenshot string    `json:"screenshot,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Summary aggregates outcome counts for a run
type Summary struct {
	Total    int    `json:"total"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
	Skipped  int    `json:"skipped"`
	PassRate string `json:"pass_rate"`
}

// CategoryCount aggregates outcomes within one category
type CategoryCount struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
	Skip int `json:"skip"`
}

// Collector accumulates outcomes. Safe for concurrent use so browser event
// listeners and scenario goroutines can record without coordination.
type Collector struct {
	mu       sync.Mutex
	runID    string
	outcomes []Outcome
	passed   int
	failed   int
	skipped  int
	now      func() time.Time
}

// NewCollector creates an empty collector with a fresh run ID
func NewCollector() *Collector {
	return &Collector{
		runID: common.NewRunID(),
		now:   time.Now,
	}
}

// RunID returns the unique identifier for this run
func (c *Collector) RunID() string {
	return c.runID
}

// Record adds an outcome without a screenshot
func (c *Collector) Record(category, name string, status Status, details string) Outcome {
	return c.RecordWithScreenshot(category, name, status, details, "")
}

// RecordWithScreenshot adds an outcome and logs it in the run log
func (c *Collector) RecordWithScreenshot(category, name string, status Status, details, screenshot string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := Outcome{
		Category:   category,
		Name:       name,
		Status:     status,
		Details:    details,
		Screenshot: screenshot,
		Timestamp:  c.now(),
	}
	c.outcomes = append(c.outcomes, outcome)

	switch status {
	case StatusPass:
		c.passed++
	case StatusFail:
		c.failed++
	default:
		c.skipped++
	}

	logger := common.GetLogger()
	truncated := details
	if len(truncated) > 100 {
		truncated = truncated[:100]
	}
	switch status {
	case StatusFail:
		logger.Warn().Str("category", category).Msgf("[%s] %s: %s", status, name, truncated)
	default:
		logger.Info().Str("category", category).Msgf("[%s] %s: %s", status, name, truncated)
	}

	return outcome
}

// Pass records a passing outcome
func (c *Collector) Pass(category, name, details string) Outcome {
	return c.Record(category, name, StatusPass, details)
}

// Fail records a failing outcome
func (c *Collector) Fail(category, name, details string) Outcome {
	return c.Record(category, name, StatusFail, details)
}

// Skip records a skipped outcome
func (c *Collector) Skip(category, name, details string) Outcome {
	return c.Record(category, name, StatusSkip, details)
}

// Outcomes returns a copy of all recorded outcomes in insertion order
func (c *Collector) Outcomes() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Outcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// Failed returns only the failing outcomes
func (c *Collector) Failed() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	var failed []Outcome
	for _, o := range c.outcomes {
		if o.Status == StatusFail {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary returns aggregate counts. Pass rate is counted over all recorded
// outcomes including skips, matching the console summary format.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := len(c.outcomes)
	passRate := "0%"
	if total > 0 {
		passRate = fmt.Sprintf("%.1f%%", float64(c.passed)/float64(total)*100)
	}
	return Summary{
		Total:    total,
		Passed:   c.passed,
		Failed:   c.failed,
		Skipped:  c.skipped,
		PassRate: passRate,
	}
}

// Categories returns per-category counts
func (c *Collector) Categories() map[string]CategoryCount {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories := make(map[string]CategoryCount)
	for _, o := range c.outcomes {
		count := categories[o.Category]
		switch o.Status {
		case StatusPass:
			count.Pass++
		case StatusFail:
			count.Fail++
		default:
			count.Skip++
		}
		categories[o.Category] = count
	}
	return categories
}

// CategoryNames returns category names in sorted order for stable reports
func (c *Collector) CategoryNames() []string {
	categories := c.Categories()
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
