package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordAndCounts(t *testing.T) {
	c := NewCollector()

	c.Pass("Authentication", "Login with valid credentials", "logged in")
	c.Fail("Authentication", "Logout", "button not found")
	c.Skip("Navigation", "Tab switch", "no project loaded")
	c.Pass("Navigation", "Open dashboard", "")

	summary := c.Summary()
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "50.0%", summary.PassRate)
}

func TestCollector_EmptySummary(t *testing.T) {
	c := NewCollector()

	summary := c.Summary()
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, "0%", summary.PassRate)
}

func TestCollector_Categories(t *testing.T) {
	c := NewCollector()
	c.Pass("Authentication", "Login", "")
	c.Pass("Authentication", "Session persists", "")
	c.Fail("Authentication", "Logout", "")
	c.Skip("Generation", "Full pipeline", "generation not triggered")

	categories := c.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, CategoryCount{Pass: 2, Fail: 1}, categories["Authentication"])
	assert.Equal(t, CategoryCount{Skip: 1}, categories["Generation"])

	assert.Equal(t, []string{"Authentication", "Generation"}, c.CategoryNames())
}

func TestCollector_FailedFilter(t *testing.T) {
	c := NewCollector()
	c.Pass("A", "ok", "")
	c.Fail("A", "broken one", "detail1")
	c.Fail("B", "broken two", "detail2")

	failed := c.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "broken one", failed[0].Name)
	assert.Equal(t, "broken two", failed[1].Name)
}

func TestCollector_OutcomesAreCopies(t *testing.T) {
	c := NewCollector()
	c.Pass("A", "first", "")

	outcomes := c.Outcomes()
	outcomes[0].Name = "mutated"

	assert.Equal(t, "first", c.Outcomes()[0].Name)
}

func TestCollector_RunID(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	assert.True(t, strings.HasPrefix(a.RunID(), "run_"))
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestCollector_Timestamps(t *testing.T) {
	c := NewCollector()
	fixed := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	outcome := c.Pass("A", "x", "")
	assert.Equal(t, fixed, outcome.Timestamp)
}

func TestReport_WriteJSON(t *testing.T) {
	c := NewCollector()
	c.Pass("Authentication", "Login", "ok")
	c.Fail("Generation", "Pipeline", "stalled at pass 8")

	report := c.BuildReport(ReportTarget{URL: "http://localhost:3000", Project: "daadvracht", Language: "Dutch"})

	path := filepath.Join(t.TempDir(), "test_report.json")
	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"pass_rate": "50.0%"`)
	assert.Contains(t, content, `"project": "daadvracht"`)
	assert.Contains(t, content, "stalled at pass 8")
	assert.Contains(t, content, report.RunID)
}

func TestReport_Markdown(t *testing.T) {
	c := NewCollector()
	c.Pass("Authentication", "Login", "ok")
	c.Fail("Generation", "Pipeline", "stalled at pass 8")

	report := c.BuildReport(ReportTarget{URL: "http://localhost:3000", Project: "daadvracht", Language: "Dutch"})
	md := report.Markdown()

	assert.Contains(t, md, "# Test Report")
	assert.Contains(t, md, "## Failed Tests")
	assert.Contains(t, md, "**Generation / Pipeline**: stalled at pass 8")
	assert.Contains(t, md, "| Authentication | 1 | 0 | 0 |")
}

func TestReport_WriteHTML(t *testing.T) {
	c := NewCollector()
	c.Pass("Authentication", "Login", "ok")

	report := c.BuildReport(ReportTarget{URL: "http://localhost:3000", Project: "daadvracht", Language: "Dutch"})

	path := filepath.Join(t.TempDir(), "test_report.html")
	require.NoError(t, report.WriteHTML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<table>")
	assert.Contains(t, content, "Authentication")
}
