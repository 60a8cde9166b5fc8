package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ReportTarget identifies the application instance a report was produced against
type ReportTarget struct {
	URL      string `json:"url"`
	Project  string `json:"project"`
	Language string `json:"language"`
}

// Report is the serializable run report written as test_report.json
type Report struct {
	RunID      string                   `json:"run_id"`
	Summary    Summary                  `json:"summary"`
	Categories map[string]CategoryCount `json:"categories"`
	Tests      []Outcome                `json:"tests"`
	Timestamp  time.Time                `json:"timestamp"`
	Config     ReportTarget             `json:"config"`
}

// BuildReport snapshots the collector into a report
func (c *Collector) BuildReport(target ReportTarget) Report {
	return Report{
		RunID:      c.RunID(),
		Summary:    c.Summary(),
		Categories: c.Categories(),
		Tests:      c.Outcomes(),
		Timestamp:  time.Now(),
		Config:     target,
	}
}

// WriteJSON writes the report as indented JSON
func (r Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// Markdown renders the report as a markdown document
func (r Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Test Report\n\n")
	fmt.Fprintf(&b, "Run `%s` at %s against %s\n\n", r.RunID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Config.URL)
	fmt.Fprintf(&b, "Project: **%s** (%s)\n\n", r.Config.Project, r.Config.Language)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Total | Passed | Failed | Skipped | Pass Rate |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %s |\n\n",
		r.Summary.Total, r.Summary.Passed, r.Summary.Failed, r.Summary.Skipped, r.Summary.PassRate)

	if len(r.Categories) > 0 {
		fmt.Fprintf(&b, "## Results by Category\n\n")
		fmt.Fprintf(&b, "| Category | Passed | Failed | Skipped |\n")
		fmt.Fprintf(&b, "|---|---|---|---|\n")
		names := make([]string, 0, len(r.Categories))
		for name := range r.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			count := r.Categories[name]
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", name, count.Pass, count.Fail, count.Skip)
		}
		b.WriteString("\n")
	}

	var failed []Outcome
	for _, test := range r.Tests {
		if test.Status == StatusFail {
			failed = append(failed, test)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, "## Failed Tests\n\n")
		for _, test := range failed {
			fmt.Fprintf(&b, "- **%s / %s**: %s\n", test.Category, test.Name, test.Details)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## All Tests\n\n")
	fmt.Fprintf(&b, "| Status | Category | Name | Details |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, test := range r.Tests {
		details := strings.ReplaceAll(test.Details, "|", "\\|")
		details = strings.ReplaceAll(details, "\n", " ")
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", test.Status, test.Category, test.Name, details)
	}

	return b.String()
}

// WriteHTML renders the markdown report to a standalone HTML file
func (r Report) WriteHTML(path string) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Test Report " + r.RunID + "</title>\n")
	page.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto;padding:0 1em}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px;text-align:left}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, page.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
