package recon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/common"
)

// QualityTests describes the audit-driven quality checks the suite runs
type QualityTests struct {
	AuditRules        []string             `json:"audit_rules"`
	QualityThresholds common.QualityConfig `json:"quality_thresholds"`
	TestsToRun        []string             `json:"tests_to_run"`
}

// Report is the comprehensive discovery report written after reconnaissance
type Report struct {
	Timestamp          time.Time          `json:"timestamp"`
	URL                string             `json:"url"`
	Title              string             `json:"title"`
	TestProject        string             `json:"test_project"`
	TestLanguage       string             `json:"test_language"`
	DiscoveredElements Inventory          `json:"discovered_elements"`
	TopicsFound        int                `json:"topics_found"`
	SampleTopics       []string           `json:"sample_topics"`
	FunctionCategories []FunctionCategory `json:"function_categories"`
	QualityTests       QualityTests       `json:"quality_tests"`
}

// BuildReport assembles the discovery report from a page inventory
func BuildReport(cfg *common.Config, url, title string, inventory Inventory, topics []string) Report {
	auditRules := make([]string, 0, len(common.AuditRuleCatalog))
	for _, rule := range common.AuditRuleCatalog {
		auditRules = append(auditRules, rule.Category)
	}

	sample := topics
	if len(sample) > 5 {
		sample = sample[:5]
	}

	return Report{
		Timestamp:          time.Now(),
		URL:                url,
		Title:              title,
		TestProject:        cfg.Project.Name,
		TestLanguage:       cfg.Project.Language,
		DiscoveredElements: inventory,
		TopicsFound:        len(topics),
		SampleTopics:       sample,
		FunctionCategories: FunctionCatalog(),
		QualityTests: QualityTests{
			AuditRules:        auditRules,
			QualityThresholds: cfg.Quality,
			TestsToRun: []string{
				"Verify audit score >= 70%",
				"Check all audit rules execute",
				"Validate word count in range",
				"Check heading hierarchy (H1 > H2 > H3)",
				"Verify prose/structure ratio",
				"Check for AI detection patterns",
				"Validate entity mentions",
				"Test schema validation",
			},
		},
	}
}

// TotalFunctions counts the functions across all categories
func (r Report) TotalFunctions() int {
	total := 0
	for _, category := range r.FunctionCategories {
		total += len(category.Functions)
	}
	return total
}

// WriteJSON writes the report as comprehensive_report.json style output
func (r Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal discovery report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write discovery report %s: %w", path, err)
	}
	return nil
}
