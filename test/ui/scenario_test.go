package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/monitor"
	"github.com/kjenmarks/ctc-e2e/internal/results"
	"github.com/kjenmarks/ctc-e2e/internal/scenarios"
)

// TestReconScenario runs the UI reconnaissance scenario against the live
// application and checks the discovery report artifact.
func TestReconScenario(t *testing.T) {
	env := SetupTestEnvironment(t, "TestReconScenario")

	scenario, err := scenarios.Get("recon")
	if err != nil {
		t.Fatalf("Scenario lookup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	collector := results.NewCollector()
	if err := scenario(ctx, env.Session, collector, env.Config); err != nil {
		t.Fatalf("Recon scenario failed: %v", err)
	}

	summary := collector.Summary()
	if summary.Failed > 0 {
		for _, outcome := range collector.Failed() {
			t.Errorf("FAIL %s / %s: %s", outcome.Category, outcome.Name, outcome.Details)
		}
	}
	t.Logf("Recon: %d passed, %d failed, %d skipped", summary.Passed, summary.Failed, summary.Skipped)

	reportPath := filepath.Join(env.ResultsDir, "comprehensive_report.json")
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("Discovery report not written: %v", err)
	}
}

// TestComprehensiveScenario runs the full function suite and checks the run
// report artifacts.
func TestComprehensiveScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping comprehensive suite in short mode")
	}
	env := SetupTestEnvironment(t, "TestComprehensiveScenario")

	scenario, err := scenarios.Get("comprehensive")
	if err != nil {
		t.Fatalf("Scenario lookup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	collector := results.NewCollector()
	if err := scenario(ctx, env.Session, collector, env.Config); err != nil {
		t.Fatalf("Comprehensive scenario failed: %v", err)
	}

	summary := collector.Summary()
	t.Logf("Comprehensive: %d passed, %d failed, %d skipped (%s)",
		summary.Passed, summary.Failed, summary.Skipped, summary.PassRate)

	for _, artifact := range []string{"test_report.json", "report.html"} {
		if _, err := os.Stat(filepath.Join(env.ResultsDir, artifact)); err != nil {
			t.Errorf("Run artifact %s not written: %v", artifact, err)
		}
	}
}

// TestGenerationScenario validates the ten-pass pipeline when one is running.
// The scenario records a skip when no generation can be started, so an idle
// deployment does not fail the suite.
func TestGenerationScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping generation flow in short mode")
	}
	env := SetupTestEnvironment(t, "TestGenerationScenario")

	scenario, err := scenarios.Get("generation")
	if err != nil {
		t.Fatalf("Scenario lookup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		env.Config.CompletionTimeout()+5*time.Minute)
	defer cancel()

	collector := results.NewCollector()
	if err := scenario(ctx, env.Session, collector, env.Config); err != nil {
		t.Fatalf("Generation scenario failed: %v", err)
	}

	for _, outcome := range collector.Failed() {
		t.Errorf("FAIL %s / %s: %s", outcome.Category, outcome.Name, outcome.Details)
	}
}

// TestTabSwitchScenario runs the visibility stress scenario live
func TestTabSwitchScenario(t *testing.T) {
	env := SetupTestEnvironment(t, "TestTabSwitchScenario")

	scenario, err := scenarios.Get("tab-switch")
	if err != nil {
		t.Fatalf("Scenario lookup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	collector := results.NewCollector()
	if err := scenario(ctx, env.Session, collector, env.Config); err != nil {
		t.Fatalf("Tab switch scenario failed: %v", err)
	}

	summary := collector.Summary()
	if summary.Failed > 0 {
		for _, outcome := range collector.Failed() {
			t.Errorf("FAIL %s / %s: %s", outcome.Category, outcome.Name, outcome.Details)
		}
	}
}

// TestConsoleCapture verifies console events from the live page reach the
// generation monitor through the listener wiring.
func TestConsoleCapture(t *testing.T) {
	env := SetupTestEnvironment(t, "TestConsoleCapture")

	m := monitor.New()
	env.Session.CaptureConsole(m)

	if err := env.Session.Navigate(env.Config.Target.BaseURL); err != nil {
		t.Fatalf("Navigation failed: %v", err)
	}

	if err := env.Session.Evaluate(`console.log("Pass 1: connectivity probe")`, nil); err != nil {
		t.Fatalf("Failed to emit console line: %v", err)
	}
	env.Session.Sleep(2 * time.Second)

	if m.LineCount() == 0 {
		t.Error("No console lines captured from the live page")
	}
	if m.LastPassSeen() < 1 {
		t.Errorf("Monitor did not parse the probe line, last pass seen = %d", m.LastPassSeen())
	}
}
