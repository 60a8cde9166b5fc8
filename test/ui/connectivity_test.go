package ui

import (
	"testing"
	"time"
)

// TestServiceConnectivity verifies the application loads in a real browser.
// All other UI tests depend on this passing.
func TestServiceConnectivity(t *testing.T) {
	env := SetupTestEnvironment(t, "TestServiceConnectivity")

	if err := env.Session.Navigate(env.Config.Target.BaseURL); err != nil {
		t.Fatalf("CRITICAL: Application failed to load in browser: %v - All UI tests will fail", err)
	}

	if err := env.Session.WaitVisible("body", 10*time.Second); err != nil {
		t.Fatalf("CRITICAL: Page body never became visible: %v", err)
	}

	var title string
	if err := env.Session.Evaluate(`document.title`, &title); err != nil {
		t.Fatalf("Failed to read page title: %v", err)
	}

	env.Session.TryScreenshot("homepage")

	t.Logf("✓ Application is accessible at %s", env.Config.Target.BaseURL)
	t.Logf("✓ Homepage loaded successfully (title: %s)", title)
}
