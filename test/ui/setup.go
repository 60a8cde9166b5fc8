package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
)

// TestEnvironment holds a configured browser session and its results directory
type TestEnvironment struct {
	Config     *common.Config
	Session    *browser.Session
	ResultsDir string
}

var (
	testConfig     *common.Config
	testConfigErr  error
	testConfigOnce sync.Once
)

// loadTestConfig loads the suite configuration once for the whole package.
// Priority: defaults -> deployments/local/ctc-e2e.toml (if present) -> env.
func loadTestConfig() (*common.Config, error) {
	testConfigOnce.Do(func() {
		var paths []string
		for _, candidate := range []string{
			"ctc-e2e.toml",
			filepath.Join("..", "..", "deployments", "local", "ctc-e2e.toml"),
		} {
			if _, err := os.Stat(candidate); err == nil {
				paths = append(paths, candidate)
				break
			}
		}
		testConfig, testConfigErr = common.LoadFromFiles(paths...)
	})
	return testConfig, testConfigErr
}

// SetupTestEnvironment prepares a browser session with a test-specific
// results directory: {results_base_dir}/{test-name}-{datetime}
func SetupTestEnvironment(t *testing.T, testName string) *TestEnvironment {
	t.Helper()

	config, err := loadTestConfig()
	if err != nil {
		t.Skipf("Configuration not available: %v", err)
	}

	requireService(t, config)

	timestamp := time.Now().Format("20060102-150405")
	resultsDir := filepath.Join(config.Output.ResultsBaseDir, fmt.Sprintf("%s-%s", testName, timestamp))
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		t.Fatalf("Failed to create results directory: %v", err)
	}

	common.InitLogger(config, resultsDir)

	session, err := browser.NewSession(config, resultsDir, 10*time.Minute)
	if err != nil {
		t.Fatalf("Failed to start browser session: %v", err)
	}
	t.Cleanup(session.Close)

	return &TestEnvironment{
		Config:     config,
		Session:    session,
		ResultsDir: resultsDir,
	}
}

// requireService skips the test when the target application is unreachable.
// UI tests run against the live deployment and cannot start their own instance.
func requireService(t *testing.T, config *common.Config) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(config.Target.BaseURL)
	if err != nil {
		t.Skipf("Service not accessible at %s: %v", config.Target.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		t.Skipf("Service at %s returned status %d", config.Target.BaseURL, resp.StatusCode)
	}
}
