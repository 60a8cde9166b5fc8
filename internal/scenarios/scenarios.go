// Package scenarios contains the click-path scenarios the runner executes
// against a live application instance. Each scenario drives one browser
// session and records its findings in a results collector.
package scenarios

import (
	"context"
	"fmt"
	"sort"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/results"
)

// Scenario drives one end-to-end flow. A returned error means the scenario
// could not run to completion; individual check failures are recorded in the
// collector instead.
type Scenario func(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error

var registry = map[string]Scenario{
	"recon":         Recon,
	"comprehensive": Comprehensive,
	"generation":    Generation,
	"capture":       Capture,
	"style-publish": StylePublish,
	"draft-ops":     DraftOps,
	"wizard-save":   WizardSave,
	"tab-switch":    TabSwitch,
}

// Names returns all registered scenario names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up a scenario by name
func Get(name string) (Scenario, error) {
	scenario, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return scenario, nil
}
