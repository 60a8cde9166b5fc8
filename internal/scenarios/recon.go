package scenarios

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/recon"
	"github.com/kjenmarks/ctc-e2e/internal/results"
)

// Recon maps the application UI: login, project and map selection, element
// discovery, topic listing and the comprehensive discovery report.
func Recon(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error {
	logger := common.GetLogger()

	logger.Info().Str("target", cfg.Target.BaseURL).Msg("Starting UI reconnaissance")
	s.TryScreenshot("login_page")

	if err := s.Login(); err != nil {
		c.Fail("Reconnaissance", "Login", err.Error())
		return fmt.Errorf("reconnaissance aborted: %w", err)
	}
	c.Pass("Reconnaissance", "Login", fmt.Sprintf("logged in as %s", cfg.Credentials.Email))

	if selectProject(s, cfg.Project.Name) {
		c.Pass("Reconnaissance", "Select project", cfg.Project.Name)
		if selectMap(s) {
			c.Pass("Reconnaissance", "Select map", "first available map")
		} else {
			c.Skip("Reconnaissance", "Select map", "no map selector found")
		}
	} else {
		c.Skip("Reconnaissance", "Select project", fmt.Sprintf("project selector or %q not found", cfg.Project.Name))
	}

	// Inventory works on a saved copy of the DOM so the discovery parse is
	// reproducible from the run artifacts.
	htmlPath, err := s.SavePageHTML("dashboard")
	if err != nil {
		c.Fail("Reconnaissance", "Capture dashboard HTML", err.Error())
		return err
	}

	html, err := s.Content()
	if err != nil {
		return err
	}

	inventory, err := recon.DiscoverElements(html)
	if err != nil {
		c.Fail("Reconnaissance", "Element discovery", err.Error())
		return err
	}
	c.Pass("Reconnaissance", "Element discovery", fmt.Sprintf(
		"buttons=%d links=%d inputs=%d tables=%d tabs=%d",
		len(inventory.Buttons), len(inventory.Links), len(inventory.Inputs), inventory.Tables, len(inventory.Tabs)))

	topics, err := recon.DiscoverTopics(html, 10)
	if err != nil {
		return err
	}
	if len(topics) > 0 {
		c.Pass("Reconnaissance", "Topic discovery", fmt.Sprintf("%d topic rows found", len(topics)))
	} else {
		c.Skip("Reconnaissance", "Topic discovery", "no topic rows in standard locations")
	}

	if briefAccess(s) {
		c.Pass("Reconnaissance", "Content brief access", "brief controls present")
	} else {
		c.Skip("Reconnaissance", "Content brief access", "no brief controls found")
	}

	url, _ := s.CurrentURL()
	var title string
	s.Evaluate(`document.title`, &title)

	report := recon.BuildReport(cfg, url, title, inventory, topics)
	reportPath := filepath.Join(s.ResultsDir(), "comprehensive_report.json")
	if err := report.WriteJSON(reportPath); err != nil {
		c.Fail("Reconnaissance", "Discovery report", err.Error())
		return err
	}
	c.RecordWithScreenshot("Reconnaissance", "Discovery report", results.StatusPass,
		fmt.Sprintf("%d categories, %d functions (%s)", len(report.FunctionCategories), report.TotalFunctions(), reportPath),
		s.TryScreenshot("final_state"))

	logger.Info().Str("html", htmlPath).Str("report", reportPath).Msg("✓ Reconnaissance complete")
	return nil
}

// selectProject opens the project selector and picks the named project
func selectProject(s *browser.Session, project string) bool {
	if _, err := s.ClickAny(
		`//button[contains(., "Select Project")]`,
		`//button[contains(., "project")]`,
		`[data-testid="project-selector"]`,
	); err != nil {
		// Project may already be visible in a list
		if err := s.ClickText("button", project); err != nil {
			return false
		}
		s.Sleep(2 * time.Second)
		return true
	}

	s.Sleep(time.Second)
	s.TryScreenshot("project_dropdown_open")

	if _, err := s.ClickAny(
		fmt.Sprintf(`//*[text()=%q]`, project),
		fmt.Sprintf(`//button[contains(., %q)]`, project),
	); err != nil {
		return false
	}
	s.Sleep(2 * time.Second)
	s.TryScreenshot("project_selected")
	return true
}

// selectMap opens the map selector and picks the first available map
func selectMap(s *browser.Session) bool {
	if _, err := s.ClickAny(
		`//button[contains(., "Select Map")]`,
		`//button[contains(., "Map")]`,
		`[data-testid="map-selector"]`,
	); err != nil {
		return false
	}

	s.Sleep(time.Second)
	s.TryScreenshot("map_dropdown")

	if _, err := s.ClickAny(
		`[role="menuitem"]`,
		`[role="option"]`,
		`.dropdown-item`,
	); err != nil {
		return false
	}
	s.Sleep(2 * time.Second)
	s.TryScreenshot("map_selected")
	return true
}

// briefAccess checks whether content brief controls are reachable
func briefAccess(s *browser.Session) bool {
	return s.Visible(`//button[contains(., "Brief")]`, 2*time.Second) ||
		s.ContentContains("Brief")
}
