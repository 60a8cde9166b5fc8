package scenarios

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/results"
)

// Comprehensive exercises every user-facing function area and writes the
// detailed run report. Checks that cannot run (missing fixtures, absent
// controls) are recorded as skips so the report stays complete.
func Comprehensive(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error {
	logger := common.GetLogger()
	logger.Info().Msg("Starting comprehensive function suite")

	if !checkLogin(s, c, cfg) {
		// Without a session nothing else can run; still write the report
		writeRunReport(s, c, cfg)
		return fmt.Errorf("comprehensive suite aborted: login failed")
	}

	checkLogout(s, c)
	checkProjectLoad(s, c, cfg)
	checkMapSelection(s, c)
	checkTopicList(s, c)
	checkBriefModal(s, c)
	checkGenerationUI(s, c)
	checkAuditPanel(s, c)
	checkSettings(s, c)
	checkAIUsage(s, c)

	s.CloseModal()
	s.TryScreenshot("suite_final_state")

	return writeRunReport(s, c, cfg)
}

func writeRunReport(s *browser.Session, c *results.Collector, cfg *common.Config) error {
	report := c.BuildReport(results.ReportTarget{
		URL:      cfg.Target.BaseURL,
		Project:  cfg.Project.Name,
		Language: cfg.Project.Language,
	})

	jsonPath := filepath.Join(s.ResultsDir(), "test_report.json")
	if err := report.WriteJSON(jsonPath); err != nil {
		return err
	}
	htmlPath := filepath.Join(s.ResultsDir(), "report.html")
	if err := report.WriteHTML(htmlPath); err != nil {
		return err
	}

	common.GetLogger().Info().Str("json", jsonPath).Str("html", htmlPath).Msg("✓ Run report written")
	return nil
}

func checkLogin(s *browser.Session, c *results.Collector, cfg *common.Config) bool {
	if err := s.Login(); err != nil {
		c.RecordWithScreenshot("Authentication", "Login with valid credentials", results.StatusFail,
			err.Error(), s.TryScreenshot("auth_login_fail"))
		return false
	}

	if s.VerifyDashboard() || !s.ContentContains("Sign in") {
		c.RecordWithScreenshot("Authentication", "Login with valid credentials", results.StatusPass,
			fmt.Sprintf("Successfully logged in as %s", cfg.Credentials.Email),
			s.TryScreenshot("auth_login_success"))
		return true
	}

	c.Fail("Authentication", "Login with valid credentials", "Login did not complete, still on login page")
	return false
}

func checkLogout(s *browser.Session, c *results.Collector) {
	if !s.Visible(`//button[contains(., "Logout")]`, 3*time.Second) {
		c.Skip("Authentication", "Logout", "Logout button not visible")
		return
	}

	if err := s.ClickText("button", "Logout"); err != nil {
		c.Fail("Authentication", "Logout", err.Error())
		return
	}
	s.Sleep(2 * time.Second)

	if s.ContentContains("Sign in") {
		c.Pass("Authentication", "Logout", "Successfully logged out")
		// Re-login for the remaining checks
		if err := s.Login(); err != nil {
			c.Fail("Authentication", "Re-login after logout", err.Error())
		}
	} else {
		c.Fail("Authentication", "Logout", "Logout clicked but did not return to login page")
	}
}

func checkProjectLoad(s *browser.Session, c *results.Collector, cfg *common.Config) {
	if selectProject(s, cfg.Project.Name) {
		c.RecordWithScreenshot("Project Management", "Load project", results.StatusPass,
			cfg.Project.Name, s.TryScreenshot("project_loaded"))
	} else if _, err := s.ClickAny(`//button[contains(., "Load")]`); err == nil {
		s.Sleep(3 * time.Second)
		c.RecordWithScreenshot("Project Management", "Load project", results.StatusPass,
			"loaded via Load button", s.TryScreenshot("project_loaded"))
	} else {
		c.Skip("Project Management", "Load project", "no project selector or Load button")
	}
}

func checkMapSelection(s *browser.Session, c *results.Collector) {
	if _, err := s.ClickAny(`//button[contains(., "Load Map")]`, `//button[contains(., "Select Map")]`); err != nil {
		c.Skip("Topical Map Management", "Load map", "no map control found")
		return
	}
	s.Sleep(5 * time.Second)
	c.RecordWithScreenshot("Topical Map Management", "Load map", results.StatusPass,
		"map loaded", s.TryScreenshot("map_loaded"))

	// Map statistics are shown in the header once a map is active
	if s.ContentContains("topics") || s.ContentContains("Topics") {
		c.Pass("Topical Map Management", "View map stats", "topic counts visible")
	} else {
		c.Skip("Topical Map Management", "View map stats", "no statistics visible")
	}
}

func checkTopicList(s *browser.Session, c *results.Collector) {
	if s.Visible(`table`, 5*time.Second) || s.Visible(`[class*="topic"]`, 2*time.Second) {
		c.RecordWithScreenshot("Topic Management", "View topic list", results.StatusPass,
			"topic list rendered", s.TryScreenshot("topic_list"))
	} else {
		c.Skip("Topic Management", "View topic list", "no topic list visible")
		return
	}

	if s.Visible(`input[placeholder*="earch"]`, 2*time.Second) {
		if err := s.Fill(`input[placeholder*="earch"]`, "daad"); err == nil {
			s.Sleep(time.Second)
			c.Pass("Topic Management", "Search topics", "search input accepts query")
			s.Fill(`input[placeholder*="earch"]`, "")
		} else {
			c.Fail("Topic Management", "Search topics", err.Error())
		}
	} else {
		c.Skip("Topic Management", "Search topics", "no search box found")
	}

	if _, err := s.ClickAny(`//button[contains(., "Filter")]`, `[aria-label="Filter"]`); err == nil {
		s.Sleep(time.Second)
		c.Pass("Topic Management", "Filter topics", "filter control opens")
		s.CloseModal()
	} else {
		c.Skip("Topic Management", "Filter topics", "no filter control found")
	}
}

func checkBriefModal(s *browser.Session, c *results.Collector) {
	if _, err := s.ClickAny(
		`//button[contains(., "View Brief")]`,
		`//button[contains(., "Brief")]`,
	); err != nil {
		c.Skip("Content Brief Generation", "View brief modal", "no brief button available")
		return
	}
	s.Sleep(3 * time.Second)

	if s.ModalVisible() {
		c.RecordWithScreenshot("Content Brief Generation", "View brief modal", results.StatusPass,
			"brief modal opened", s.TryScreenshot("brief_modal_content"))
	} else {
		c.Fail("Content Brief Generation", "View brief modal", "brief button clicked but no modal appeared")
		return
	}

	s.CloseModal()
	if !s.ModalVisible() {
		c.Pass("Content Brief Generation", "Close brief modal", "modal closed")
	} else {
		c.Fail("Content Brief Generation", "Close brief modal", "modal still visible after close attempts")
	}
}

func checkGenerationUI(s *browser.Session, c *results.Collector) {
	if s.Visible(`//button[contains(., "Generate")]`, 3*time.Second) ||
		s.Visible(`//button[contains(., "Draft")]`, 2*time.Second) {
		c.Pass("Content Generation (10-Pass)", "Generation controls present", "Generate/Draft button visible")
	} else {
		c.Skip("Content Generation (10-Pass)", "Generation controls present", "no Generate button on current view")
	}

	if s.ContentContains("Pass ") && s.ContentContains("of 10") {
		c.RecordWithScreenshot("Content Generation (10-Pass)", "Progress indicator", results.StatusPass,
			"pass progress text visible", s.TryScreenshot("generation_progress"))
	} else {
		c.Skip("Content Generation (10-Pass)", "Progress indicator", "no generation in progress")
	}
}

func checkAuditPanel(s *browser.Session, c *results.Collector) {
	if _, err := s.ClickAny(`//button[contains(., "Audit")]`); err != nil {
		c.Skip("Quality Audit System", "View audit score", "no Audit button available")
		return
	}
	s.Sleep(2 * time.Second)

	if s.ContentContains("%") || s.ContentContains("score") || s.ContentContains("Score") {
		c.RecordWithScreenshot("Quality Audit System", "View audit score", results.StatusPass,
			"audit panel shows a score", s.TryScreenshot("audit_panel"))
	} else {
		c.Fail("Quality Audit System", "View audit score", "audit panel opened without a score")
	}

	found := 0
	for _, rule := range common.AuditRuleCatalog {
		if s.ContentContains(rule.Category) {
			found++
		}
	}
	if found > 0 {
		c.Pass("Quality Audit System", "Audit rule categories", fmt.Sprintf("%d of %d categories visible", found, len(common.AuditRuleCatalog)))
	} else {
		c.Skip("Quality Audit System", "Audit rule categories", "no rule categories visible")
	}

	s.CloseModal()
}

func checkSettings(s *browser.Session, c *results.Collector) {
	if _, err := s.ClickAny(
		`//button[contains(., "Settings")]`,
		`[aria-label="Settings"]`,
		`button [class*="cog"]`,
		`button [class*="gear"]`,
	); err != nil {
		c.Skip("Settings", "Open settings", "no settings control found")
		return
	}
	s.Sleep(time.Second)

	if s.ModalVisible() {
		c.RecordWithScreenshot("Settings", "Open settings", results.StatusPass,
			"settings modal opened", s.TryScreenshot("settings_modal"))
		if s.ContentContains("API") {
			c.Pass("Settings", "API key configuration", "API key section present")
		} else {
			c.Skip("Settings", "API key configuration", "no API section visible")
		}
	} else {
		c.Fail("Settings", "Open settings", "settings clicked but no modal appeared")
	}

	s.CloseModal()
}

func checkAIUsage(s *browser.Session, c *results.Collector) {
	if _, err := s.ClickAny(
		`//button[contains(., "Usage")]`,
		`//button[contains(., "AI Usage")]`,
	); err != nil {
		c.Skip("Analytics", "AI usage dashboard", "no usage control found")
		return
	}
	s.Sleep(2 * time.Second)

	if s.ModalVisible() || s.ContentContains("token") || s.ContentContains("cost") {
		c.RecordWithScreenshot("Analytics", "AI usage dashboard", results.StatusPass,
			"usage view opened", s.TryScreenshot("ai_usage"))
	} else {
		c.Fail("Analytics", "AI usage dashboard", "usage clicked but nothing rendered")
	}

	s.CloseModal()
}
