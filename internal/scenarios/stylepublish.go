package scenarios

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/results"
)

// StylePublish navigates to a topic's Style & Publish view, captures it, and
// exports the rendered draft as Markdown. The view sits deep in the SPA, so
// navigation escalates: client-side routing first, then a synthetic link
// click, then UI navigation through the topic table.
func StylePublish(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error {
	logger := common.GetLogger()
	category := "Content Operations"

	if err := s.Login(); err != nil {
		c.Fail(category, "Login", err.Error())
		return fmt.Errorf("style-publish scenario aborted: %w", err)
	}

	checkProjectLoad(s, c, cfg)
	checkMapSelection(s, c)

	if !navigateToStyle(s) {
		c.RecordWithScreenshot(category, "Open Style & Publish view", results.StatusFail,
			"could not reach a style view by any navigation path", s.TryScreenshot("style_nav_failed"))
		return nil
	}
	c.RecordWithScreenshot(category, "Open Style & Publish view", results.StatusPass,
		"style view loaded", s.TryScreenshot("style_view"))

	if _, err := s.ClickAny(`//button[contains(., "Publish")]`, `//a[contains(., "Publish")]`); err == nil {
		s.Sleep(2 * time.Second)
		c.RecordWithScreenshot(category, "Publish panel", results.StatusPass,
			"publish panel opened", s.TryScreenshot("publish_panel"))
		s.CloseModal()
	} else {
		c.Skip(category, "Publish panel", "no Publish control on style view")
	}

	if err := exportDraftMarkdown(s); err != nil {
		c.Fail(category, "Export draft as Markdown", err.Error())
	} else {
		c.Pass(category, "Export draft as Markdown", "draft.md written to results")
	}

	logger.Info().Msg("✓ Style & Publish scenario finished")
	return nil
}

// navigateToStyle tries the escalating navigation paths to a style view
func navigateToStyle(s *browser.Session) bool {
	const stylePath = "/style"

	if err := s.NavigateClientSide(stylePath); err == nil {
		s.Sleep(3 * time.Second)
		if url, _ := s.CurrentURL(); strings.Contains(url, "style") {
			return true
		}
	}

	// Synthetic link click engages the client router when pushState alone
	// did not.
	linkClick := fmt.Sprintf(`(() => {
		const link = document.createElement('a');
		link.href = %q;
		link.style.display = 'none';
		document.body.appendChild(link);
		link.click();
		document.body.removeChild(link);
	})()`, stylePath)
	s.Evaluate(linkClick, nil)
	s.Sleep(3 * time.Second)
	if url, _ := s.CurrentURL(); strings.Contains(url, "style") {
		return true
	}

	// UI path: open a topic row, then its Style control
	if _, err := s.ClickAny(`table tbody tr`); err == nil {
		s.Sleep(2 * time.Second)
		if _, err := s.ClickAny(
			`//button[contains(., "Style")]`,
			`//a[contains(., "Style")]`,
		); err == nil {
			s.Sleep(3 * time.Second)
			if url, _ := s.CurrentURL(); strings.Contains(url, "style") {
				return true
			}
			// Some builds render the style view in place without a URL change
			return s.ContentContains("Publish")
		}
	}

	return false
}

// exportDraftMarkdown extracts the rendered draft and saves it as Markdown
func exportDraftMarkdown(s *browser.Session) error {
	var draftHTML string
	err := s.Evaluate(`(() => {
		const el = document.querySelector('article')
			|| document.querySelector('[class*="draft"]')
			|| document.querySelector('[contenteditable="true"]')
			|| document.querySelector('main');
		return el ? el.outerHTML : '';
	})()`, &draftHTML)
	if err != nil {
		return err
	}
	if draftHTML == "" {
		return fmt.Errorf("no draft content element found on style view")
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(draftHTML)
	if err != nil {
		return fmt.Errorf("failed to convert draft to markdown: %w", err)
	}

	path := filepath.Join(s.ResultsDir(), "draft.md")
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write draft markdown: %w", err)
	}
	return nil
}
