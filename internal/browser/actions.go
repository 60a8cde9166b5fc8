package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Navigate loads a URL and gives the SPA time to settle
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		s.TryScreenshot("navigate_failed")
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// NavigateClientSide changes the SPA route without a full page load. A
// popstate event is dispatched after pushState so the client router picks up
// the change; a hard navigation would drop the in-memory application state.
func (s *Session) NavigateClientSide(path string) error {
	script := fmt.Sprintf(`(() => {
		window.history.pushState({}, '', %q);
		window.dispatchEvent(new PopStateEvent('popstate'));
	})()`, path)

	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate(script, nil),
		chromedp.Sleep(time.Second),
	); err != nil {
		return fmt.Errorf("failed client-side navigation to %s: %w", path, err)
	}
	return nil
}

// CurrentURL returns the page's current location
func (s *Session) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(s.ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// WaitVisible waits for an element to become visible
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, queryOption(selector))); err != nil {
		return fmt.Errorf("element %s not visible within %s: %w", selector, timeout, err)
	}
	return nil
}

// Visible reports whether an element becomes visible within the timeout
func (s *Session) Visible(selector string, timeout time.Duration) bool {
	return s.WaitVisible(selector, timeout) == nil
}

// Click waits for an element and clicks it
func (s *Session) Click(selector string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(selector, queryOption(selector)),
		chromedp.Click(selector, queryOption(selector)),
	); err != nil {
		s.TryScreenshot("click_failed")
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// ClickText clicks the first element matching the XPath text search, the
// equivalent of a has-text selector.
func (s *Session) ClickText(tag, text string) error {
	xpath := fmt.Sprintf(`//%s[contains(., %q)]`, tag, text)
	if err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	); err != nil {
		s.TryScreenshot("click_failed")
		return fmt.Errorf("failed to click %s with text %q: %w", tag, text, err)
	}
	return nil
}

// ClickAny tries each selector in order with a short per-selector window and
// clicks the first one that is visible. Selectors starting with "/" are
// treated as XPath. Returns the selector that matched.
func (s *Session) ClickAny(selectors ...string) (string, error) {
	for _, selector := range selectors {
		ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(selector, queryOption(selector)),
			chromedp.Click(selector, queryOption(selector)),
		)
		cancel()
		if err == nil {
			return selector, nil
		}
	}
	s.TryScreenshot("click_any_failed")
	return "", fmt.Errorf("none of %d selectors matched a visible element", len(selectors))
}

// Fill clears an input and types a value into it
func (s *Session) Fill(selector, value string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(selector, queryOption(selector)),
		chromedp.Clear(selector, queryOption(selector)),
		chromedp.SendKeys(selector, value, queryOption(selector)),
	); err != nil {
		return fmt.Errorf("failed to fill %s: %w", selector, err)
	}
	return nil
}

// Text returns the text content of the first matching element
func (s *Session) Text(selector string) (string, error) {
	var text string
	if err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(selector, queryOption(selector)),
		chromedp.Text(selector, &text, queryOption(selector)),
	); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", selector, err)
	}
	return text, nil
}

// Content returns the full document HTML
func (s *Session) Content() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	); err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// ContentContains reports whether the page HTML contains the substring
func (s *Session) ContentContains(substring string) bool {
	html, err := s.Content()
	if err != nil {
		return false
	}
	return strings.Contains(html, substring)
}

// Evaluate runs a JavaScript expression, optionally unmarshalling the result
func (s *Session) Evaluate(expression string, result interface{}) error {
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(expression, result)); err != nil {
		return fmt.Errorf("failed to evaluate script: %w", err)
	}
	return nil
}

// EvaluateAsync runs a JavaScript expression that yields a Promise and waits
// for it to settle before unmarshalling the result.
func (s *Session) EvaluateAsync(expression string, result interface{}) error {
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(expression, result,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		})); err != nil {
		return fmt.Errorf("failed to evaluate async script: %w", err)
	}
	return nil
}

// PressEscape sends the Escape key to the page
func (s *Session) PressEscape() error {
	return chromedp.Run(s.ctx, chromedp.KeyEvent(kb.Escape))
}

// Sleep pauses the action flow. Used sparingly for UI settle windows where
// no observable condition exists.
func (s *Session) Sleep(d time.Duration) {
	chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// queryOption picks XPath matching for selectors that look like XPath
func queryOption(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
