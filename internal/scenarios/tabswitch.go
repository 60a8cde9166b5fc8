package scenarios

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/monitor"
	"github.com/kjenmarks/ctc-e2e/internal/results"
)

// hideTabScript simulates the tab going to the background
const hideTabScript = `(() => {
	Object.defineProperty(document, 'visibilityState', { value: 'hidden', writable: true });
	document.dispatchEvent(new Event('visibilitychange'));
})()`

// showTabScript simulates the tab being restored
const showTabScript = `(() => {
	Object.defineProperty(document, 'visibilityState', { value: 'visible', writable: true });
	document.dispatchEvent(new Event('visibilitychange'));
})()`

// TabSwitch stresses tab visibility changes: the app must stay rendered,
// keep its styles, keep background timers firing and raise no errors.
func TabSwitch(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error {
	logger := common.GetLogger()
	category := "Tab Switch Stability"

	m := monitor.New()
	s.CaptureConsole(m)

	if err := s.Navigate(cfg.Target.BaseURL); err != nil {
		return fmt.Errorf("tab-switch scenario aborted: %w", err)
	}

	// Single hide/show cycle while idle
	s.Evaluate(hideTabScript, nil)
	s.Sleep(2 * time.Second)
	s.Evaluate(showTabScript, nil)
	s.Sleep(time.Second)

	var bodyText string
	if err := s.Evaluate(`document.body.innerText`, &bodyText); err != nil {
		return err
	}
	if strings.TrimSpace(bodyText) == "" {
		c.RecordWithScreenshot(category, "Page survives tab switch", results.StatusFail,
			"page is blank after tab restore", s.TryScreenshot("blank_after_switch"))
	} else {
		c.Pass(category, "Page survives tab switch", "body still has content")
	}

	var bgColor string
	s.Evaluate(`window.getComputedStyle(document.body).backgroundColor`, &bgColor)
	if bgColor == "rgb(255, 255, 255)" {
		c.Fail(category, "Styles survive tab switch", fmt.Sprintf("background reset to white: %s", bgColor))
	} else {
		c.Pass(category, "Styles survive tab switch", fmt.Sprintf("background is %s", bgColor))
	}

	// Timers must keep firing while the tab reports itself hidden; the UI
	// schedules pass progress on setTimeout, not requestIdleCallback.
	var timer struct {
		Fired   bool  `json:"fired"`
		Elapsed int64 `json:"elapsed"`
	}
	err := s.EvaluateAsync(`new Promise((resolve) => {
		Object.defineProperty(document, 'visibilityState', { value: 'hidden', writable: true });
		const start = Date.now();
		setTimeout(() => {
			resolve({ fired: true, elapsed: Date.now() - start });
		}, 0);
	})`, &timer)
	if err != nil || !timer.Fired {
		c.Fail(category, "Timers fire in background", "setTimeout did not fire with tab hidden")
	} else if timer.Elapsed >= 100 {
		c.Fail(category, "Timers fire in background", fmt.Sprintf("setTimeout took %dms", timer.Elapsed))
	} else {
		c.Pass(category, "Timers fire in background", fmt.Sprintf("fired in %dms", timer.Elapsed))
	}
	s.Evaluate(showTabScript, nil)

	// Rapid visibility flapping must not raise errors
	errorsBefore := len(m.Errors())
	for i := 0; i < 5; i++ {
		s.Evaluate(hideTabScript, nil)
		s.Sleep(200 * time.Millisecond)
		s.Evaluate(showTabScript, nil)
		s.Sleep(200 * time.Millisecond)
	}
	s.Sleep(time.Second)

	if newErrors := m.Errors()[errorsBefore:]; len(newErrors) > 0 {
		c.Fail(category, "No errors from visibility changes",
			fmt.Sprintf("%d errors during flapping, first: %s", len(newErrors), newErrors[0]))
	} else {
		c.Pass(category, "No errors from visibility changes", "5 hide/show cycles clean")
	}

	logger.Info().Msg("✓ Tab switch scenario finished")
	return nil
}
