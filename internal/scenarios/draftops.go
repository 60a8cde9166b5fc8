package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/kjenmarks/ctc-e2e/internal/browser"
	"github.com/kjenmarks/ctc-e2e/internal/common"
	"github.com/kjenmarks/ctc-e2e/internal/monitor"
	"github.com/kjenmarks/ctc-e2e/internal/results"
	"github.com/kjenmarks/ctc-e2e/internal/waitfor"
)

// DraftOps opens a topic draft and runs the Save, Audit, Polish and Flow
// operations. Each operation is watched with an activity-based timeout: as
// long as console output keeps flowing the operation is alive, regardless of
// how long it runs in total.
func DraftOps(ctx context.Context, s *browser.Session, c *results.Collector, cfg *common.Config) error {
	logger := common.GetLogger()
	category := "Content Operations"

	m := monitor.New()
	s.CaptureConsole(m)

	if err := s.Login(); err != nil {
		c.Fail(category, "Login", err.Error())
		return fmt.Errorf("draft-ops scenario aborted: %w", err)
	}

	checkProjectLoad(s, c, cfg)
	checkMapSelection(s, c)

	if !openDraftWorkspace(s) {
		c.RecordWithScreenshot(category, "Open draft workspace", results.StatusSkip,
			"no topic with a viewable draft found", s.TryScreenshot("no_draft"))
		return nil
	}
	c.RecordWithScreenshot(category, "Open draft workspace", results.StatusPass,
		"draft workspace open", s.TryScreenshot("draft_workspace"))

	// Save is synchronous and quick
	if err := s.ClickText("button", "Save"); err != nil {
		c.Skip(category, "Save draft", "no Save button in workspace")
	} else {
		s.Sleep(5 * time.Second)
		c.RecordWithScreenshot(category, "Save draft", results.StatusPass,
			"save completed", s.TryScreenshot("save_done"))
	}

	for _, op := range []string{"Audit", "Flow", "Polish"} {
		runDraftOperation(ctx, s, c, m, cfg, op)
	}

	logger.Info().Msg("✓ Draft operations scenario finished")
	return nil
}

// openDraftWorkspace walks topic -> View Brief -> View Draft
func openDraftWorkspace(s *browser.Session) bool {
	if _, err := s.ClickAny(`tr[data-topic-id]`, `table tbody tr`); err != nil {
		return false
	}
	s.Sleep(2 * time.Second)

	if err := s.ClickText("button", "View Brief"); err == nil {
		s.Sleep(3 * time.Second)
	}

	if err := s.ClickText("button", "View Draft"); err != nil {
		return false
	}
	s.Sleep(5 * time.Second)
	return true
}

// runDraftOperation triggers one operation and waits for its spinner to stop,
// aborting on visible error text or silence past the stall threshold.
func runDraftOperation(ctx context.Context, s *browser.Session, c *results.Collector, m *monitor.Monitor, cfg *common.Config, op string) {
	category := "Content Operations"
	name := op + " operation"

	if err := s.ClickText("button", op); err != nil {
		c.Skip(category, name, "no "+op+" button in workspace")
		return
	}

	start := time.Now()
	result := waitfor.Until(ctx, waitfor.Options{
		Timeout:     cfg.TransitionTimeout(),
		Interval:    5 * time.Second,
		Description: op + " to finish",
	}, func() (bool, error) {
		if errText := visibleErrorText(s); errText != "" {
			return false, fmt.Errorf("%s reported an error: %s", op, errText)
		}
		if m.Stalled(cfg.StallThreshold()) {
			return false, fmt.Errorf("%s produced no output for over %s", op, cfg.StallThreshold())
		}
		var spinners int
		if err := s.Evaluate(`document.querySelectorAll('.animate-spin').length`, &spinners); err != nil {
			return false, err
		}
		return spinners == 0, nil
	})

	if result.Ok {
		c.RecordWithScreenshot(category, name, results.StatusPass,
			fmt.Sprintf("completed in %s", time.Since(start).Round(time.Second)),
			s.TryScreenshot(op+"_done"))
	} else {
		details := "did not finish within the budget"
		if result.Err != nil {
			details = result.Err.Error()
		}
		c.RecordWithScreenshot(category, name, results.StatusFail,
			details, s.TryScreenshot(op+"_failed"))
	}

	s.CloseModal()
}

// visibleErrorText returns on-page error text mentioning a timeout or error
func visibleErrorText(s *browser.Session) string {
	var text string
	s.Evaluate(`(() => {
		const els = document.querySelectorAll('.text-red-500, .text-red-400');
		for (const el of els) {
			const t = el.textContent || '';
			if (t.toLowerCase().includes('timeout') || t.toLowerCase().includes('error')) {
				return t.trim();
			}
		}
		return '';
	})()`, &text)
	return text
}
