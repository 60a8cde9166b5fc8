// Package browser wraps chromedp with the helpers the test scenarios need:
// session lifecycle, screenshots, console capture, login and modal handling.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/kjenmarks/ctc-e2e/internal/common"
)

// Session holds a headless Chrome instance and its run-scoped state
type Session struct {
	cfg        *common.Config
	ctx        context.Context
	resultsDir string
	logger     arbor.ILogger

	cleanup       []func()
	screenshotNum int
}

// NewSession starts a Chrome instance. The timeout bounds the whole session;
// resultsDir receives screenshots and page dumps.
func NewSession(cfg *common.Config, resultsDir string, timeout time.Duration) (*Session, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	ctx, cancelTimeout := context.WithTimeout(context.Background(), timeout)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("lang", cfg.Browser.Locale),
		chromedp.WindowSize(cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		cfg:        cfg,
		ctx:        browserCtx,
		resultsDir: resultsDir,
		logger:     common.GetLogger(),
		cleanup:    make([]func(), 0),
	}

	// Cleanup runs in reverse order (LIFO)
	s.cleanup = append(s.cleanup, func() { cancelTimeout() })
	s.cleanup = append(s.cleanup, func() { cancelAlloc() })
	s.cleanup = append(s.cleanup, func() { cancelBrowser() })
	s.cleanup = append(s.cleanup, func() {
		if err := chromedp.Cancel(browserCtx); err != nil {
			s.logger.Warn().Msgf("Browser cancel returned: %v", err)
		}
	})

	// Starting the browser eagerly surfaces launch failures here instead of
	// on the first action.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return s, nil
}

// Context returns the browser context for direct chromedp.Run calls
func (s *Session) Context() context.Context {
	return s.ctx
}

// ResultsDir returns the directory receiving run artifacts
func (s *Session) ResultsDir() string {
	return s.resultsDir
}

// Close releases the browser and all session resources
func (s *Session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// Screenshot captures a full page screenshot with a sequential number prefix
// and returns the written path.
func (s *Session) Screenshot(name string) (string, error) {
	s.screenshotNum++
	filename := filepath.Join(s.resultsDir, fmt.Sprintf("%02d_%s.png", s.screenshotNum, name))

	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	s.logger.Debug().Msgf("Screenshot: %s", filename)
	return filename, nil
}

// TryScreenshot captures a screenshot and only logs on failure. Used on error
// paths where a missing screenshot must not mask the original failure.
func (s *Session) TryScreenshot(name string) string {
	path, err := s.Screenshot(name)
	if err != nil {
		s.logger.Warn().Msgf("Failed to take screenshot %s: %v", name, err)
		return ""
	}
	return path
}

// SavePageHTML dumps the current document HTML into the results directory
func (s *Session) SavePageHTML(name string) (string, error) {
	html, err := s.Content()
	if err != nil {
		return "", err
	}

	filename := filepath.Join(s.resultsDir, name+".html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to save page HTML: %w", err)
	}
	return filename, nil
}
