package browser

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ConsoleSink receives console lines and page errors as they arrive. Calls
// come from the chromedp listener goroutine, so sinks must be safe for
// concurrent use.
type ConsoleSink interface {
	OnConsole(text string)
	OnError(text string)
}

// CaptureConsole forwards console API calls and uncaught exceptions to the
// sinks for the lifetime of the session.
func (s *Session) CaptureConsole(sinks ...ConsoleSink) {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			text := consoleText(e)
			if text == "" {
				return
			}
			for _, sink := range sinks {
				sink.OnConsole(text)
			}
		case *runtime.EventExceptionThrown:
			text := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				text = e.ExceptionDetails.Exception.Description
			}
			for _, sink := range sinks {
				sink.OnError(text)
			}
		}
	})
}

// consoleText joins a console call's arguments the way the browser console
// renders them.
func consoleText(ev *runtime.EventConsoleAPICalled) string {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		switch {
		case arg.Value != nil:
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
		case arg.Description != "":
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}

// LogBuffer is a ConsoleSink that retains every line for later inspection
type LogBuffer struct {
	mu    sync.Mutex
	lines []string
}

// NewLogBuffer creates an empty buffer
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// OnConsole appends a console line
func (b *LogBuffer) OnConsole(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, text)
}

// OnError appends an error line with a marker prefix
func (b *LogBuffer) OnError(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, "[pageerror] "+text)
}

// Lines returns a copy of everything captured so far
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// WriteFile dumps the captured lines to a file, one per line
func (b *LogBuffer) WriteFile(path string) error {
	lines := b.Lines()
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write console log %s: %w", path, err)
	}
	return nil
}
