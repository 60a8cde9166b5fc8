package browser

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
)

func TestConsoleText_JoinsArgs(t *testing.T) {
	ev := &runtime.EventConsoleAPICalled{
		Args: []*runtime.RemoteObject{
			{Value: jsontext.Value(`"[runPasses] After Pass 8: current_pass=9"`)},
			{Value: jsontext.Value(`42`)},
		},
	}

	assert.Equal(t, "[runPasses] After Pass 8: current_pass=9 42", consoleText(ev))
}

func TestConsoleText_DescriptionFallback(t *testing.T) {
	ev := &runtime.EventConsoleAPICalled{
		Args: []*runtime.RemoteObject{
			{Description: "Object"},
		},
	}

	assert.Equal(t, "Object", consoleText(ev))
}

func TestConsoleText_Empty(t *testing.T) {
	assert.Equal(t, "", consoleText(&runtime.EventConsoleAPICalled{}))
}

func TestLogBuffer_ConcurrentAppend(t *testing.T) {
	buf := NewLogBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf.OnConsole("line")
		}()
	}
	wg.Wait()

	assert.Len(t, buf.Lines(), 10)
}

func TestLogBuffer_WriteFile(t *testing.T) {
	buf := NewLogBuffer()
	buf.OnConsole("Pass 1: Drafting")
	buf.OnError("TypeError: boom")

	path := filepath.Join(t.TempDir(), "console.log")
	assert.NoError(t, buf.WriteFile(path))

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "Pass 1: Drafting\n[pageerror] TypeError: boom\n", string(content))
}

func TestLogBuffer_WriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	assert.NoError(t, NewLogBuffer().WriteFile(path))

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Empty(t, content)
}

func TestLogBuffer_ErrorPrefix(t *testing.T) {
	buf := NewLogBuffer()
	buf.OnError("TypeError: boom")

	lines := buf.Lines()
	assert.Equal(t, []string{"[pageerror] TypeError: boom"}, lines)
}

func TestQueryOption(t *testing.T) {
	xpath := reflect.ValueOf(queryOption(`//button[contains(., "Sign In")]`)).Pointer()
	css := reflect.ValueOf(queryOption(`button[type="submit"]`)).Pointer()

	assert.Equal(t, reflect.ValueOf(chromedp.BySearch).Pointer(), xpath)
	assert.Equal(t, reflect.ValueOf(chromedp.ByQuery).Pointer(), css)
}
