package recon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjenmarks/ctc-e2e/internal/common"
)

const samplePage = `<html><head><title>CutTheCrap</title></head><body>
<button>Select Project</button>
<button>  Generate Brief  </button>
<button></button>
<a href="/dashboard">Dashboard</a>
<a href="/help"></a>
<input type="email" name="email" placeholder="Email Address">
<input type="password" name="password">
<table><tr><td>row</td></tr></table>
<div role="tablist">
  <div role="tab">Draft</div>
  <div role="tab">Schema</div>
</div>
</body></html>`

func TestDiscoverElements(t *testing.T) {
	inv, err := DiscoverElements(samplePage)
	require.NoError(t, err)

	assert.Equal(t, []string{"Select Project", "Generate Brief"}, inv.Buttons)

	require.Len(t, inv.Links, 2)
	assert.Equal(t, Link{Text: "Dashboard", Href: "/dashboard"}, inv.Links[0])
	assert.Equal(t, Link{Text: "", Href: "/help"}, inv.Links[1])

	require.Len(t, inv.Inputs, 2)
	assert.Equal(t, Input{Placeholder: "Email Address", Name: "email"}, inv.Inputs[0])

	assert.Equal(t, 1, inv.Tables)
	assert.Equal(t, []string{"Draft", "Schema"}, inv.Tabs)
}

func TestDiscoverElements_EmptyPage(t *testing.T) {
	inv, err := DiscoverElements("<html><body></body></html>")
	require.NoError(t, err)

	assert.Empty(t, inv.Buttons)
	assert.Empty(t, inv.Links)
	assert.Equal(t, 0, inv.Tables)
}

func TestDiscoverTopics_DataAttributeRows(t *testing.T) {
	html := `<table>
		<tr data-topic-id="1"><td>hoe daadkracht vergroten</td></tr>
		<tr data-topic-id="2"><td>daadkracht in teams</td></tr>
	</table>`

	topics, err := DiscoverTopics(html, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"hoe daadkracht vergroten", "daadkracht in teams"}, topics)
}

func TestDiscoverTopics_FallbackToTableRows(t *testing.T) {
	html := `<table>
		<tr><th>Topic</th></tr>
		<tr><td>first topic</td></tr>
		<tr><td>second topic</td></tr>
	</table>`

	topics, err := DiscoverTopics(html, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"first topic", "second topic"}, topics)
}

func TestDiscoverTopics_Limit(t *testing.T) {
	html := `<div>
		<div class="topic-row">one</div>
		<div class="topic-row">two</div>
		<div class="topic-row">three</div>
	</div>`

	topics, err := DiscoverTopics(html, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, topics)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 100))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// Multi-byte runes must never be split mid-sequence
	dutch := strings.Repeat("privé-beslissingskaders één ", 10)
	cut := truncate(dutch, 100)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 100, utf8.RuneCountInString(cut))
	assert.Equal(t, string([]rune(dutch)[:100]), cut)
}

func TestDiscoverElements_AccentedButtonText(t *testing.T) {
	long := strings.Repeat("Gepersonaliseerde privé-één ", 6)
	inv, err := DiscoverElements("<html><body><button>" + long + "</button></body></html>")
	require.NoError(t, err)

	require.Len(t, inv.Buttons, 1)
	assert.True(t, utf8.ValidString(inv.Buttons[0]))
	assert.Equal(t, 100, utf8.RuneCountInString(inv.Buttons[0]))
}

func TestFunctionCatalog(t *testing.T) {
	catalog := FunctionCatalog()
	require.Len(t, catalog, 12)

	byName := make(map[string]FunctionCategory)
	for _, category := range catalog {
		byName[category.Category] = category
	}

	generation := byName["Content Generation (10-Pass)"]
	assert.Equal(t, "CRITICAL", generation.Priority)
	// Start, progress view, and one function per pass
	assert.Len(t, generation.Functions, 12)
	assert.Equal(t, "Pass 1: Draft", generation.Functions[2].Name)
	assert.Equal(t, "Pass 10: Schema", generation.Functions[11].Name)

	audit := byName["Quality Audit System"]
	assert.Equal(t, "CRITICAL", audit.Priority)
	assert.Len(t, audit.Functions, 7)

	for _, category := range catalog {
		for _, fn := range category.Functions {
			assert.Equal(t, "TO_TEST", fn.Status)
			assert.NotEmpty(t, fn.Path)
		}
	}
}

func TestBuildReportAndWrite(t *testing.T) {
	cfg := common.NewDefaultConfig()

	inv, err := DiscoverElements(samplePage)
	require.NoError(t, err)

	topics := []string{"a", "b", "c", "d", "e", "f", "g"}
	report := BuildReport(cfg, "https://app.cutthecrap.net/", "CutTheCrap", inv, topics)

	assert.Equal(t, "daadvracht", report.TestProject)
	assert.Equal(t, 7, report.TopicsFound)
	assert.Len(t, report.SampleTopics, 5)
	assert.Len(t, report.QualityTests.AuditRules, 7)
	assert.Len(t, report.QualityTests.TestsToRun, 8)
	assert.Greater(t, report.TotalFunctions(), 40)

	path := filepath.Join(t.TempDir(), "comprehensive_report.json")
	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Content Generation (10-Pass)"`)
	assert.Contains(t, string(data), `"min_audit_score"`)
}
