package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	names := Names()

	assert.Equal(t, []string{
		"capture",
		"comprehensive",
		"draft-ops",
		"generation",
		"recon",
		"style-publish",
		"tab-switch",
		"wizard-save",
	}, names)
}

func TestGet(t *testing.T) {
	for _, name := range Names() {
		scenario, err := Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, scenario, name)
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "nonexistent"`)
}

func TestUIPassPattern(t *testing.T) {
	html := `<div class="progress">Pass 7 of 10: Writing introduction</div>`
	match := uiPassPattern.FindStringSubmatch(html)
	require.NotNil(t, match)
	assert.Equal(t, "7", match[1])

	assert.Nil(t, uiPassPattern.FindStringSubmatch("<div>no progress here</div>"))
}
