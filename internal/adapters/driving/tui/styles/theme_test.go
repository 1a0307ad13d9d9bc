package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/htm/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		s := string(c)
		assert.False(t, seen[s], "duplicate accent: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestPlainStyles_RenderUnchanged(t *testing.T) {
	s := PlainStyles()

	assert.Equal(t, "root", s.Label.Render("root"))
	assert.Equal(t, "failed", s.Outcome(domain.OutcomeFailed).Render("failed"))
	assert.Equal(t, "ok", s.Status(domain.RunStatusSucceeded).Render("ok"))
}

func TestForWriter_NonTerminal(t *testing.T) {
	var buf bytes.Buffer

	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, "x", ForWriter(&buf).Title.Render("x"))
}

func TestStyles_OutcomeMapping(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Success, s.Outcome(domain.OutcomeSucceeded))
	assert.Equal(t, s.Error, s.Outcome(domain.OutcomeMissing))
	assert.Equal(t, s.Error, s.Outcome(domain.OutcomeFailed))
	assert.Equal(t, s.Muted, s.Outcome(domain.OutcomeDryRun))
	assert.Equal(t, s.Warning, s.Status(domain.RunStatusRunning))
}
