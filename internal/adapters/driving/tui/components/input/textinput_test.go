package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
)

func TestNewFilterInput(t *testing.T) {
	in := NewFilterInput(styles.DefaultStyles())

	require.NotNil(t, in)
	assert.Equal(t, "", in.Value())
	assert.False(t, in.Focused())
}

func TestNewFilterInput_NilStyles(t *testing.T) {
	in := NewFilterInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
}

func TestFilterInput_Init(t *testing.T) {
	in := NewFilterInput(nil)

	assert.NotNil(t, in.Init())
}

func TestFilterInput_UpdateWhenFocused(t *testing.T) {
	in := NewFilterInput(nil)
	in.Focus()

	updated, _ := in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("חיפה")})

	assert.Equal(t, in, updated)
	assert.Equal(t, "חיפה", in.Value())
}

func TestFilterInput_UpdateWhenBlurredIgnoresKeys(t *testing.T) {
	in := NewFilterInput(nil)

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, "", in.Value())
}

func TestFilterInput_View(t *testing.T) {
	in := NewFilterInput(nil)

	assert.Contains(t, in.View(), "Filter")
}

func TestFilterInput_FocusBlur(t *testing.T) {
	in := NewFilterInput(nil)

	in.Focus()
	assert.True(t, in.Focused())

	in.Blur()
	assert.False(t, in.Focused())
}

func TestFilterInput_SetWidth(t *testing.T) {
	in := NewFilterInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 88, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestFilterInput_Reset(t *testing.T) {
	in := NewFilterInput(nil)
	in.SetValue("תל אביב")

	in.Reset()

	assert.Equal(t, "", in.Value())
}
