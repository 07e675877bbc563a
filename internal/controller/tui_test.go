package controller

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickItems = []PickItem{
	{Label: "demo", Description: "ament_cmake", Detail: "/ws/src/demo"},
	{Label: "demo_msgs", Description: "ament_cmake", Detail: "/ws/src/demo_msgs"},
	{Label: "demo_py", Description: "ament_python", Detail: "/ws/src/demo_py"},
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, model pickerModel, msgs ...tea.Msg) (pickerModel, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd

	for _, msg := range msgs {
		var next tea.Model

		next, cmd = model.Update(msg)

		var ok bool

		model, ok = next.(pickerModel)
		require.True(t, ok)
	}

	return model, cmd
}

func TestPickerModel_SingleChoice(t *testing.T) {
	model, cmd := send(t, newPickerModel("Select package", pickItems, false), keyDown, runes("j"), keyUp, keyEnter)

	assert.True(t, model.done)
	assert.False(t, model.cancelled)
	assert.NotNil(t, cmd)
	assert.Equal(t, []int{1}, model.chosen())
	assert.Empty(t, model.View())
}

func TestPickerModel_CursorStaysInRange(t *testing.T) {
	model, _ := send(t, newPickerModel("t", pickItems, false), keyUp, runes("k"))
	assert.Equal(t, 0, model.cursor)

	model, _ = send(t, model, keyDown, keyDown, keyDown, keyDown)
	assert.Equal(t, 2, model.cursor)
}

func TestPickerModel_MultiChoice(t *testing.T) {
	model, _ := send(t, newPickerModel("Select packages", pickItems, true), keySpace, keyDown, keyDown, runes("x"))

	assert.Equal(t, []int{0, 2}, model.chosen())

	view := model.View()
	assert.Contains(t, view, "Select packages")
	assert.Contains(t, view, "[x] demo")
	assert.Contains(t, view, "[ ] demo_msgs")
	assert.Contains(t, view, "/ws/src/demo_py")
	assert.Contains(t, view, "space: toggle")

	model, _ = send(t, model, keySpace)
	assert.Equal(t, []int{0}, model.chosen())
}

func TestPickerModel_MultiChoiceDefaultsToCursor(t *testing.T) {
	model, _ := send(t, newPickerModel("t", pickItems, true), keyDown, keyEnter)

	assert.Equal(t, []int{1}, model.chosen())
}

func TestPickerModel_SpaceIgnoredInSingleChoice(t *testing.T) {
	model, _ := send(t, newPickerModel("t", pickItems, false), keySpace)

	assert.Empty(t, model.toggled)
	assert.NotContains(t, model.View(), "[ ]")
}

func TestPickerModel_Cancel(t *testing.T) {
	for _, msg := range []tea.Msg{keyEsc, runes("q"), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		model, cmd := send(t, newPickerModel("t", pickItems, false), msg)

		assert.True(t, model.cancelled)
		assert.NotNil(t, cmd)
	}
}

func TestPickerModel_IgnoresOtherMessages(t *testing.T) {
	model, cmd := send(t, newPickerModel("t", pickItems, false), tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.False(t, model.done)
}

func TestTUI_NotInteractive(t *testing.T) {
	tui := NewTUI(&bytes.Buffer{}, &bytes.Buffer{})

	assert.False(t, tui.IsTerminal())

	_, err := tui.PickOne(context.Background(), "t", pickItems)
	require.ErrorIs(t, err, ErrNotInteractive)

	_, err = tui.PickMany(context.Background(), "t", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotInteractive)
}
