package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// ErrNotInteractive is returned by the picker when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("interactive selection requires a terminal")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

type pickerKeys struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	accept key.Binding
	cancel key.Binding
}

func newPickerKeys() pickerKeys {
	return pickerKeys{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
	}
}

// TUI implements Picker using Bubble Tea.
type TUI struct {
	input  io.Reader
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(input io.Reader, output io.Writer) *TUI {
	return &TUI{input: input, output: output}
}

// IsTerminal reports whether both streams of the TUI are attached to a terminal.
func (p *TUI) IsTerminal() bool {
	return isTerminal(p.input) && isTerminal(p.output)
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PickOne shows a single-choice list.
func (p *TUI) PickOne(ctx context.Context, title string, items []PickItem) (int, error) {
	chosen, err := p.run(ctx, newPickerModel(title, items, false))
	if err != nil {
		return -1, err
	}

	return chosen[0], nil
}

// PickMany shows a multiple-choice list. Enter without any toggled item picks
// the item under the cursor.
func (p *TUI) PickMany(ctx context.Context, title string, items []PickItem) ([]int, error) {
	return p.run(ctx, newPickerModel(title, items, true))
}

func (p *TUI) run(ctx context.Context, model pickerModel) ([]int, error) {
	if len(model.items) == 0 {
		return nil, errors.New("nothing to pick from")
	}

	if !p.IsTerminal() {
		return nil, ErrNotInteractive
	}

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(p.input), tea.WithOutput(p.output))

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, m.ErrUserInputCancelled
		}

		return nil, err
	}

	result, ok := final.(pickerModel)
	if !ok || result.cancelled {
		return nil, m.ErrUserInputCancelled
	}

	return result.chosen(), nil
}

// pickerModel represents the Bubble Tea model of a list picker.
type pickerModel struct {
	title     string
	items     []PickItem
	multi     bool
	keys      pickerKeys
	cursor    int
	toggled   map[int]bool
	done      bool
	cancelled bool
}

func newPickerModel(title string, items []PickItem, multi bool) pickerModel {
	return pickerModel{
		title:   title,
		items:   items,
		multi:   multi,
		keys:    newPickerKeys(),
		toggled: make(map[int]bool),
	}
}

func (pm pickerModel) Init() tea.Cmd {
	return nil
}

func (pm pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return pm, nil
	}

	switch {
	case key.Matches(keyMsg, pm.keys.cancel):
		pm.cancelled = true
		return pm, tea.Quit

	case key.Matches(keyMsg, pm.keys.accept):
		pm.done = true
		return pm, tea.Quit

	case key.Matches(keyMsg, pm.keys.up):
		if pm.cursor > 0 {
			pm.cursor--
		}

	case key.Matches(keyMsg, pm.keys.down):
		if pm.cursor < len(pm.items)-1 {
			pm.cursor++
		}

	case pm.multi && key.Matches(keyMsg, pm.keys.toggle):
		pm.toggled[pm.cursor] = !pm.toggled[pm.cursor]
	}

	return pm, nil
}

// chosen returns the picked indices in item order.
func (pm pickerModel) chosen() []int {
	if !pm.multi {
		return []int{pm.cursor}
	}

	var indices []int

	for i := range pm.items {
		if pm.toggled[i] {
			indices = append(indices, i)
		}
	}

	if len(indices) == 0 {
		indices = []int{pm.cursor}
	}

	return indices
}

func (pm pickerModel) View() string {
	if pm.done || pm.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title))
	b.WriteString("\n\n")

	for i, item := range pm.items {
		marker := "  "
		if pm.multi {
			marker = "[ ] "
			if pm.toggled[i] {
				marker = "[x] "
			}
		}

		line := marker + item.Label
		if item.Description != "" {
			line += " " + faintStyle.Render(item.Description)
		}

		if i == pm.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}

		b.WriteString("\n")

		if i == pm.cursor && item.Detail != "" {
			fmt.Fprintf(&b, "    %s\n", faintStyle.Render(item.Detail))
		}
	}

	b.WriteString("\n")

	help := []key.Binding{pm.keys.up, pm.keys.down, pm.keys.accept, pm.keys.cancel}
	if pm.multi {
		help = append(help, pm.keys.toggle)
	}

	parts := make([]string, 0, len(help))
	for _, binding := range help {
		parts = append(parts, binding.Help().Key+": "+binding.Help().Desc)
	}

	b.WriteString(faintStyle.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	return b.String()
}
