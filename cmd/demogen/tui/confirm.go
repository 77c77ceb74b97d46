package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	dialog    ConfirmationDialog
	confirmed *bool
}

func newConfirmModel(title, message string) confirmModel {
	confirmed := new(bool)
	d := NewConfirmationDialog(title, message)
	d.OnConfirm = func() tea.Cmd {
		*confirmed = true
		return tea.Quit
	}
	d.OnCancel = func() tea.Cmd {
		return tea.Quit
	}
	return confirmModel{dialog: d, confirmed: confirmed}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, m.dialog.Update(msg)
}

func (m confirmModel) View() string {
	return m.dialog.View()
}

// Confirm asks a yes/no question and reports whether yes was chosen.
func Confirm(title, message string) (bool, error) {
	m := newConfirmModel(title, message)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return false, err
	}
	return *m.confirmed, nil
}
