package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type authWaitDoneMsg struct {
	code string
	err  error
}

type authWaitSpinnerModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd
	code    string
	err     error
	done    bool
}

func newAuthWaitSpinnerModel(label string, wait tea.Cmd) authWaitSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return authWaitSpinnerModel{
		spinner: s,
		label:   label,
		wait:    wait,
	}
}

func (m authWaitSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m authWaitSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case authWaitDoneMsg:
		m.done = true
		m.code = msg.code
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m authWaitSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runAuthWaitSpinner(output io.Writer, label string, wait func() (string, error)) (string, error) {
	waitCmd := func() tea.Msg {
		code, err := wait()
		return authWaitDoneMsg{code: code, err: err}
	}

	p := tea.NewProgram(
		newAuthWaitSpinnerModel(label, waitCmd),
		tea.WithOutput(output),
		tea.WithoutSignalHandler(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run auth wait spinner: %w", err)
	}

	model, ok := finalModel.(authWaitSpinnerModel)
	if !ok {
		return "", fmt.Errorf("unexpected auth wait spinner model type %T", finalModel)
	}
	if model.err != nil {
		return "", model.err
	}
	return model.code, nil
}
