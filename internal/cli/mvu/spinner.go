package mvu

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stormozov/vkdisk/pkg/logger"
)

// SpinnerModel renders a spinner until the awaited operation settles.
// There is no cancellation for in-flight remote calls, so key presses
// are ignored.
type SpinnerModel struct {
	spinner  spinner.Model
	message  string
	done     <-chan error
	err      error
	quitting bool
}

type settledMsg struct {
	err error
}

// NewSpinnerModel returns a new SpinnerModel waiting on done.
func NewSpinnerModel(message string, done <-chan error) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#54baff"))

	return SpinnerModel{
		spinner: s,
		message: message,
		done:    done,
	}
}

func (m SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitSettled())
}

// waitSettled returns a command that blocks until the operation reports
// its outcome.
func (m SpinnerModel) waitSettled() tea.Cmd {
	return func() tea.Msg {
		return settledMsg{err: <-m.done}
	}
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settledMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m SpinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

// Err returns the outcome of the awaited operation.
func (m SpinnerModel) Err() error {
	return m.err
}

// Run executes task in the background and shows a spinner until it
// settles. When the terminal cannot host the program (no TTY), it falls
// back to a plain log line and a blocking wait.
func Run(message string, task func() error) error {
	done := make(chan error, 1)
	go func() { done <- task() }()

	p := tea.NewProgram(NewSpinnerModel(message, done))
	final, err := p.Run()
	if err != nil {
		logger.Info(message)
		return <-done
	}
	return final.(SpinnerModel).Err()
}
