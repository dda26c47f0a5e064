// Package progress implements the optional live progress display for an
// export run: a bubbletea program driving a single progress bar keyed off
// notes completed versus total, not an editor or browser.
package progress

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// tickMsg carries an updated completed/total count into the bubbletea
// update loop.
type tickMsg struct {
	completed int
	total     int
}

type model struct {
	bar       progress.Model
	completed int
	total     int
	done      bool
}

func newModel(total int) model {
	return model{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.completed = msg.completed
		m.total = msg.total
		if m.completed >= m.total {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.completed) / float64(m.total)
	}
	return labelStyle.Render(fmt.Sprintf("Exporting notes (%d/%d)\n", m.completed, m.total)) +
		m.bar.ViewAs(pct) + "\n"
}

// Display drives a bubbletea progress bar program. Updates sent on
// updates are rendered until it is closed, at which point the program
// exits. Run Display in its own goroutine; send (completed, total) pairs
// on updates from the exporter's progress callback.
type Display struct {
	program *tea.Program
	updates chan tickMsg
}

// NewDisplay starts a progress display for an export of total notes.
func NewDisplay(total int) *Display {
	updates := make(chan tickMsg, 16)
	p := tea.NewProgram(newModel(total), tea.WithOutput(os.Stderr))
	return &Display{program: p, updates: updates}
}

// Run blocks pumping updates into the bubbletea program until Close is
// called. Call it from its own goroutine.
func (d *Display) Run() {
	go func() {
		for u := range d.updates {
			d.program.Send(u)
		}
	}()
	_, _ = d.program.Run()
}

// Update reports completed/total progress to the display.
func (d *Display) Update(completed, total int) {
	select {
	case d.updates <- tickMsg{completed: completed, total: total}:
	default:
	}
}

// Close stops the display.
func (d *Display) Close() {
	close(d.updates)
	d.program.Quit()
}
