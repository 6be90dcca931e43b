package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// sweepProgressMsg updates the completed sample count.
type sweepProgressMsg struct {
	done  int
	total int
}

// sweepDoneMsg signals that the sweep finished, successfully or not.
type sweepDoneMsg struct {
	err error
}

// SweepModel is the bubbletea model showing sweep progression.
type SweepModel struct {
	Done     int
	Total    int
	Err      error
	finished bool
}

// NewSweepModel creates a progress model for a sweep of total samples.
func NewSweepModel(total int) SweepModel {
	return SweepModel{Total: total}
}

func (m SweepModel) Init() tea.Cmd {
	return nil
}

func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.finished = true
			return m, tea.Quit
		}
	case sweepProgressMsg:
		m.Done = msg.done
		m.Total = msg.total
	case sweepDoneMsg:
		m.Err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SweepModel) View() string {
	if m.finished {
		return ""
	}

	const width = 30
	filled := 0
	if m.Total > 0 {
		filled = m.Done * width / m.Total
	}
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))

	percent := 0.0
	if m.Total > 0 {
		percent = float64(m.Done) / float64(m.Total) * 100
	}
	return fmt.Sprintf("  %s %5.1f%%  %d/%d samples\n", bar, percent, m.Done, m.Total)
}
