// Package tui renders a live view of a training run: per-iteration
// scores, bad-state counts and a score history sparkline.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/soccerlab/ballcap/internal/cem"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type iterationMsg cem.IterationStats

type finishedMsg struct{ err error }

// Model consumes iteration reports from a running search and renders the
// training dashboard.
type Model struct {
	reports    <-chan cem.IterationStats
	done       <-chan error
	iterations int

	last       cem.IterationStats
	trainHist  []float64
	testHist   []float64
	haveReport bool
	finished   bool
	err        error
}

// New builds a dashboard for a run of the given total iteration budget.
// reports must be closed when training ends; done then yields its error.
func New(iterations int, reports <-chan cem.IterationStats, done <-chan error) Model {
	return Model{
		reports:    reports,
		done:       done,
		iterations: iterations,
		trainHist:  make([]float64, 0, iterations),
		testHist:   make([]float64, 0, iterations),
	}
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-m.reports
		if !ok {
			return finishedMsg{err: <-m.done}
		}
		return iterationMsg(st)
	}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case iterationMsg:
		m.last = cem.IterationStats(msg)
		m.haveReport = true
		m.trainHist = append(m.trainHist, m.last.TrainScore)
		m.testHist = append(m.testHist, m.last.TestScore)
		return m, m.listen()
	case finishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("ballcap · cross-entropy policy search"))
	b.WriteString("\n")

	if !m.haveReport {
		b.WriteString(panelStyle.Render("waiting for first iteration..."))
		b.WriteString(helpStyle.Render("\nq: quit"))
		return b.String()
	}

	rows := []string{
		row("iteration", fmt.Sprintf("%d / %d", m.last.Iteration, m.iterations)),
		row("best sample", fmt.Sprintf("%.2f", m.last.BestScore)),
		row("mean sample", fmt.Sprintf("%.2f", m.last.MeanScore)),
		row("train score", fmt.Sprintf("%.2f", m.last.TrainScore)),
		row("test score", fmt.Sprintf("%.2f", m.last.TestScore)),
		row("bad states", badStates(m.last)),
		row("iter time", m.last.Elapsed.Round(time.Millisecond).String()),
		row("total time", m.last.Total.Round(time.Second).String()),
	}
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))

	if len(m.trainHist) >= 2 {
		graph := asciigraph.Plot(m.trainHist,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("train score by iteration"),
		)
		b.WriteString(graphStyle.Render("\n" + graph))
	}

	if m.finished {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(warnStyle.Render("training stopped: " + m.err.Error()))
		} else {
			b.WriteString(doneStyle.Render("training complete"))
		}
	}

	b.WriteString(helpStyle.Render("\nq: quit"))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func badStates(st cem.IterationStats) string {
	s := fmt.Sprintf("%d/%d train · %d/%d test", st.TrainBad, st.TrainSize, st.TestBad, st.TestSize)
	if st.TrainBad == st.TrainSize {
		return warnStyle.Render(s + "  (all bad)")
	}
	return s
}
