package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/geospanner/pkg/bench"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// recentLines is how many finished commands the progress view shows.
const recentLines = 8

type progressMsg bench.ProgressEvent

type finishedMsg struct{}

// =============================================================================
// benchModel - Live benchmark progress
// =============================================================================

// benchModel is the bubbletea model for "bench run --tui".
type benchModel struct {
	total     int
	succeeded int
	failed    int
	cached    int
	running   map[int]string
	recent    []progressMsg
	start     time.Time
	width     int
	cancel    context.CancelFunc
	quitting  bool
}

func newBenchModel(total int, cancel context.CancelFunc) benchModel {
	return benchModel{
		total:   total,
		running: make(map[int]string),
		start:   time.Now(),
		width:   80,
		cancel:  cancel,
	}
}

func (m benchModel) Init() tea.Cmd {
	return nil
}

func (m benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
	case progressMsg:
		m = m.apply(msg)
	case finishedMsg:
		return m, tea.Quit
	}
	return m, nil
}

// apply folds a progress event into the counters.
func (m benchModel) apply(ev progressMsg) benchModel {
	switch ev.Status {
	case bench.StatusStarted:
		m.running[ev.Index] = ev.Command
		return m
	case bench.StatusSucceeded:
		m.succeeded++
	case bench.StatusCached:
		m.cached++
	case bench.StatusFailed:
		m.failed++
	}
	delete(m.running, ev.Index)
	m.recent = append(m.recent, ev)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
	return m
}

func (m benchModel) finished() int {
	return m.succeeded + m.failed + m.cached
}

func (m benchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Benchmark"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s elapsed  q abort", time.Since(m.start).Round(time.Second))))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.finished(), m.total, m.width-20))
	b.WriteString(fmt.Sprintf(" %d/%d\n", m.finished(), m.total))
	b.WriteString(fmt.Sprintf("%s %d  %s %d  %s %d  %s %d\n\n",
		styleIconSuccess.Render(iconSuccess), m.succeeded,
		styleCached.Render(iconCached), m.cached,
		styleIconError.Render(iconError), m.failed,
		styleIconSpinner.Render("running"), len(m.running)))

	for _, ev := range m.recent {
		b.WriteString(m.recentLine(ev))
		b.WriteString("\n")
	}
	if m.quitting {
		b.WriteString("\n" + StyleWarning.Render("Aborting..."))
	}
	return b.String()
}

func (m benchModel) recentLine(ev progressMsg) string {
	cmd := truncate(ev.Command, m.width-16)
	switch ev.Status {
	case bench.StatusFailed:
		return styleIconError.Render(iconError) + " " + listNormalStyle.Render(cmd) + " " + StyleWarning.Render(ev.Error)
	case bench.StatusCached:
		return styleCached.Render(iconSuccess) + " " + listDimStyle.Render(cmd+" (cached)")
	default:
		return styleIconSuccess.Render(iconSuccess) + " " + listNormalStyle.Render(cmd) +
			" " + listDimStyle.Render(ev.Elapsed.Round(time.Millisecond).String())
	}
}

// progressBar renders done/total as a bar of the given width.
func progressBar(done, total, width int) string {
	width = max(width, 10)
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return StyleHighlight.Render(strings.Repeat("█", filled)) + listDimStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	n = max(n, 8)
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
