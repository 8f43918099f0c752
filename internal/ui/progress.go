// Package ui renders live build progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dhlc/internal/driver"
)

// stageInfo is what the view shows while a file is inside a stage.
type stageInfo struct {
	label  string
	weight float64
}

var stages = map[driver.Stage]stageInfo{
	driver.StageLoad:  {"loading", 0.1},
	driver.StageParse: {"parsing", 0.3},
	driver.StageLower: {"lowering", 0.6},
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleQueued  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleWorking = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const statusWidth = 10

type fileItem struct {
	path    string
	status  string
	stage   driver.Stage
	final   bool
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	byPath  map[string]int
	width   int
	done    bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel lists files with their current stage until events is
// closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleWorking)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, f := range files {
		m.byPath[f] = len(m.items)
		m.items = append(m.items, fileItem{path: f, status: string(driver.StatusQueued)})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var next tea.Model
		next, cmd = m.bar.Update(msg)
		m.bar = next.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	if m.done {
		b.WriteString(styleTitle.Render("done: " + m.title))
	} else {
		b.WriteString(styleTitle.Render(m.spinner.View() + " " + m.title))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	for _, it := range m.items {
		status := styleFor(it).Render(fmt.Sprintf("%*s", statusWidth, it.status))
		line := "  " + status + " " + truncate(it.path, nameWidth)
		if it.final && it.elapsed > 0 {
			line += styleQueued.Render(fmt.Sprintf("  %s", it.elapsed.Round(time.Millisecond)))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// applyEvent ignores files the model was not created with.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	switch ev.Status {
	case driver.StatusQueued:
		it.status = string(ev.Status)
	case driver.StatusDone, driver.StatusError:
		it.status, it.final, it.elapsed = string(ev.Status), true, ev.Elapsed
	case driver.StatusWorking:
		if info, known := stages[ev.Stage]; known {
			it.status, it.stage = info.label, ev.Stage
		}
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction is the overall completion in [0, 1].
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		if it.final {
			sum++
		} else {
			sum += stages[it.stage].weight
		}
	}
	return sum / float64(len(m.items))
}

func styleFor(it fileItem) lipgloss.Style {
	switch {
	case it.status == string(driver.StatusDone):
		return styleOK
	case it.status == string(driver.StatusError):
		return styleFailed
	case it.stage != "" && !it.final:
		return styleWorking
	}
	return styleQueued
}

// truncate shortens value to width display cells, ending in "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
