// Package ui renders live progress of a multi-file run in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"textconf/internal/pipeline"
)

type progressModel struct {
	title   string
	check   bool
	events  <-chan pipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path     string
	status   string
	stage    pipeline.Stage
	finished bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-document
// progress. The model quits when events is closed. In check mode changed
// documents are shown as stale instead of updated.
func NewProgressModel(title string, files []string, check bool, events <-chan pipeline.Event) tea.Model {
	return newProgressModel(title, files, check, events)
}

func newProgressModel(title string, files []string, check bool, events <-chan pipeline.Event) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued", stage: pipeline.StageLoad})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		check:   check,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// прячем UI, работа доходит до конца без него
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%s)", m.title, m.summary())
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.ViewAs(m.fraction()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.finished {
		return nil
	}
	if label := m.statusLabel(ev); label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	item.finished = ev.Status == pipeline.StatusDone || ev.Status == pipeline.StatusError
	return m.prog.SetPercent(m.fraction())
}

// fraction: завершённые документы считаются целиком, остальные по стадии.
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.finished {
			total++
			continue
		}
		total += progressFromStage(item.stage)
	}
	return total / float64(len(m.items))
}

func (m *progressModel) summary() string {
	var finished, failed int
	for _, item := range m.items {
		if item.finished {
			finished++
		}
		if item.status == "error" {
			failed++
		}
	}
	s := fmt.Sprintf("%d/%d", finished, len(m.items))
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

func progressFromStage(stage pipeline.Stage) float64 {
	switch stage {
	case pipeline.StageAnalyze:
		return 0.3
	case pipeline.StageGenerate:
		return 0.6
	case pipeline.StageWrite:
		return 0.9
	default:
		return 0
	}
}

func (m *progressModel) statusLabel(ev pipeline.Event) string {
	switch ev.Status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusDone:
		switch {
		case !ev.Changed:
			return "up to date"
		case m.check:
			return "stale"
		}
		return "updated"
	case pipeline.StatusWorking:
		return stageLabel(ev.Stage)
	}
	return ""
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageAnalyze:
		return "analyzing"
	case pipeline.StageGenerate:
		return "generating"
	case pipeline.StageWrite:
		return "writing"
	}
	return ""
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "updated", "up to date":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "stale":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "loading", "analyzing", "generating", "writing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// ширина хвоста входит в width
	return runewidth.Truncate(value, width, "...")
}
