// Package tui provides a Bubble Tea terminal user interface for SpotiPlay.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)
)

// Queue is the part of the download manager the TUI drives.
type Queue interface {
	download.Actions
	ClearFailed() int
	Snapshot() []model.Item
}

// LogLevel is the severity of a log line shown in the UI.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelWarning
	LevelError
	LevelSuccess
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   LogLevel
}

const maxLogs = 8

// Model is the Bubble Tea model for the TUI.
type Model struct {
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	queue     Queue
	mode      int // index into classify.Modes

	order []string
	items map[string]model.Item
	stats model.Stats
	logs  []LogEntry

	outputDir string
	width     int
	height    int
}

// NewModel creates a new TUI model showing the queue's current items.
func NewModel(queue Queue, outputDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "Spotify/YouTube URL or song name"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 30

	m := Model{
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		queue:     queue,
		items:     make(map[string]model.Item),
		outputDir: outputDir,
	}
	for _, item := range queue.Snapshot() {
		m.order = append(m.order, item.ID)
		m.items[item.ID] = item
		m.stats.Add(item.Status)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Mode returns the selected input mode.
func (m Model) Mode() classify.Mode {
	return classify.Modes[m.mode]
}

// Message types produced by commands
type (
	// requestDoneMsg is sent when AddRequest returns.
	requestDoneMsg struct {
		items []model.Item
		err   error
	}

	// actionDoneMsg reports the outcome of a queue action.
	actionDoneMsg struct {
		message string
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = min(max(msg.Width-10, 20), 100)
		m.progress.Width = min(max(msg.Width/3, 10), 40)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.mode = (m.mode + 1) % len(classify.Modes)
			return m, nil

		case "esc":
			if m.textInput.Focused() {
				m.textInput.Blur()
			} else {
				cmds = append(cmds, m.textInput.Focus())
			}
			return m, tea.Batch(cmds...)

		case "enter":
			if !m.textInput.Focused() {
				return m, m.textInput.Focus()
			}
			text := strings.TrimSpace(m.textInput.Value())
			if text == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			return m, m.addRequest(text, m.Mode())
		}

		if !m.textInput.Focused() {
			switch msg.String() {
			case "x":
				return m, m.cancelAll()
			case "c":
				return m, m.clear(false)
			case "f":
				return m, m.clear(true)
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ItemAddedMsg:
		if _, ok := m.items[msg.Item.ID]; !ok {
			m.order = append(m.order, msg.Item.ID)
		}
		m.items[msg.Item.ID] = msg.Item

	case ItemUpdatedMsg:
		prev, ok := m.items[msg.Item.ID]
		if !ok {
			return m, nil
		}
		m.items[msg.Item.ID] = msg.Item
		if prev.Status != msg.Item.Status {
			m.logTransition(msg.Item)
		}

	case ItemRemovedMsg:
		delete(m.items, msg.ID)
		for i, id := range m.order {
			if id == msg.ID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}

	case StatsMsg:
		m.stats = msg.Stats

	case requestDoneMsg:
		if len(msg.items) > 0 {
			m.addLog(fmt.Sprintf("Queued %d item(s)", len(msg.items)), LevelInfo)
		}
		var verr *classify.ValidationError
		switch {
		case errors.As(msg.err, &verr):
			for _, r := range verr.Rejected {
				m.addLog(fmt.Sprintf("%s: %s", r.Reason, classify.DisplayName(r.Line)), LevelWarning)
			}
		case msg.err != nil:
			m.addLog(msg.err.Error(), LevelError)
		}

	case actionDoneMsg:
		m.addLog(msg.message, LevelInfo)
	}

	if m.textInput.Focused() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) logTransition(item model.Item) {
	name := classify.DisplayName(item.DisplayName())
	switch item.Status {
	case model.StatusCompleted:
		m.addLog("Downloaded "+name, LevelSuccess)
	case model.StatusFailed:
		m.addLog(fmt.Sprintf("Failed %s: %s", name, item.Error), LevelError)
	case model.StatusCancelled:
		m.addLog("Cancelled "+name, LevelWarning)
	}
}

func (m *Model) addLog(message string, level LogLevel) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Commands call the queue off the event loop. The manager notifies the
// program through the Bridge while these run.

func (m Model) addRequest(text string, mode classify.Mode) tea.Cmd {
	queue := m.queue
	return func() tea.Msg {
		items, err := queue.AddRequest(text, mode)
		return requestDoneMsg{items: items, err: err}
	}
}

func (m Model) cancelAll() tea.Cmd {
	queue := m.queue
	return func() tea.Msg {
		queue.CancelAll()
		return actionDoneMsg{message: "Cancelling all downloads"}
	}
}

func (m Model) clear(onlyFailed bool) tea.Cmd {
	queue := m.queue
	return func() tea.Msg {
		if onlyFailed {
			return actionDoneMsg{message: fmt.Sprintf("Cleared %d failed item(s)", queue.ClearFailed())}
		}
		return actionDoneMsg{message: fmt.Sprintf("Cleared %d finished item(s)", queue.ClearCompleted())}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 SpotiPlay"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download music from Spotify and YouTube"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Mode: "))
	b.WriteString(modeStyle.Render(m.Mode().Label()))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.viewQueue())
	b.WriteString("\n")
	b.WriteString(m.viewStats())
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s", m.outputDir)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewQueue() string {
	if len(m.order) == 0 {
		return dimStyle.Render("Queue is empty")
	}

	var b strings.Builder
	ids := m.order
	if limit := m.visibleItems(); len(ids) > limit {
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more above", len(ids)-limit)))
		b.WriteString("\n")
		ids = ids[len(ids)-limit:]
	}

	for _, id := range ids {
		b.WriteString(m.viewItem(m.items[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) visibleItems() int {
	if m.height == 0 {
		return 10
	}
	// header, input, stats, logs and footer take about 20 lines
	return max(m.height-20, 3)
}

func (m Model) viewItem(item model.Item) string {
	name := classify.DisplayName(item.DisplayName())

	switch item.Status {
	case model.StatusQueued:
		return dimStyle.Render("  ◦ " + name)

	case model.StatusRunning:
		line := fmt.Sprintf("%s %s %s", m.spinner.View(), name, m.progress.ViewAs(float64(item.Percent)/100))
		if item.Rate != "" || item.ETA != "" {
			line += dimStyle.Render(fmt.Sprintf(" %s ETA %s", item.Rate, item.ETA))
		}
		return line

	case model.StatusCompleted:
		return successStyle.Render("  ✓ " + name)

	case model.StatusFailed:
		return errorStyle.Render("  ✗ "+name) + dimStyle.Render(" "+firstLine(item.Error))

	case model.StatusCancelled:
		return warningStyle.Render("  – " + name)
	}
	return "  " + name
}

func (m Model) viewStats() string {
	s := m.stats
	return infoStyle.Render(fmt.Sprintf(
		"Total: %d | Queued: %d | Running: %d | Completed: %d | Failed: %d | Cancelled: %d",
		s.Total, s.Queued, s.Running, s.Completed, s.Failed, s.Cancelled,
	))
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case LevelError:
			style = errorStyle
			prefix = "✗"
		case LevelWarning:
			style = warningStyle
			prefix = "!"
		case LevelSuccess:
			style = successStyle
			prefix = "✓"
		case LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	if m.textInput.Focused() {
		return "enter: add • tab: mode • esc: queue keys • ctrl+c: quit"
	}
	return "x: cancel all • c: clear finished • f: clear failed • tab: mode • esc/enter: type • q: quit"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Run starts the TUI application. The bridge must be the presentation the
// queue was created with.
func Run(queue Queue, bridge *Bridge, outputDir string) error {
	p := tea.NewProgram(NewModel(queue, outputDir), tea.WithAltScreen())
	bridge.Attach(p)
	defer bridge.Attach(nil)

	_, err := p.Run()
	return err
}
