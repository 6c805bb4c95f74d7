// Package tui provides a Bubble Tea terminal user interface for newbeach.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/newbeach/internal/config"
	"github.com/handiism/newbeach/internal/download"
	"github.com/handiism/newbeach/internal/player"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many progress lines the log view keeps.
const maxLogs = 10

// stagePattern matches the "[n/4]" prefix of stage messages.
var stagePattern = regexp.MustCompile(`^\[(\d+)/(\d+)\]`)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	player    *player.Player
	logs      []LogEntry
	result    *download.RunResult
	err       error
	percent   float64

	// Run context
	ctx    context.Context
	cancel context.CancelFunc
	events chan download.ProgressEvent

	// Options
	limit   int
	play    bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model for settings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://www.newgrounds.com/audio"
	ti.SetValue(settings.ListingURL)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		player:    player.New(settings.PlayerCommand),
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		limit:     settings.Limit,
		play:      settings.Play,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every pipeline progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// RunDoneMsg is sent when the pipeline finishes.
	RunDoneMsg struct {
		Result *download.RunResult
		Err    error
	}

	// PlayDoneMsg is sent when the player exits.
	PlayDoneMsg struct {
		Err error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				return m.start()
			}
			if m.state == StateComplete {
				cmd := m.launchPlayer()
				return m, cmd
			}

		case "up":
			if m.state == StateInput {
				m.limit++
			}

		case "down":
			if m.state == StateInput && m.limit > 1 {
				m.limit--
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.play = !m.play
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				return m.reset(), textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.addLog(msg.Event)
		if percent, ok := stagePercent(msg.Event.Message); ok {
			m.percent = percent
		}
		if m.state == StateRunning {
			cmds = append(cmds, waitForEvent(m.events))
		}

	case RunDoneMsg:
		m.drainEvents()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case msg.Result == nil:
			// Nothing was discovered; the run still ends normally.
			m.state = StateComplete
			m.result = nil
			m.percent = 1
		default:
			m.state = StateComplete
			m.result = msg.Result
			m.percent = 1
			if m.play {
				cmds = append(cmds, m.launchPlayer())
			}
		}

	case PlayDoneMsg:
		if msg.Err != nil {
			m.addLog(download.ProgressEvent{Message: msg.Err.Error(), Level: download.LevelWarning})
		}
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start switches to the running state and launches the pipeline.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings := *m.settings
	settings.ListingURL = strings.TrimSpace(m.textInput.Value())
	settings.Limit = m.limit

	m.state = StateRunning
	m.logs = nil
	m.percent = 0
	m.events = make(chan download.ProgressEvent, 64)

	return m, tea.Batch(
		runPipeline(m.ctx, &settings, m.events),
		waitForEvent(m.events),
		m.spinner.Tick,
	)
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.result = nil
	m.err = nil
	m.percent = 0
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
	return m
}

func (m *Model) addLog(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// drainEvents moves events still buffered after the run into the log.
func (m *Model) drainEvents() {
	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				return
			}
			m.addLog(event)
		default:
			return
		}
	}
}

// launchPlayer hands the terminal to the player until it exits.
func (m *Model) launchPlayer() tea.Cmd {
	if m.result == nil {
		return nil
	}
	if _, ok := m.player.Available(); !ok {
		m.addLog(download.ProgressEvent{
			Message: fmt.Sprintf("Error: '%s' is not installed.", m.player.Name()),
			Level:   download.LevelError,
		})
		return nil
	}
	cmd := m.player.Command(m.result.Dir, m.result.PlaylistPath)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return PlayDoneMsg{Err: err}
	})
}

// runPipeline runs the manager in the background, forwarding progress
// events to events.
func runPipeline(ctx context.Context, settings *config.Settings, events chan<- download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		manager := download.NewManager(settings, func(event download.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})
		result, err := manager.Run(ctx)
		close(events)
		return RunDoneMsg{Result: result, Err: err}
	}
}

// waitForEvent blocks until the next progress event or until the run
// closes events.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

func stagePercent(message string) (float64, bool) {
	match := stagePattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(match[1])
	total, _ := strconv.Atoi(match[2])
	if total <= 0 {
		return 0, false
	}
	// A stage message announces the start of stage n.
	return float64(n-1) / float64(total), true
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 newbeach"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fresh Newgrounds audio, straight to your player"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Listing page:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	playCheck := "[ ]"
	if m.play {
		playCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Songs: %d (↑/↓)\n", m.limit))
	b.WriteString(fmt.Sprintf("  %s Play when done (ctrl+p)\n", playCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+o)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output root: %s (namespace %q)", m.settings.OutputRoot, m.settings.Namespace)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Working..."))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(m.percent))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.result == nil {
		b.WriteString(boxStyle.Render("✨ DONE\n\nNo songs found."))
		b.WriteString("\n\n")
		b.WriteString(m.renderLogs())
		return b.String()
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ READY\n\n"+
			"Saved to: %s\n"+
			"URL List: %s\n"+
			"Songs: %d downloaded, %d failed",
		m.result.Dir,
		m.result.TracksPath,
		m.result.Downloaded,
		m.result.Failed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
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
	switch m.state {
	case StateInput:
		return "enter: start • ↑/↓: songs • ctrl+p: play • ctrl+o: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete:
		if m.result == nil {
			return "r: new batch • q: quit"
		}
		return "enter: play • r: new batch • q: quit"
	case StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
