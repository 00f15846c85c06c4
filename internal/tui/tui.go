// Package tui provides a Bubble Tea terminal user interface for slavart.
//
// The flow is: type a query, pick tracks from the results, download them.
// Searches and downloads go through the same download.Manager as the
// command line, so the track cache and file layout are shared.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/ZephyrCodesStuff/slavart/internal/config"
	"github.com/ZephyrCodesStuff/slavart/internal/download"
	"github.com/ZephyrCodesStuff/slavart/internal/model"
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

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateSearching
	StateResults
	StateDownloading
	StateComplete
	StateError
)

const (
	maxLogs       = 10
	maxVisible    = 15
	defaultWidth  = 100
	eventBuffer   = 64
	tickInterval  = 200 * time.Millisecond
	errCancelText = "cancelled by user"
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
	settings  config.Settings
	logs      []LogEntry
	err       error

	// Search results
	query    string
	tracks   []model.Track
	total    int
	cursor   int
	selected map[int]bool

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan download.ProgressEvent

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	receivedBytes   int64
	failedIDs       []int

	// Options
	playlist bool
	noTags   bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings as the base
// configuration of every search and download.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "artist, album or track"
	ti.Focus()
	ti.CharLimit = 200
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
		settings:  *settings,
		playlist:  settings.Playlist != config.PlaylistNone,
		selected:  make(map[int]bool),
		events:    make(chan download.ProgressEvent, eventBuffer),
		ctx:       ctx,
		cancel:    cancel,
		width:     defaultWidth,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

// Message types
type (
	// ProgressMsg carries an event reported by the manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// SearchDoneMsg is sent when a search completes.
	SearchDoneMsg struct {
		Results *model.Results
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Files    int32
		TotalF   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		var handled bool
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, waitForEvent(m.events))
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		// Track summaries are shown in the results list
		if m.state == StateSearching && strings.HasPrefix(msg.Event.Message, "ID: ") {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case SearchDoneMsg:
		if m.state != StateSearching {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			if m.ctx.Err() != nil {
				m.err = errors.New(errCancelText)
			}
			break
		}
		m.tracks = msg.Results.Tracks.Items
		m.total = msg.Results.Tracks.Total
		m.cursor = 0
		m.selected = make(map[int]bool)
		m.state = StateResults

	case DownloadDoneMsg:
		m.receivedBytes = msg.Received
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF

		var batchErr *download.BatchError
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errors.New(errCancelText)
		case errors.As(msg.Err, &batchErr):
			m.failedIDs = batchErr.FailedIDs()
			m.state = StateComplete
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			received, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled is false when the key should
// still reach the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit, true
	}

	switch m.state {
	case StateInput:
		switch msg.String() {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			query := strings.TrimSpace(m.textInput.Value())
			if query == "" {
				return m, nil, true
			}
			m.query = query
			m.logs = nil
			m.manager = download.NewManager(m.runSettings(), m.sendEvent())
			m.state = StateSearching
			return m, tea.Batch(search(m.ctx, m.manager, query), m.spinner.Tick), true
		case "ctrl+p":
			m.playlist = !m.playlist
			return m, nil, true
		case "ctrl+t":
			m.noTags = !m.noTags
			return m, nil, true
		case "ctrl+e":
			m.verbose = !m.verbose
			return m, nil, true
		}

	case StateSearching, StateDownloading:
		if msg.String() == "esc" {
			m.cancel()
			return m, nil, true
		}

	case StateResults:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tracks)-1 {
				m.cursor++
			}
		case " ", "x":
			if len(m.tracks) > 0 {
				id := m.tracks[m.cursor].ID
				m.selected[id] = !m.selected[id]
				if !m.selected[id] {
					delete(m.selected, id)
				}
			}
		case "a":
			if len(m.selected) == len(m.tracks) {
				m.selected = make(map[int]bool)
			} else {
				for _, track := range m.tracks {
					m.selected[track.ID] = true
				}
			}
		case "enter":
			ids := m.SelectedIDs()
			if len(ids) == 0 {
				return m, nil, true
			}
			m.logs = nil
			m.failedIDs = nil
			m.totalFiles = int32(len(ids))
			m.downloadedFiles = 0
			m.receivedBytes = 0
			m.state = StateDownloading
			return m, tea.Batch(startDownload(m.ctx, m.manager, ids, m.settings.OutputPath), tickProgress()), true
		case "esc", "/":
			m = m.reset()
			return m, textinput.Blink, true
		case "q":
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateComplete, StateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit, true
		case "r":
			m = m.reset()
			return m, textinput.Blink, true
		case "b":
			if len(m.tracks) > 0 {
				if m.ctx.Err() != nil {
					m.ctx, m.cancel = context.WithCancel(context.Background())
				}
				m.err = nil
				m.state = StateResults
				return m, nil, true
			}
		}
		return m, nil, true
	}

	return m, nil, false
}

// reset returns to the query input for a new search.
func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.tracks = nil
	m.total = 0
	m.cursor = 0
	m.selected = make(map[int]bool)
	m.downloadedFiles = 0
	m.totalFiles = 0
	m.receivedBytes = 0
	m.failedIDs = nil
	m.manager = nil
	if m.ctx.Err() != nil {
		m.ctx, m.cancel = context.WithCancel(context.Background())
	}
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

// SelectedIDs returns the ids to download: the selected tracks in result
// order, or the track under the cursor when nothing is selected.
func (m Model) SelectedIDs() []int {
	if len(m.tracks) == 0 {
		return nil
	}
	if len(m.selected) == 0 {
		return []int{m.tracks[m.cursor].ID}
	}

	ids := make([]int, 0, len(m.selected))
	order := make(map[int]int, len(m.tracks))
	for i, track := range m.tracks {
		order[track.ID] = i
	}
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	return ids
}

// runSettings applies the UI toggles to the base settings.
func (m Model) runSettings() *config.Settings {
	settings := m.settings
	if m.playlist {
		if settings.Playlist == config.PlaylistNone {
			settings.Playlist = config.PlaylistM3U
		}
	} else {
		settings.Playlist = config.PlaylistNone
	}
	if m.noTags {
		settings.ModifyTags = false
		settings.EmbedCoverArt = false
	}
	return &settings
}

// sendEvent returns a progress callback feeding the event channel. Events
// are dropped when the UI falls behind.
func (m Model) sendEvent() func(download.ProgressEvent) {
	events := m.events
	return func(event download.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	}
}

func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(tickInterval, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// search runs the query in the background.
func search(ctx context.Context, manager *download.Manager, query string) tea.Cmd {
	return func() tea.Msg {
		results, err := manager.Search(ctx, query)
		return SearchDoneMsg{Results: results, Err: err}
	}
}

// startDownload starts the actual download in background.
func startDownload(ctx context.Context, manager *download.Manager, ids []int, root string) tea.Cmd {
	return func() tea.Msg {
		err := manager.Download(ctx, ids, root)
		received, files, totalFiles := manager.GetProgress()

		return DownloadDoneMsg{
			Received: received,
			Files:    files,
			TotalF:   totalFiles,
			Err:      err,
		}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ slavart"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Search the catalog and download FLAC tracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.viewSearching())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
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

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Save without tags (ctrl+t)\n", checkbox(m.noTags)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+e)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSearching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Searching for '%s'...", m.query)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	if len(m.tracks) == 0 {
		b.WriteString(warningStyle.Render(fmt.Sprintf("No tracks found for '%s'", m.query)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d tracks for '%s' (showing %d):", m.total, m.query, len(m.tracks))))
	b.WriteString("\n\n")

	// Scroll so the cursor stays visible
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.tracks))

	lineWidth := max(m.width-8, 20)
	for i := start; i < end; i++ {
		track := m.tracks[i]
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		line := runewidth.Truncate(trackLine(&track), lineWidth, "…")
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, checkbox(m.selected[track.ID]), line))
	}

	if len(m.tracks) > maxVisible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(m.tracks))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d selected", len(m.selected))))
	b.WriteString("\n")

	return b.String()
}

// trackLine is the compact one-line form of a result.
func trackLine(track *model.Track) string {
	album := track.AlbumTitle()
	if album == "" {
		album = "N/A"
	}
	return fmt.Sprintf("%s - %s [%s] (%g kHz, id %d)", track.Performer.Name, track.Title, album, track.MaximumSamplingRate, track.ID)
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %s",
		m.downloadedFiles,
		m.totalFiles,
		humanize.IBytes(uint64(m.receivedBytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf(
		"Download Complete!\n\n"+
			"Files: %d/%d\n"+
			"Size: %s\n"+
			"Saved to: %s",
		m.downloadedFiles,
		m.totalFiles,
		humanize.IBytes(uint64(m.receivedBytes)),
		m.settings.OutputPath,
	)
	if len(m.failedIDs) > 0 {
		ids := make([]string, len(m.failedIDs))
		for i, id := range m.failedIDs {
			ids[i] = fmt.Sprint(id)
		}
		summary += "\n" + warningStyle.Render("Failed: "+strings.Join(ids, ", "))
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

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
		return "enter: search • ctrl+p: playlist • ctrl+t: tags • ctrl+e: verbose • esc: quit"
	case StateSearching, StateDownloading:
		return "esc: cancel"
	case StateResults:
		return "↑/↓: move • space: select • a: all • enter: download • esc: new search • q: quit"
	case StateComplete, StateError:
		if len(m.tracks) > 0 {
			return "b: back to results • r: new search • q: quit"
		}
		return "r: new search • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
