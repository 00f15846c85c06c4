package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZephyrCodesStuff/slavart/internal/download"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
)

// logger renders progress events as timestamped lines.
type logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	now     func() time.Time
}

func newLogger(w io.Writer, verbose bool) *logger {
	return &logger{w: w, verbose: verbose, now: time.Now}
}

// Log writes one event. Verbose events are dropped unless enabled.
func (l *logger) Log(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !l.verbose {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, "%s %s %s\n",
		timeStyle.Render(l.now().Format(timeLayout)),
		levelStyle(event.Level).Render(fmt.Sprintf("%-5s", event.Level)),
		event.Message,
	)
}

func levelStyle(level download.ProgressLevel) lipgloss.Style {
	switch level {
	case download.LevelVerbose:
		return verboseStyle
	case download.LevelWarning:
		return warningStyle
	case download.LevelError:
		return errorStyle
	case download.LevelSuccess:
		return successStyle
	default:
		return infoStyle
	}
}
