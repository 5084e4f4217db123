package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

// readLogsCmd tails the application log file.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

// updateLogViewport re-renders the log lines into the viewport.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	contentHeight := m.height - 3 // header + command bar + status line

	box := m.renderTitledBox("Log", m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logErr != nil {
		return bg.Render("log unavailable: "+m.logErr.Error(), styles.DangerText)
	}
	follow := "off"
	if m.logFollow {
		follow = "on"
	}
	parts := []string{
		bg.Render(fmt.Sprintf("%d lines", len(m.logLines)), styles.FaintText),
		bg.Render("auto-tail "+follow, styles.FaintText),
	}
	if m.logPath != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.logPath, 50), styles.AccentText))
	}
	return bg.Join(parts, " • ")
}

// renderLogContent renders numbered, colorized log lines.
func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logPath == "" {
		return bg.FillLine(bg.Render("Logging to file is disabled", styles.MutedText), width)
	}
	if len(m.logLines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logLines {
		content := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText) + m.colorizeLogLine(line, styles, bg)
		b.WriteString(bg.FillLine(content, width))
		if i < len(m.logLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLogLine styles a JSON log line by part. Lines that do not
// decode are shown as plain text.
func (m Model) colorizeLogLine(line string, styles Styles, bg BgStyle) string {
	e, ok := logtail.Parse(line)
	if !ok {
		return bg.Render(line, styles.Text)
	}

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	level := strings.ToUpper(e.Level)
	parts = append(parts, bg.Render(level, levelStyle(level, styles).Bold(true)))
	if e.Logger != "" {
		parts = append(parts, bg.Render("["+e.Logger+"]", styles.AccentText))
	}
	if e.Message != "" {
		parts = append(parts, bg.Render(e.Message, styles.Text))
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, bg.Render(k+"=", styles.FaintText)+bg.Render(fmt.Sprint(e.Fields[k]), styles.MutedText))
	}
	return strings.Join(parts, bg.Space())
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewCatalog
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logFollow = true
		return m, nil
	}

	if m.scrollViewport(&m.logViewport, msg) {
		m.logFollow = m.logViewport.AtBottom()
	}
	return m, nil
}
