package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fmt-playground/document"
)

type styles struct {
	title    lipgloss.Style
	pane     lipgloss.Style
	dialog   lipgloss.Style
	added    lipgloss.Style
	removed  lipgloss.Style
	hunk     lipgloss.Style
	overflow lipgloss.Style
	error    lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, muted, accent := lipgloss.Color("#1A1A1A"), lipgloss.Color("#888888"), lipgloss.Color("#5A3FD1")
	if dark {
		fg, muted, accent = lipgloss.Color("#FAFAFA"), lipgloss.Color("#666666"), lipgloss.Color("#7D56F4")
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Foreground(fg),
		added:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		removed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149")),
		hunk:     lipgloss.NewStyle().Foreground(accent),
		overflow: lipgloss.NewStyle().Background(lipgloss.Color("#5C2B29")),
		error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		status:   lipgloss.NewStyle().Foreground(fg),
		help:     lipgloss.NewStyle().Foreground(muted),
	}
}

// diff colors a unified diff line by line.
func (s styles) diff(text string) string {
	if text == "" {
		return s.help.Render("no changes")
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = s.help.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.hunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.removed.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// ruled highlights the part of each line past the ruler column.
func (s styles) ruled(text string, col int) string {
	if col <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		r := []rune(line)
		if len(r) > col {
			lines[i] = string(r[:col]) + s.overflow.Render(string(r[col:]))
		}
	}
	return strings.Join(lines, "\n")
}

func (s styles) annotations(anns []document.Annotation) string {
	var b strings.Builder
	for _, a := range anns {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.error.Render(a.Severity.String() + ": " + a.Message))
	}
	return b.String()
}

func (m *tuiModel) View() string {
	if m.width == 0 {
		return "Loading playground..."
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	surface := m.ctrl.Surface()
	switch {
	case m.mem.SettingsDialog.Visible():
		body := m.settings.View()
		if anns := m.ctrl.Settings().Annotations(); len(anns) > 0 {
			body += "\n" + m.styles.annotations(anns)
		}
		b.WriteString(m.styles.dialog.Width(m.width - 2).Render(body))

	case surface.DiffActive():
		b.WriteString(m.styles.pane.Render(m.output.View()))

	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.pane.Render(m.original.View()),
			m.styles.pane.Render(m.output.View())))
	}
	b.WriteString("\n")

	if anns := m.ctrl.Formatted().Annotations(); len(anns) > 0 && !m.mem.SettingsDialog.Visible() {
		b.WriteString(m.styles.annotations(anns))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render(m.help()))
	return b.String()
}

func (m *tuiModel) header() string {
	version := m.ctrl.ActiveVersion()
	if m.ctrl.Loading() {
		version += " (loading " + m.mem.VersionSelector.Value() + ")"
	}
	view := "side by side"
	if m.ctrl.Surface().DiffActive() {
		view = "diff"
	}
	info := fmt.Sprintf(" engine %s • %s • ruler %d", version, view, m.ctrl.Surface().Ruler())
	return m.styles.title.Render("fmtplay") + m.styles.help.Render(info)
}

func (m *tuiModel) help() string {
	if m.mem.SettingsDialog.Visible() {
		return "ctrl+s close • ctrl+r reset to defaults • ctrl+q quit"
	}
	return "ctrl+d diff • ctrl+s settings • ctrl+v version • ctrl+e sample • ctrl+k clear • ctrl+y share • ctrl+q quit"
}
