// Package views renders plain data into terminal panels. It knows nothing
// about the update loop; callers pass fully resolved values.
package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
)

var windowColors = map[string]lipgloss.Color{
	"morning": lipgloss.Color("214"),
	"day":     lipgloss.Color("11"),
	"evening": lipgloss.Color("141"),
	"night":   lipgloss.Color("63"),
	"anytime": lipgloss.Color("8"),
}

// WindowBadge renders a colored window name, e.g. for the header.
func WindowBadge(window, label string) string {
	c, ok := windowColors[window]
	if !ok {
		c = lipgloss.Color("7")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(label)
}

func RenderApp(data AppData) string {
	left := panelStyle.Width(58).Render(data.LeftPane)
	right := panelStyle.Width(46).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
