package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type AppData struct {
	Width         int
	Sky           string
	TimerPanel    string
	Overlay       string
	StatusLine    string
	StatusIsError bool
	Notification  string
	Footer        string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func RenderApp(data AppData) string {
	width := data.Width
	if width <= 0 {
		width = 80
	}
	panel := panelStyle.Render(data.TimerPanel)
	panel = lipgloss.PlaceHorizontal(width, lipgloss.Center, panel)

	lines := []string{headerStyle.Render("sunrise")}
	if data.Sky != "" {
		lines = append(lines, data.Sky)
	}
	lines = append(lines, panel)
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	if data.StatusLine != "" {
		status := ansi.Truncate(data.StatusLine, width, "…")
		if data.StatusIsError {
			lines = append(lines, errorStyle.Render(status))
		} else {
			lines = append(lines, statusStyle.Render(status))
		}
	}
	if data.Notification != "" {
		lines = append(lines, ansi.Truncate(data.Notification, width, "…"))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(ansi.Truncate(data.Footer, width, "…")))
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
