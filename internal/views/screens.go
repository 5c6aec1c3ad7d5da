package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/sunrise/internal/timer"
)

// MaxDots is how many completed sessions are drawn before collapsing to "+N".
const MaxDots = 8

type TimerPanelData struct {
	State        timer.State
	ProgressView string
	Muted        bool
	AudioOK      bool
	VisualMode   string
	EditorView   string
}

// ActionLabel names what the primary key does next.
func ActionLabel(s timer.State) string {
	switch {
	case s.Status == timer.StatusRunning:
		return "Pause"
	case s.Status == timer.StatusCompleted, s.RemainingSeconds == s.DurationSeconds:
		return "Start"
	default:
		return "Resume"
	}
}

// CompletedDots renders one dot per completed session, capped at MaxDots.
func CompletedDots(n int) string {
	if n <= 0 {
		return ""
	}
	shown := n
	if shown > MaxDots {
		shown = MaxDots
	}
	out := strings.TrimSpace(strings.Repeat("● ", shown))
	if n > MaxDots {
		out += fmt.Sprintf(" +%d", n-MaxDots)
	}
	return out
}

func RenderTimerPanel(data TimerPanelData) string {
	s := data.State
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session %d\n", s.SessionsCompleted+1))
	b.WriteString(timerStyle.Render(timer.Format(s.RemainingSeconds)) + "\n")
	b.WriteString(data.ProgressView + "\n")
	b.WriteString(fmt.Sprintf("[space] %s  [r] Reset  duration: %s\n", ActionLabel(s), timer.Format(s.DurationSeconds)))
	if data.EditorView != "" {
		b.WriteString("custom minutes: " + data.EditorView + "\n")
	}
	if s.Status == timer.StatusCompleted {
		b.WriteString(doneStyle.Render("Session complete") + "\n")
	}
	if dots := CompletedDots(s.SessionsCompleted); dots != "" {
		b.WriteString("Completed today: " + dots + "\n")
	}
	b.WriteString(fmt.Sprintf("sound: %s | sky: %s", soundLabel(data.AudioOK, data.Muted), data.VisualMode))
	return strings.TrimSpace(b.String())
}

func soundLabel(available, muted bool) string {
	switch {
	case !available:
		return "unavailable"
	case muted:
		return "muted"
	default:
		return "on"
	}
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

type HelpPanelData struct {
	Bindings []string
	Commands []string
}

// HelpMarkdown is the help panel body handed to RenderMarkdown.
func HelpMarkdown(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("# Sunrise\n\nA focus timer that paints a sunrise as the countdown runs.\n\n## Keys\n\n")
	for _, line := range data.Bindings {
		b.WriteString("- " + line + "\n")
	}
	if len(data.Commands) > 0 {
		b.WriteString("\n## Commands\n\n")
		for _, c := range data.Commands {
			b.WriteString("- `" + c + "`\n")
		}
	}
	return b.String()
}
