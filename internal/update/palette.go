package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sunrise/internal/commands"
	"github.com/sandeepkv93/sunrise/internal/timer"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.setStatus("command palette closed", false)
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
				m.commandInput.SetValue(m.commandInput.Value() + " ")
			}
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	if m.Timer == nil {
		m.setStatus("timer unavailable", true)
		m.closePalette()
		return m
	}
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Start: func() (commands.Result, error) {
			if m.Timer.State().Status != timer.StatusRunning {
				m.Timer.Start()
			}
			return commands.Result{Message: "running"}, nil
		},
		Pause: func() (commands.Result, error) {
			m.Timer.Pause()
			return commands.Result{Message: "paused"}, nil
		},
		Reset: func() (commands.Result, error) {
			m.resetTimer()
			return commands.Result{Message: "timer reset"}, nil
		},
		Duration: func(a commands.DurationArgs) (commands.Result, error) {
			if err := m.changeDuration(func() error { return m.Timer.SetDuration(a.Minutes) }); err != nil {
				return commands.Result{}, durationCommandError(err)
			}
			return commands.Result{Message: fmt.Sprintf("duration set to %s", timer.Format(a.Minutes*60))}, nil
		},
		Preset: func(a commands.PresetArgs) (commands.Result, error) {
			if err := m.changeDuration(func() error { return m.Timer.SelectPreset(a.Seconds) }); err != nil {
				return commands.Result{}, durationCommandError(err)
			}
			return commands.Result{Message: fmt.Sprintf("duration set to %s", timer.Format(a.Seconds))}, nil
		},
		Mute: func(a commands.MuteArgs) (commands.Result, error) {
			if m.Alert == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "sound unavailable"}
			}
			switch a.Mode {
			case commands.MuteOn:
				m.Alert.SetMuted(true)
			case commands.MuteOff:
				m.Alert.SetMuted(false)
			default:
				m.Alert.SetMuted(!m.Alert.Muted())
			}
			if m.Alert.Muted() {
				return commands.Result{Message: "chime muted"}, nil
			}
			return commands.Result{Message: "chime unmuted"}, nil
		},
		Visual: func(a commands.VisualArgs) (commands.Result, error) {
			mode := a.Mode
			if mode == "" {
				mode = m.VisualMode.Next()
			}
			m.setVisualMode(mode)
			return commands.Result{Message: fmt.Sprintf("sky: %s", mode)}, nil
		},
		Stats: func() (commands.Result, error) {
			line, err := m.statsLine()
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: line}, nil
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			line, err := m.historyLine(a.Limit, a.Kind)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: line}, nil
		},
	})
	if err != nil {
		m.setStatus(err.Error(), true)
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.setStatus(res.Message, false)
		m.notify("Command", res.Message, "info")
	}
	m.closePalette()
	return m
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func durationCommandError(err error) error {
	msg := err.Error()
	if errors.Is(err, timer.ErrTimerRunning) {
		msg = "pause or reset before changing the duration"
	}
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: msg}
}
