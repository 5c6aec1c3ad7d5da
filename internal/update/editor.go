package update

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sunrise/internal/timer"
)

// openEditor starts editing the custom duration, seeded with the current
// value in whole minutes.
func (m *Model) openEditor() {
	if m.Timer == nil {
		return
	}
	st := m.Timer.State()
	if st.Status == timer.StatusRunning {
		m.setStatus("pause or reset before changing the duration", true)
		return
	}
	m.Editor = EditorState{Active: true, Input: strconv.Itoa(lastValidMinutes(st))}
	m.durationInput.SetValue(m.Editor.Input)
	m.durationInput.CursorEnd()
	m.durationInput.Focus()
	m.setStatus("enter minutes, esc to cancel", false)
}

func (m Model) handleEditorKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		m.setStatus("duration unchanged", false)
	case "enter":
		m.applyEditor()
	case "backspace":
		v := []rune(m.durationInput.Value())
		if len(v) > 0 {
			m.durationInput.SetValue(string(v[:len(v)-1]))
		}
		m.Editor.Input = m.durationInput.Value()
	default:
		if msg.Type == tea.KeyRunes {
			m.durationInput.SetValue(m.durationInput.Value() + string(msg.Runes))
			m.Editor.Input = m.durationInput.Value()
		}
	}
	return m
}

// applyEditor commits valid input. Invalid input reverts the field to the
// last valid duration and leaves the timer untouched.
func (m *Model) applyEditor() {
	minutes, err := timer.ParseMinutes(m.durationInput.Value())
	if err == nil {
		err = m.setDuration(minutes)
	}
	if err != nil {
		m.durationError(err)
		m.closeEditor()
		return
	}
	m.closeEditor()
}

func (m *Model) closeEditor() {
	revert := ""
	if m.Timer != nil {
		revert = strconv.Itoa(lastValidMinutes(m.Timer.State()))
	}
	m.Editor = EditorState{Input: revert}
	m.durationInput.SetValue(revert)
	m.durationInput.Blur()
}

func lastValidMinutes(st timer.State) int {
	minutes := st.DurationSeconds / 60
	if minutes < timer.MinDurationMinutes {
		minutes = timer.MinDurationMinutes
	}
	return minutes
}
