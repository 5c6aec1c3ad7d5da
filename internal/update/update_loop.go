package update

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sunrise/internal/timer"
	"github.com/sandeepkv93/sunrise/internal/views"
	"github.com/sandeepkv93/sunrise/internal/visual"
)

func (m Model) Init() tea.Cmd {
	if m.fires != nil {
		return waitForFireCmd(m.fires.C())
	}
	return nil
}

// Update applies msg, then folds in whatever the timer engine reported
// while handling it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	extra := next.drainTimerEvents()
	next.syncBubbleData()
	return next, tea.Batch(cmd, extra)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case ClockFireMsg:
		if m.fires == nil {
			return m, nil
		}
		m.fires.Dispatch(typed.Fire)
		return m, waitForFireCmd(m.fires.C())
	case FrameMsg:
		if m.animator.Step() {
			m.animating = false
			return m, nil
		}
		return m, frameTick()
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.setStatus(typed.Err.Error(), true)
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	if m.Editor.Active {
		return m.handleEditorKey(msg), nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Toggle):
		m.toggleTimer()
	case key.Matches(msg, m.Keys.Reset):
		m.resetTimer()
	case key.Matches(msg, m.Keys.Preset1):
		m.selectPreset(timer.Presets[0])
	case key.Matches(msg, m.Keys.Preset2):
		m.selectPreset(timer.Presets[1])
	case key.Matches(msg, m.Keys.Preset3):
		m.selectPreset(timer.Presets[2])
	case key.Matches(msg, m.Keys.Edit):
		m.openEditor()
	case key.Matches(msg, m.Keys.Mute):
		m.toggleMute()
	case key.Matches(msg, m.Keys.Visual):
		m.setVisualMode(m.VisualMode.Next())
	case key.Matches(msg, m.Keys.Palette):
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active", false)
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.helpView = m.renderHelpMarkdown()
			m.setStatus("help shown", false)
		} else {
			m.setStatus("help hidden", false)
		}
	}
	return m, nil
}

func (m *Model) toggleTimer() {
	if m.Timer == nil {
		return
	}
	m.Timer.Toggle()
	switch m.Timer.State().Status {
	case timer.StatusRunning:
		m.setStatus("running", false)
	case timer.StatusPaused:
		m.setStatus("paused", false)
	}
}

// resetTimer resets the countdown and journals it if it was interrupted.
func (m *Model) resetTimer() {
	if m.Timer == nil {
		return
	}
	st := m.Timer.State()
	m.Timer.Reset()
	m.journalInterrupted(st)
	m.setStatus("timer reset", false)
}

func (m *Model) selectPreset(seconds int) {
	if m.Timer == nil {
		return
	}
	if err := m.changeDuration(func() error { return m.Timer.SelectPreset(seconds) }); err != nil {
		m.durationError(err)
		return
	}
	m.setStatus(fmt.Sprintf("duration set to %s", timer.Format(seconds)), false)
}

func (m *Model) setDuration(minutes int) error {
	if m.Timer == nil {
		return nil
	}
	if err := m.changeDuration(func() error { return m.Timer.SetDuration(minutes) }); err != nil {
		return err
	}
	m.setStatus(fmt.Sprintf("duration set to %s", timer.Format(minutes*60)), false)
	return nil
}

// changeDuration runs apply and, when it succeeds, journals the countdown it
// discarded.
func (m *Model) changeDuration(apply func() error) error {
	st := m.Timer.State()
	if err := apply(); err != nil {
		return err
	}
	m.journalInterrupted(st)
	return nil
}

// journalInterrupted records st as abandoned when it was a countdown in
// progress. Completed sessions were journaled when they finished.
func (m *Model) journalInterrupted(st timer.State) {
	if st.Status != timer.StatusRunning && st.Status != timer.StatusPaused {
		return
	}
	if st.RemainingSeconds < st.DurationSeconds {
		m.recordSession(st, false)
	}
}

func (m *Model) durationError(err error) {
	if errors.Is(err, timer.ErrTimerRunning) {
		m.setStatus("pause or reset before changing the duration", true)
		return
	}
	m.setStatus(err.Error(), true)
}

func (m *Model) toggleMute() {
	if m.Alert == nil {
		m.setStatus("sound unavailable", true)
		return
	}
	m.Alert.SetMuted(!m.Alert.Muted())
	if m.Alert.Muted() {
		m.setStatus("chime muted", false)
	} else {
		m.setStatus("chime unmuted", false)
	}
}

func (m *Model) setVisualMode(mode visual.Mode) {
	m.VisualMode = mode
	m.mapper = visual.NewMapperForMode(mode)
	if m.Timer != nil {
		m.animator.SetTarget(m.mapper.Map(m.Timer.Progress()))
	}
	m.setStatus(fmt.Sprintf("sky: %s", mode), false)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	skyHeight := 8
	if m.height > 0 {
		skyHeight = m.height - 16
		if skyHeight > 20 {
			skyHeight = 20
		}
		if skyHeight < 3 {
			skyHeight = 3
		}
	}

	var state timer.State
	if m.Timer != nil {
		state = m.Timer.State()
	}
	editor := ""
	if m.Editor.Active {
		editor = m.durationInput.View()
	}
	panel := views.RenderTimerPanel(views.TimerPanelData{
		State:        state,
		ProgressView: m.progressBar.ViewAs(state.Progress()),
		Muted:        m.Alert != nil && m.Alert.Muted(),
		AudioOK:      m.Alert != nil && m.Alert.Available(),
		VisualMode:   string(m.VisualMode),
		EditorView:   editor,
	})

	overlay := ""
	switch {
	case m.Palette.Active:
		overlay = views.RenderCommandPalette(true, m.commandInput.View())
	case m.HelpVisible:
		overlay = m.helpView
	}

	notification := ""
	if n := len(m.Notifications); n > 0 {
		last := m.Notifications[n-1]
		notification = views.RenderNotification(last.Level, last.Body)
	}

	return views.RenderApp(views.AppData{
		Width:         width,
		Sky:           views.RenderSky(m.animator.Frame(), width, skyHeight),
		TimerPanel:    panel,
		Overlay:       overlay,
		StatusLine:    m.Status.Text,
		StatusIsError: m.Status.IsError,
		Notification:  notification,
		Footer:        m.helpModel.View(m.Keys),
	})
}
