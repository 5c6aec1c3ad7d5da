package update

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/sunrise/internal/alert"
	"github.com/sandeepkv93/sunrise/internal/config"
	"github.com/sandeepkv93/sunrise/internal/scheduler"
	"github.com/sandeepkv93/sunrise/internal/storage"
	"github.com/sandeepkv93/sunrise/internal/timer"
	"github.com/sandeepkv93/sunrise/internal/views"
	"github.com/sandeepkv93/sunrise/internal/visual"
)

const maxNotifications = 40

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type EditorState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// FireSource delivers clock fires to the program goroutine.
type FireSource interface {
	C() <-chan scheduler.Fire
	Dispatch(scheduler.Fire) bool
}

// Deps is everything the model drives. Alert, Fires, Journal and Notifier
// may be nil.
type Deps struct {
	Timer    *timer.Engine
	Alert    *alert.Alert
	Fires    FireSource
	Journal  storage.Repository
	Notifier DesktopNotifier
	Config   config.RuntimeConfig
	Logger   *slog.Logger
	Now      func() time.Time
}

type Model struct {
	Timer          *timer.Engine
	Alert          *alert.Alert
	Journal        storage.Repository
	VisualMode     visual.Mode
	Palette        CommandPaletteState
	Editor         EditorState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           keyMap
	Quitting       bool
	LastError      error

	fires     FireSource
	notifier  DesktopNotifier
	log       *slog.Logger
	now       func() time.Time
	events    *timerEvents
	mapper    *visual.Mapper
	animator  *views.Animator
	animating bool
	width     int
	height    int
	helpView  string

	progressBar   progress.Model
	commandInput  textinput.Model
	durationInput textinput.Model
	helpModel     help.Model
}

// Messages

type ClockFireMsg struct {
	Fire scheduler.Fire
}

type FrameMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(deps Deps) Model {
	cfg := deps.Config
	mode, err := visual.ParseMode(cfg.VisualMode)
	if err != nil {
		mode = visual.ModeBlended
	}
	m := Model{
		Timer:          deps.Timer,
		Alert:          deps.Alert,
		Journal:        deps.Journal,
		VisualMode:     mode,
		DesktopEnabled: cfg.DesktopNotifications,
		Keys:           defaultKeyMap(),
		fires:          deps.Fires,
		notifier:       deps.Notifier,
		log:            deps.Logger,
		now:            deps.Now,
		events:         &timerEvents{},
		mapper:         visual.NewMapperForMode(mode),
		animator:       views.NewAnimator(cfg.Animate),
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.Timer != nil {
		m.events.attach(m.Timer)
		m.animator.SetTarget(m.mapper.Map(m.Timer.Progress()))
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.progressBar = progress.New(progress.WithGradient("#5b3a8c", "#ffb347"), progress.WithoutPercentage())
	m.progressBar.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 64
	m.commandInput.Width = 40

	m.durationInput = textinput.New()
	m.durationInput.Prompt = "> "
	m.durationInput.Placeholder = "minutes (1-180)"
	m.durationInput.CharLimit = 3
	m.durationInput.Width = 16

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	bar := width - 16
	if bar > 50 {
		bar = 50
	}
	if bar < 10 {
		bar = 10
	}
	m.progressBar.Width = bar
	m.helpModel.Width = width
}

func (m *Model) notify(title, body, level string) {
	if body == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Warn("desktop notification failed", "err", err)
		}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
}
