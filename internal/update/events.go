package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/sunrise/internal/scheduler"
	"github.com/sandeepkv93/sunrise/internal/views"
)

// timerEvents buffers engine callbacks until the model applies them after
// the current message. It is shared by every copy of the Model.
type timerEvents struct {
	progress    []float64
	completions []int
}

type progressSource interface {
	OnProgressChange(func(float64))
	OnSessionCompleted(func(int))
}

func (q *timerEvents) attach(src progressSource) {
	src.OnProgressChange(func(p float64) { q.progress = append(q.progress, p) })
	src.OnSessionCompleted(func(n int) { q.completions = append(q.completions, n) })
}

func (q *timerEvents) take() ([]float64, []int) {
	p, c := q.progress, q.completions
	q.progress, q.completions = nil, nil
	return p, c
}

// drainTimerEvents applies queued progress and completions. The returned
// command starts the sky animation when it is not already running.
func (m *Model) drainTimerEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	progress, completions := m.events.take()
	if len(progress) > 0 {
		m.animator.SetTarget(m.mapper.Map(progress[len(progress)-1]))
	}
	for _, n := range completions {
		m.onSessionCompleted(n)
	}
	if len(progress) == 0 || m.animating || !m.animator.Enabled() || m.animator.Settled() {
		return nil
	}
	m.animating = true
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(views.FrameInterval, func(time.Time) tea.Msg { return FrameMsg{} })
}

func waitForFireCmd(ch <-chan scheduler.Fire) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return ClockFireMsg{Fire: f}
	}
}
