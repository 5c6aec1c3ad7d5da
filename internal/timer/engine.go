// Package timer holds the countdown state machine behind the focus session:
// Idle, Running, Paused and Completed, with a one-second tick driven by an
// injected scheduler.Clock and an alert raised on natural completion.
//
// An Engine is not safe for concurrent use. Every action and every tick must
// arrive on the same goroutine, which is what scheduler.Engine.Dispatch and
// scheduler.Manual.Advance provide.
package timer

import (
	"io"
	"log/slog"

	"github.com/sandeepkv93/sunrise/internal/scheduler"
)

// Alerter is the completion cue. Both calls are idempotent.
type Alerter interface {
	Start()
	Stop()
}

type Option func(*Engine)

func WithDurationSeconds(sec int) Option {
	return func(e *Engine) {
		if sec > 0 && sec <= MaxDurationSeconds {
			e.state.DurationSeconds = sec
			e.state.RemainingSeconds = sec
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

type Engine struct {
	clock    scheduler.Clock
	alert    Alerter
	log      *slog.Logger
	state    State
	ticker   scheduler.Handle
	alerting bool
	closed   bool

	progressFns []func(float64)
	sessionFns  []func(int)
	statusFns   []func(Status)
}

func New(clock scheduler.Clock, alert Alerter, opts ...Option) *Engine {
	e := &Engine{
		clock: clock,
		alert: alert,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state: State{
			Status:           StatusIdle,
			DurationSeconds:  DefaultDurationSeconds,
			RemainingSeconds: DefaultDurationSeconds,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnProgressChange registers fn to receive the progress fraction after every
// tick and every transition.
func (e *Engine) OnProgressChange(fn func(float64)) {
	if fn != nil {
		e.progressFns = append(e.progressFns, fn)
	}
}

// OnSessionCompleted registers fn to receive the completed-session count each
// time a countdown reaches zero.
func (e *Engine) OnSessionCompleted(fn func(int)) {
	if fn != nil {
		e.sessionFns = append(e.sessionFns, fn)
	}
}

func (e *Engine) OnStatusChange(fn func(Status)) {
	if fn != nil {
		e.statusFns = append(e.statusFns, fn)
	}
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Progress() float64 {
	return e.state.Progress()
}

// Start begins or resumes the countdown. Starting from Completed silences
// the alert and counts down the full duration again.
func (e *Engine) Start() {
	if e.closed || e.state.Status == StatusRunning {
		return
	}
	if e.state.Status == StatusCompleted || e.state.RemainingSeconds <= 0 {
		e.stopAlert()
		e.state.RemainingSeconds = e.state.DurationSeconds
	}
	h, err := e.clock.Every(TickInterval, e.tick)
	if err != nil {
		e.log.Warn("tick source unavailable", "err", err)
		return
	}
	e.ticker = h
	e.setStatus(StatusRunning)
	e.publishProgress()
}

func (e *Engine) Pause() {
	if e.state.Status != StatusRunning {
		return
	}
	e.releaseTicker()
	e.setStatus(StatusPaused)
	e.publishProgress()
}

// Toggle pauses a running countdown and starts anything else.
func (e *Engine) Toggle() {
	if e.state.Status == StatusRunning {
		e.Pause()
		return
	}
	e.Start()
}

// Reset returns to Idle with the full duration remaining. The session
// counter is left alone.
func (e *Engine) Reset() {
	if e.closed {
		return
	}
	e.releaseTicker()
	e.stopAlert()
	e.state.RemainingSeconds = e.state.DurationSeconds
	e.setStatus(StatusIdle)
	e.publishProgress()
}

// SetDuration applies a custom duration in minutes. Out-of-range input and
// changes while running are rejected and leave the state untouched.
func (e *Engine) SetDuration(minutes int) error {
	if err := ValidateMinutes(minutes); err != nil {
		e.log.Debug("duration rejected", "minutes", minutes, "err", err)
		return err
	}
	return e.applyDuration(minutes * 60)
}

// SelectPreset applies one of Presets, given in seconds.
func (e *Engine) SelectPreset(seconds int) error {
	if !IsPreset(seconds) {
		e.log.Debug("preset rejected", "seconds", seconds)
		return ErrUnknownPreset
	}
	return e.applyDuration(seconds)
}

// Close releases the tick handle and stops the alert. Afterwards duration
// changes fail with ErrClosed and every other action is ignored.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.releaseTicker()
	e.stopAlert()
	e.closed = true
	if c, ok := e.alert.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			e.log.Warn("alert close failed", "err", err)
		}
	}
}

func (e *Engine) applyDuration(sec int) error {
	if e.closed {
		return ErrClosed
	}
	if e.state.Status == StatusRunning {
		return ErrTimerRunning
	}
	e.stopAlert()
	e.state.DurationSeconds = sec
	e.state.RemainingSeconds = sec
	e.setStatus(StatusIdle)
	e.publishProgress()
	return nil
}

// tick is the scheduler callback. Reaching zero completes the session in the
// same call, so Running with nothing remaining is never observable.
func (e *Engine) tick() {
	if e.state.Status != StatusRunning {
		return
	}
	if e.state.RemainingSeconds > 0 {
		e.state.RemainingSeconds--
	}
	if e.state.RemainingSeconds > 0 {
		e.publishProgress()
		return
	}

	e.releaseTicker()
	e.state.SessionsCompleted++
	e.setStatus(StatusCompleted)
	e.log.Debug("session completed", "sessions", e.state.SessionsCompleted)
	if e.alert != nil {
		e.alert.Start()
		e.alerting = true
	}
	e.publishProgress()
	for _, fn := range e.sessionFns {
		fn(e.state.SessionsCompleted)
	}
}

func (e *Engine) releaseTicker() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	e.ticker = nil
}

func (e *Engine) stopAlert() {
	if !e.alerting {
		return
	}
	e.alerting = false
	if e.alert != nil {
		e.alert.Stop()
	}
}

func (e *Engine) setStatus(s Status) {
	if e.state.Status == s {
		return
	}
	e.log.Debug("status change", "from", e.state.Status, "to", s, "remaining_sec", e.state.RemainingSeconds)
	e.state.Status = s
	for _, fn := range e.statusFns {
		fn(s)
	}
}

func (e *Engine) publishProgress() {
	p := e.state.Progress()
	for _, fn := range e.progressFns {
		fn(p)
	}
}
