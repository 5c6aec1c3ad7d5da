// Package alert produces the audible completion cue: one chime immediately,
// then one per interval until stopped.
package alert

//go:generate mockgen -destination=mocks/mock_player.go -package=mocks github.com/sandeepkv93/sunrise/internal/alert Player

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sandeepkv93/sunrise/internal/scheduler"
)

const DefaultInterval = 3 * time.Second

var ErrAudioUnavailable = errors.New("alert: audio output unavailable")

// Player is the audio output device.
type Player interface {
	Chime() error
	// Silence cuts any chime still sounding.
	Silence()
	Close() error
}

// Opener acquires the audio output. It is called at most once per Alert.
type Opener func() (Player, error)

// Disabled is an Opener for configurations with audio turned off.
func Disabled() (Player, error) {
	return nil, ErrAudioUnavailable
}

type Option func(*Alert)

func WithInterval(d time.Duration) Option {
	return func(a *Alert) {
		if d > 0 {
			a.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Alert) {
		if l != nil {
			a.log = l
		}
	}
}

// Alert must be driven from the goroutine that dispatches its clock.
type Alert struct {
	clock    scheduler.Clock
	open     Opener
	interval time.Duration
	log      *slog.Logger

	player   Player
	opened   bool
	degraded bool
	muted    bool
	closed   bool
	repeat   scheduler.Handle
	chimes   int
}

func New(clock scheduler.Clock, open Opener, opts ...Option) *Alert {
	if open == nil {
		open = Disabled
	}
	a := &Alert{
		clock:    clock,
		open:     open,
		interval: DefaultInterval,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start chimes now and then every interval. It is a no-op while already
// running and when no audio output could be acquired.
func (a *Alert) Start() {
	if a.closed || a.repeat != nil {
		return
	}
	if !a.acquire() {
		return
	}
	a.chime()
	h, err := a.clock.Every(a.interval, a.chime)
	if err != nil {
		a.log.Warn("chime repeat unavailable", "err", err)
		return
	}
	a.repeat = h
}

// Stop cancels the repeat and silences the output. Safe when not running.
func (a *Alert) Stop() {
	if a.repeat != nil {
		a.repeat.Stop()
		a.repeat = nil
	}
	if a.player != nil {
		a.player.Silence()
	}
}

// Close stops the alert and releases the audio output.
func (a *Alert) Close() error {
	if a.closed {
		return nil
	}
	a.Stop()
	a.closed = true
	if a.player == nil {
		return nil
	}
	err := a.player.Close()
	a.player = nil
	return err
}

func (a *Alert) SetMuted(muted bool) {
	a.muted = muted
	if muted && a.player != nil {
		a.player.Silence()
	}
}

func (a *Alert) Muted() bool { return a.muted }

func (a *Alert) Running() bool { return a.repeat != nil }

// Available reports false once acquiring the audio output has failed.
func (a *Alert) Available() bool { return !a.degraded }

// Chimes counts chimes handed to the player.
func (a *Alert) Chimes() int { return a.chimes }

func (a *Alert) acquire() bool {
	if a.opened {
		return !a.degraded
	}
	a.opened = true
	p, err := a.open()
	if err != nil || p == nil {
		a.degraded = true
		a.log.Warn("audio output unavailable, alerts are silent", "err", err)
		return false
	}
	a.player = p
	return true
}

func (a *Alert) chime() {
	if a.muted || a.player == nil {
		return
	}
	if err := a.player.Chime(); err != nil {
		a.log.Warn("chime failed", "err", err)
		return
	}
	a.chimes++
}
