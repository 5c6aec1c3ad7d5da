package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

const (
	TickInterval = time.Second

	DefaultDurationSeconds = 25 * 60
	MinDurationMinutes     = 1
	MaxDurationMinutes     = 180
	MaxDurationSeconds     = MaxDurationMinutes * 60
)

// Presets are the selectable durations in seconds: 25, 45 and 60 minutes.
var Presets = []int{1500, 2700, 3600}

var (
	ErrInvalidDuration = errors.New("timer: duration must be 1-180 minutes")
	ErrUnknownPreset   = errors.New("timer: unknown preset")
	ErrTimerRunning    = errors.New("timer: duration cannot change while running")
	ErrClosed          = errors.New("timer: engine closed")
)

// State is a snapshot of the countdown.
type State struct {
	Status            Status
	DurationSeconds   int
	RemainingSeconds  int
	SessionsCompleted int
}

// Progress is the elapsed fraction of the configured duration, in [0,1].
func (s State) Progress() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	p := 1 - float64(s.RemainingSeconds)/float64(s.DurationSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Fresh reports whether the countdown has not been started since the last
// reset or duration change.
func (s State) Fresh() bool {
	return s.Status == StatusIdle && s.RemainingSeconds == s.DurationSeconds
}

// ParseMinutes validates custom duration text from an editor.
func ParseMinutes(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidDuration)
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidDuration, trimmed)
	}
	if err := ValidateMinutes(v); err != nil {
		return 0, err
	}
	return v, nil
}

func ValidateMinutes(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	return nil
}

// IsPreset reports whether seconds is one of Presets.
func IsPreset(seconds int) bool {
	for _, p := range Presets {
		if p == seconds {
			return true
		}
	}
	return false
}

// Format renders seconds as MM:SS. Durations over an hour keep counting
// minutes, so three hours is 180:00.
func Format(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}
