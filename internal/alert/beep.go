package alert

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// BeepPlayer plays chimes through the system speaker. The speaker is opened
// once and one mixer carries every chime, so Silence can drop them all.
type BeepPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

// OpenSpeaker returns an Opener that initialises the speaker on first use.
// volume is clamped to [0,1].
func OpenSpeaker(volume float64) Opener {
	return func() (Player, error) {
		return NewBeepPlayer(volume)
	}
}

func NewBeepPlayer(volume float64) (*BeepPlayer, error) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	p := &BeepPlayer{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
	speaker.Play(p.mixer)
	return p, nil
}

func (p *BeepPlayer) Chime() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrAudioUnavailable
	}
	s, err := chimeStreamer(sampleRate, p.volume)
	if err != nil {
		return err
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return nil
}

func (p *BeepPlayer) Silence() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
}

func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.closed = true
	return nil
}

// chimeStreamer builds a two-note bell: a fifth above A5, then A5.
func chimeStreamer(sr beep.SampleRate, volume float64) (beep.Streamer, error) {
	high, err := bellNote(sr, 1318.5, 350*time.Millisecond)
	if err != nil {
		return nil, err
	}
	low, err := bellNote(sr, 880, 600*time.Millisecond)
	if err != nil {
		return nil, err
	}
	return &effects.Gain{Streamer: beep.Seq(high, low), Gain: volume - 1}, nil
}

func bellNote(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	return &envelope{Streamer: beep.Take(sr.N(d), tone), sr: sr, decay: 6}, nil
}

// envelope applies a short linear attack and an exponential decay.
type envelope struct {
	beep.Streamer
	sr    beep.SampleRate
	decay float64
	pos   int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.Streamer.Stream(samples)
	attack := e.sr.N(5 * time.Millisecond)
	for i := 0; i < n; i++ {
		t := float64(e.pos) / float64(e.sr)
		amp := math.Exp(-t * e.decay)
		if e.pos < attack {
			amp *= float64(e.pos) / float64(attack)
		}
		samples[i][0] *= amp
		samples[i][1] *= amp
		e.pos++
	}
	return n, ok
}
