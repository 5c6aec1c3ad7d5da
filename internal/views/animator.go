package views

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/sandeepkv93/sunrise/internal/visual"
)

const (
	AnimationFPS   = 30
	FrameInterval  = time.Second / AnimationFPS
	springFreq     = 4.0
	springDamping  = 1.0
	settleEpsilon  = 0.01
	opacityEpsilon = 0.001
)

type spring1 struct {
	pos, vel float64
}

// Animator eases the sky towards the latest mapped frame. Geometry and
// layer opacities each follow a critically damped spring. With animation
// disabled it snaps straight to the target.
type Animator struct {
	enabled bool
	spring  harmonica.Spring
	target  visual.Frame
	aura    spring1
	glow    spring1
	sun     spring1
	opacity []spring1
	primed  bool
}

func NewAnimator(enabled bool) *Animator {
	return &Animator{
		enabled: enabled,
		spring:  harmonica.NewSpring(harmonica.FPS(AnimationFPS), springFreq, springDamping),
	}
}

func (a *Animator) Enabled() bool { return a.enabled }

// SetTarget records the frame to ease towards. The first target, and every
// target when disabled, is applied immediately.
func (a *Animator) SetTarget(f visual.Frame) {
	a.target = f
	if !a.enabled || !a.primed || len(a.opacity) != len(f.Layers) {
		a.snap()
	}
}

// Step advances the springs by one frame and reports whether the sky has
// settled on the target.
func (a *Animator) Step() bool {
	if !a.enabled || !a.primed {
		a.snap()
		return true
	}
	a.aura.pos, a.aura.vel = a.spring.Update(a.aura.pos, a.aura.vel, a.target.AuraHeightPct)
	a.glow.pos, a.glow.vel = a.spring.Update(a.glow.pos, a.glow.vel, a.target.GlowHeightPct)
	a.sun.pos, a.sun.vel = a.spring.Update(a.sun.pos, a.sun.vel, a.target.SunPositionPct)
	for i := range a.opacity {
		a.opacity[i].pos, a.opacity[i].vel = a.spring.Update(a.opacity[i].pos, a.opacity[i].vel, a.target.Layers[i].Opacity)
	}
	if a.Settled() {
		a.snap()
		return true
	}
	return false
}

func (a *Animator) Settled() bool {
	if !near(a.aura, a.target.AuraHeightPct, settleEpsilon) ||
		!near(a.glow, a.target.GlowHeightPct, settleEpsilon) ||
		!near(a.sun, a.target.SunPositionPct, settleEpsilon) {
		return false
	}
	for i := range a.opacity {
		if !near(a.opacity[i], a.target.Layers[i].Opacity, opacityEpsilon) {
			return false
		}
	}
	return true
}

// Frame is the current eased frame. Geometry stays within the target's
// bounds even while a spring overshoots.
func (a *Animator) Frame() visual.Frame {
	out := a.target
	out.AuraHeightPct = clamp(a.aura.pos, visual.BaseAuraPct, 100)
	out.GlowHeightPct = clamp(a.glow.pos, out.AuraHeightPct, 100)
	out.SunPositionPct = clamp(a.sun.pos, visual.SunStartPct, visual.SunStartPct+visual.SunRisePct)
	out.Layers = make([]visual.Layer, len(a.target.Layers))
	copy(out.Layers, a.target.Layers)
	for i := range out.Layers {
		if i < len(a.opacity) {
			out.Layers[i].Opacity = clamp(a.opacity[i].pos, 0, 1)
		}
	}
	return out
}

func (a *Animator) snap() {
	a.aura = spring1{pos: a.target.AuraHeightPct}
	a.glow = spring1{pos: a.target.GlowHeightPct}
	a.sun = spring1{pos: a.target.SunPositionPct}
	a.opacity = make([]spring1, len(a.target.Layers))
	for i, l := range a.target.Layers {
		a.opacity[i] = spring1{pos: l.Opacity}
	}
	a.primed = true
}

func near(s spring1, target, eps float64) bool {
	return math.Abs(s.pos-target) < eps && math.Abs(s.vel) < eps
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
