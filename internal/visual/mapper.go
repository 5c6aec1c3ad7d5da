// Package visual maps countdown progress to the layered sunrise sky. It is
// pure: the same progress always yields the same Frame, and nothing here
// holds state between calls.
package visual

import "math"

const (
	// BaseAuraPct is the aura height at progress 0; it grows by
	// AuraGrowthPct to fill the screen at progress 1.
	BaseAuraPct   = 20.0
	AuraGrowthPct = 80.0

	// GlowScale stretches the secondary glow above the aura.
	GlowScale = 1.2

	// The sun starts just below the horizon and rises half the screen.
	SunStartPct = -5.0
	SunRisePct  = 50.0

	// Stop offsets of the radial gradient, as fractions of its radius.
	InnerStop  = 0.0
	MiddleStop = 0.4
	OuterStop  = 0.7
)

// Night is the sky behind every layer.
var Night = HSLA{H: 234, S: 32, L: 12, A: 1}

// Window is the progress range over which a layer fades in. A window whose
// End is not after Start is a step: fully off below Start, fully on from it.
type Window struct {
	Start float64
	End   float64
}

// Ramp returns the layer opacity for progress p.
func (w Window) Ramp(p float64) float64 {
	if w.End <= w.Start {
		if p < w.Start {
			return 0
		}
		return 1
	}
	switch {
	case p < w.Start:
		return 0
	case p > w.End:
		return 1
	default:
		return (p - w.Start) / (w.End - w.Start)
	}
}

// LayerSpec is presentation configuration for one sunrise stage.
type LayerSpec struct {
	Name   string
	Window Window
	Inner  HSLA
	Middle HSLA
	Outer  HSLA
	BlurPx float64
}

// Layer is a LayerSpec evaluated at one progress value.
type Layer struct {
	Name    string
	Inner   HSLA
	Middle  HSLA
	Outer   HSLA
	Opacity float64
	BlurPx  float64
}

// At samples the layer's radial gradient at distance d from its centre
// (0 = centre, 1 = rim) with the layer opacity applied.
func (l Layer) At(d float64) HSLA {
	var c HSLA
	switch {
	case d <= InnerStop:
		c = l.Inner
	case d <= MiddleStop:
		c = l.Inner.Lerp(l.Middle, (d-InnerStop)/(MiddleStop-InnerStop))
	case d <= OuterStop:
		c = l.Middle.Lerp(l.Outer, (d-MiddleStop)/(OuterStop-MiddleStop))
	default:
		c = l.Outer
		c.A = 0
	}
	return c.WithAlpha(l.Opacity)
}

// Frame is everything the sky needs to draw one moment.
type Frame struct {
	Progress       float64
	AuraHeightPct  float64
	GlowHeightPct  float64
	SunPositionPct float64
	Layers         []Layer
}

// Dominant returns the most opaque layer, later layers winning ties. The
// sun orb takes its colour from it.
func (f Frame) Dominant() (Layer, bool) {
	if len(f.Layers) == 0 {
		return Layer{}, false
	}
	best := 0
	for i, l := range f.Layers {
		if l.Opacity >= f.Layers[best].Opacity {
			best = i
		}
	}
	return f.Layers[best], true
}

// Mapper evaluates a fixed list of layer specs. It is immutable and safe
// for concurrent use.
type Mapper struct {
	specs []LayerSpec
}

func NewMapper(specs []LayerSpec) *Mapper {
	cp := make([]LayerSpec, len(specs))
	copy(cp, specs)
	return &Mapper{specs: cp}
}

func NewMapperForMode(m Mode) *Mapper {
	return NewMapper(LayersFor(m))
}

// Specs returns a copy of the layer configuration.
func (m *Mapper) Specs() []LayerSpec {
	cp := make([]LayerSpec, len(m.specs))
	copy(cp, m.specs)
	return cp
}

// Map computes the frame for progress p. Values outside [0,1] and NaN are
// clamped first.
func (m *Mapper) Map(p float64) Frame {
	p = clamp01(p)
	aura := AuraHeight(p)
	f := Frame{
		Progress:       p,
		AuraHeightPct:  aura,
		GlowHeightPct:  math.Min(100, aura*GlowScale),
		SunPositionPct: SunStartPct + p*SunRisePct,
		Layers:         make([]Layer, 0, len(m.specs)),
	}
	for _, s := range m.specs {
		f.Layers = append(f.Layers, Layer{
			Name:    s.Name,
			Inner:   s.Inner,
			Middle:  s.Middle,
			Outer:   s.Outer,
			Opacity: s.Window.Ramp(p),
			BlurPx:  s.BlurPx,
		})
	}
	return f
}

var defaultMapper = NewMapper(BlendedLayers())

// Map evaluates the blended layer set.
func Map(p float64) Frame {
	return defaultMapper.Map(p)
}

// AuraHeight is non-decreasing in p and bounded to [BaseAuraPct, 100].
func AuraHeight(p float64) float64 {
	return math.Min(100, BaseAuraPct+clamp01(p)*AuraGrowthPct)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
