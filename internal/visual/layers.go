package visual

import (
	"fmt"
	"strings"
)

// Mode picks a layer preset.
type Mode string

const (
	ModeBlended  Mode = "blended"
	ModeDiscrete Mode = "discrete"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeBlended:
		return ModeBlended, nil
	case ModeDiscrete:
		return ModeDiscrete, nil
	default:
		return "", fmt.Errorf("visual: unknown mode %q (want blended or discrete)", raw)
	}
}

// Next cycles blended -> discrete -> blended.
func (m Mode) Next() Mode {
	if m == ModeDiscrete {
		return ModeBlended
	}
	return ModeDiscrete
}

func LayersFor(m Mode) []LayerSpec {
	if m == ModeDiscrete {
		return DiscreteLayers()
	}
	return BlendedLayers()
}

// Sunrise palette, night to morning sky.
var (
	violet   = HSLA{H: 280, S: 40, L: 35, A: 0.8}
	indigo   = HSLA{H: 250, S: 35, L: 18, A: 0.6}
	rose     = HSLA{H: 340, S: 55, L: 55, A: 0.8}
	coral    = HSLA{H: 15, S: 70, L: 55, A: 0.85}
	amber    = HSLA{H: 30, S: 85, L: 55, A: 0.9}
	gold     = HSLA{H: 42, S: 90, L: 60, A: 0.9}
	morning  = HSLA{H: 200, S: 70, L: 75, A: 0.85}
	midAlpha = 0.5
)

type stage struct {
	name          string
	inner, middle HSLA
	outer         HSLA
	blur          float64
}

func stages() []stage {
	return []stage{
		{name: "predawn", inner: violet, middle: indigo, outer: Night, blur: 40},
		{name: "first-light", inner: rose, middle: violet, outer: indigo, blur: 36},
		{name: "dawn", inner: coral, middle: rose, outer: violet, blur: 32},
		{name: "sunrise", inner: amber, middle: coral, outer: rose, blur: 30},
		{name: "golden-hour", inner: gold, middle: amber, outer: coral, blur: 28},
		{name: "morning", inner: morning, middle: gold, outer: amber, blur: 24},
	}
}

func spec(s stage, w Window, fadeMiddle bool) LayerSpec {
	middle := s.middle
	if fadeMiddle {
		middle.A = midAlpha
	}
	outer := s.outer
	outer.A = 0
	return LayerSpec{Name: s.name, Window: w, Inner: s.inner, Middle: middle, Outer: outer, BlurPx: s.blur}
}

// BlendedLayers fades each stage in over a window that overlaps its
// neighbours, so the sky shifts continuously.
func BlendedLayers() []LayerSpec {
	windows := []Window{
		{Start: 0, End: 0},
		{Start: 0.05, End: 0.3},
		{Start: 0.2, End: 0.5},
		{Start: 0.4, End: 0.7},
		{Start: 0.6, End: 0.85},
		{Start: 0.75, End: 1},
	}
	st := stages()
	out := make([]LayerSpec, len(st))
	for i := range st {
		out[i] = spec(st[i], windows[i], i > 0)
	}
	return out
}

// DiscreteLayers switches stages on at fixed thresholds, so the sky jumps
// between six buckets. Later stages paint over earlier ones.
func DiscreteLayers() []LayerSpec {
	thresholds := []float64{0, 0.15, 0.3, 0.5, 0.7, 0.85}
	st := stages()
	out := make([]LayerSpec, len(st))
	for i := range st {
		out[i] = spec(st[i], Window{Start: thresholds[i], End: thresholds[i]}, i > 0)
	}
	return out
}
