package visual

import (
	"fmt"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSLA is a CSS-style colour: hue in degrees, saturation and lightness in
// percent, alpha in [0,1].
type HSLA struct {
	H float64
	S float64
	L float64
	A float64
}

func (c HSLA) String() string {
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", trim(c.H), trim(c.S), trim(c.L), trim(c.A))
}

// Color converts to an opaque go-colorful colour; alpha is carried separately.
func (c HSLA) Color() colorful.Color {
	return colorful.Hsl(c.H, c.S/100, c.L/100).Clamped()
}

// WithAlpha returns c with its alpha scaled by k.
func (c HSLA) WithAlpha(k float64) HSLA {
	c.A = clamp01(c.A * k)
	return c
}

// Lerp interpolates every channel linearly. Hue takes the shorter way round.
func (c HSLA) Lerp(to HSLA, t float64) HSLA {
	t = clamp01(t)
	dh := to.H - c.H
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	h := c.H + dh*t
	if h < 0 {
		h += 360
	} else if h >= 360 {
		h -= 360
	}
	return HSLA{
		H: h,
		S: c.S + (to.S-c.S)*t,
		L: c.L + (to.L-c.L)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
