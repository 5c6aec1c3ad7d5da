package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sandeepkv93/sunrise/internal/visual"
)

const (
	// auraWidthFrac is the horizontal radius of the aura relative to the sky width.
	auraWidthFrac = 0.75
	glowAlpha     = 0.35
	// sunRadiusFrac is the sun radius relative to the sky height.
	sunRadiusFrac = 0.14
	upperHalf     = "▀"
)

// Rasterize composites the frame into a width x rows pixel grid, row 0 at
// the top. Layers are anchored at the bottom centre and painted in order
// over the night sky.
func Rasterize(f visual.Frame, width, rows int) [][]colorful.Color {
	if width <= 0 || rows <= 0 {
		return nil
	}
	night := visual.Night.Color()
	cx := float64(width-1) / 2
	rx := math.Max(1, float64(width)*auraWidthFrac)
	auraRy := math.Max(1, float64(rows)*f.AuraHeightPct/100)
	glowRy := math.Max(1, float64(rows)*f.GlowHeightPct/100)

	dominant, hasDominant := f.Dominant()
	sunR := math.Max(1, float64(rows)*sunRadiusFrac)
	sunCy := float64(rows) * f.SunPositionPct / 100
	sunColor := dominant.Inner.Color().BlendRgb(colorful.Color{R: 1, G: 1, B: 0.95}, 0.55)

	out := make([][]colorful.Color, rows)
	for y := 0; y < rows; y++ {
		row := make([]colorful.Color, width)
		h := float64(rows-1-y) + 0.5
		for x := 0; x < width; x++ {
			px := night
			dx := (float64(x) - cx) / rx
			if hasDominant {
				d := math.Hypot(dx, h/glowRy)
				c := dominant.At(d).WithAlpha(glowAlpha)
				px = px.BlendRgb(c.Color(), c.A)
			}
			for _, l := range f.Layers {
				if l.Opacity <= 0 {
					continue
				}
				d := math.Hypot(dx, h/auraRy) / blurSpread(l.BlurPx)
				c := l.At(d)
				if c.A <= 0 {
					continue
				}
				px = px.BlendRgb(c.Color(), c.A)
			}
			if hasDominant {
				sd := math.Hypot((float64(x)-cx)/2, h-sunCy) / sunR
				if sd <= 1 {
					px = px.BlendRgb(sunColor, 0.9-0.4*sd)
				}
			}
			row[x] = px.Clamped()
		}
		out[y] = row
	}
	return out
}

// Wider blur spreads a layer further from its centre.
func blurSpread(blurPx float64) float64 {
	return 1 + math.Max(0, blurPx)/100
}

// RenderSky draws the frame using half blocks, two pixel rows per line.
func RenderSky(f visual.Frame, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	px := Rasterize(f, width, height*2)
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		top, bottom := px[2*y], px[2*y+1]
		for x := 0; x < width; x++ {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top[x].Hex())).
				Background(lipgloss.Color(bottom[x].Hex())).
				Render(upperHalf))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
