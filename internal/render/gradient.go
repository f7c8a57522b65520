package render

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// degenerateEpsilon is the squared length (linear) or radius (radial)
// below which a gradient collapses to its first color.
const degenerateEpsilon = 1e-4

var opaqueWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Shader is a paint source sampled in world (post-transform) space.
type Shader interface {
	vg.RenderShader
	// Stops returns the gradient's colors and their positions.
	Stops() ([]vg.ColorInt, []float32)
}

// gradientStops is the color ramp shared by linear and radial gradients.
type gradientStops struct {
	colors []vg.ColorInt
	stops  []float32
}

// newGradientStops copies colors and stops, truncating to the shorter
// slice.
func newGradientStops(colors []vg.ColorInt, stops []float32) gradientStops {
	n := min(len(colors), len(stops))
	return gradientStops{
		colors: append([]vg.ColorInt(nil), colors[:n]...),
		stops:  append([]float32(nil), stops[:n]...),
	}
}

// Stops returns copies of the colors and positions.
func (g gradientStops) Stops() ([]vg.ColorInt, []float32) {
	return append([]vg.ColorInt(nil), g.colors...), append([]float32(nil), g.stops...)
}

// first returns the first color, or opaque white when there are no stops.
func (g gradientStops) first() color.RGBA {
	if len(g.colors) == 0 {
		return opaqueWhite
	}
	return g.colors[0].RGBA()
}

// at returns the ramp color at position t, which is clamped to [0, 1].
func (g gradientStops) at(t float32) color.RGBA {
	n := len(g.colors)
	if n == 0 {
		return opaqueWhite
	}
	t = math32.Max(0, math32.Min(1, t))
	if t <= g.stops[0] {
		return g.colors[0].RGBA()
	}
	if t >= g.stops[n-1] {
		return g.colors[n-1].RGBA()
	}
	for i := 0; i < n-1; i++ {
		lo, hi := g.stops[i], g.stops[i+1]
		if t >= lo && t <= hi {
			span := hi - lo
			if span <= 0 {
				span = 1
			}
			return vg.ColorLerp(g.colors[i], g.colors[i+1], (t-lo)/span).RGBA()
		}
	}
	return g.colors[n-1].RGBA()
}

// LinearGradient varies color along the line from start to end.
type LinearGradient struct {
	gradientStops
	start, end vg.Vec2
}

// NewLinearGradient returns a linear gradient from (sx, sy) to (ex, ey).
func NewLinearGradient(sx, sy, ex, ey float32, colors []vg.ColorInt, stops []float32) *LinearGradient {
	return &LinearGradient{
		gradientStops: newGradientStops(colors, stops),
		start:         vg.Vec2{X: sx, Y: sy},
		end:           vg.Vec2{X: ex, Y: ey},
	}
}

// ColorAt projects (x, y) onto the gradient line and returns the ramp
// color there.
func (g *LinearGradient) ColorAt(x, y float32) color.RGBA {
	d := g.end.Sub(g.start)
	lenSq := d.LengthSquared()
	if lenSq <= degenerateEpsilon {
		return g.first()
	}
	t := vg.Vec2{X: x, Y: y}.Sub(g.start).Dot(d) / lenSq
	return g.at(t)
}

// RadialGradient varies color with distance from a center point.
type RadialGradient struct {
	gradientStops
	center vg.Vec2
	radius float32
}

// NewRadialGradient returns a radial gradient around (cx, cy).
func NewRadialGradient(cx, cy, radius float32, colors []vg.ColorInt, stops []float32) *RadialGradient {
	return &RadialGradient{
		gradientStops: newGradientStops(colors, stops),
		center:        vg.Vec2{X: cx, Y: cy},
		radius:        radius,
	}
}

// ColorAt returns the ramp color at the point's distance from the center,
// measured in radii.
func (g *RadialGradient) ColorAt(x, y float32) color.RGBA {
	if g.radius <= degenerateEpsilon {
		return g.first()
	}
	return g.at(vg.Distance(g.center, vg.Vec2{X: x, Y: y}) / g.radius)
}
