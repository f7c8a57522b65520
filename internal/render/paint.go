package render

import (
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Paint is the renderer's vg.RenderPaint. It only records state; the
// Renderer reads it when drawing.
type Paint struct {
	style     vg.PaintStyle
	color     vg.ColorInt
	thickness float32
	join      vg.StrokeJoin
	cap       vg.StrokeCap
	blend     vg.BlendMode
	shader    vg.RenderShader
	// strokeVersion increases on InvalidateStroke.
	strokeVersion uint64
}

// NewPaint returns an opaque black fill paint, one unit thick.
func NewPaint() *Paint {
	return &Paint{color: 0xFF000000, thickness: 1}
}

// Style sets fill or stroke.
func (p *Paint) Style(s vg.PaintStyle) { p.style = s }

// Color sets the solid color used when no shader is set.
func (p *Paint) Color(c vg.ColorInt) { p.color = c }

// Thickness sets the stroke width.
func (p *Paint) Thickness(t float32) { p.thickness = t }

// Join sets the stroke join.
func (p *Paint) Join(j vg.StrokeJoin) { p.join = j }

// Cap sets the stroke cap.
func (p *Paint) Cap(c vg.StrokeCap) { p.cap = c }

// BlendMode records the blend mode. The renderer always composites
// source-over.
func (p *Paint) BlendMode(m vg.BlendMode) { p.blend = m }

// Shader sets or, with nil, clears the paint's shader.
func (p *Paint) Shader(s vg.RenderShader) { p.shader = s }

// InvalidateStroke marks cached stroke geometry stale.
func (p *Paint) InvalidateStroke() { p.strokeVersion++ }

// GetStyle returns the paint style.
func (p *Paint) GetStyle() vg.PaintStyle { return p.style }

// GetColor returns the solid color.
func (p *Paint) GetColor() vg.ColorInt { return p.color }

// GetThickness returns the stroke width.
func (p *Paint) GetThickness() float32 { return p.thickness }

// GetJoin returns the stroke join.
func (p *Paint) GetJoin() vg.StrokeJoin { return p.join }

// GetCap returns the stroke cap.
func (p *Paint) GetCap() vg.StrokeCap { return p.cap }

// GetBlendMode returns the recorded blend mode.
func (p *Paint) GetBlendMode() vg.BlendMode { return p.blend }

// GetShader returns the shader, or nil.
func (p *Paint) GetShader() vg.RenderShader { return p.shader }

// StrokeVersion returns how many times the stroke was invalidated.
func (p *Paint) StrokeVersion() uint64 { return p.strokeVersion }

// colorAt resolves the paint at a world-space point.
func (p *Paint) colorAt(pt vg.Vec2) color.RGBA {
	if p.shader != nil {
		return p.shader.ColorAt(pt.X, pt.Y)
	}
	return p.color.RGBA()
}
