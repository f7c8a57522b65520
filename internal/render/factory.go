package render

import "github.com/opd-ai/go-tessplay/internal/vg"

// Factory creates the renderer's paths, paints and gradients. Render
// buffers and images are unsupported and come back nil.
type Factory struct{}

// NewFactory returns a Factory.
func NewFactory() *Factory { return &Factory{} }

// MakeRenderPath returns a path holding a copy of raw.
func (f *Factory) MakeRenderPath(raw *vg.RawPath, rule vg.FillRule) vg.RenderPath {
	return NewPath(raw, rule)
}

// MakeEmptyRenderPath returns an empty non-zero path.
func (f *Factory) MakeEmptyRenderPath() vg.RenderPath {
	return NewPath(nil, vg.FillRuleNonZero)
}

// MakeLinearGradient returns a linear gradient shader. Colors and stops
// are truncated to the shorter of the two.
func (f *Factory) MakeLinearGradient(sx, sy, ex, ey float32, colors []vg.ColorInt, stops []float32) vg.RenderShader {
	return NewLinearGradient(sx, sy, ex, ey, colors, stops)
}

// MakeRadialGradient returns a radial gradient shader. Colors and stops
// are truncated to the shorter of the two.
func (f *Factory) MakeRadialGradient(cx, cy, radius float32, colors []vg.ColorInt, stops []float32) vg.RenderShader {
	return NewRadialGradient(cx, cy, radius, colors, stops)
}

// MakeRenderPaint returns a new paint.
func (f *Factory) MakeRenderPaint() vg.RenderPaint { return NewPaint() }

// MakeRenderBuffer is unsupported.
func (f *Factory) MakeRenderBuffer(size int) vg.RenderBuffer { return nil }

// DecodeImage is unsupported.
func (f *Factory) DecodeImage(data []byte) vg.RenderImage { return nil }

var _ vg.Factory = (*Factory)(nil)
