package bundle

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// recFactory creates recording paths and paints. noGradients makes the
// gradient constructors report the capability as unsupported.
type recFactory struct {
	noGradients bool
	gradients   int
}

func (f *recFactory) MakeRenderPath(raw *vg.RawPath, rule vg.FillRule) vg.RenderPath {
	p := &recPath{rule: rule}
	if raw != nil {
		p.raw = raw.Clone()
	}
	return p
}

func (f *recFactory) MakeEmptyRenderPath() vg.RenderPath { return &recPath{} }

func (f *recFactory) MakeLinearGradient(sx, sy, ex, ey float32, colors []vg.ColorInt, stops []float32) vg.RenderShader {
	if f.noGradients {
		return nil
	}
	f.gradients++
	return &recShader{colors: append([]vg.ColorInt(nil), colors...)}
}

func (f *recFactory) MakeRadialGradient(cx, cy, radius float32, colors []vg.ColorInt, stops []float32) vg.RenderShader {
	return f.MakeLinearGradient(cx, cy, cx+radius, cy, colors, stops)
}

func (f *recFactory) MakeRenderPaint() vg.RenderPaint        { return &recPaint{} }
func (f *recFactory) MakeRenderBuffer(size int) vg.RenderBuffer { return nil }
func (f *recFactory) DecodeImage(data []byte) vg.RenderImage    { return nil }

type recPath struct {
	raw  vg.RawPath
	rule vg.FillRule
}

func (p *recPath) Rewind()                      { p.raw.Rewind() }
func (p *recPath) AddRawPath(raw *vg.RawPath)   { p.raw.AddPath(raw, vg.Identity) }
func (p *recPath) FillRule() vg.FillRule        { return p.rule }
func (p *recPath) SetFillRule(rule vg.FillRule) { p.rule = rule }

type recShader struct {
	colors []vg.ColorInt
}

func (s *recShader) ColorAt(x, y float32) color.RGBA { return s.colors[0].RGBA() }

type recPaint struct {
	style       vg.PaintStyle
	color       vg.ColorInt
	thickness   float32
	join        vg.StrokeJoin
	cap         vg.StrokeCap
	blend       vg.BlendMode
	shader      vg.RenderShader
	invalidated int
}

func (p *recPaint) Style(s vg.PaintStyle)      { p.style = s }
func (p *recPaint) Color(c vg.ColorInt)        { p.color = c }
func (p *recPaint) Thickness(t float32)        { p.thickness = t }
func (p *recPaint) Join(j vg.StrokeJoin)       { p.join = j }
func (p *recPaint) Cap(c vg.StrokeCap)         { p.cap = c }
func (p *recPaint) BlendMode(m vg.BlendMode)   { p.blend = m }
func (p *recPaint) Shader(s vg.RenderShader)   { p.shader = s }
func (p *recPaint) InvalidateStroke()          { p.invalidated++ }

// recRenderer logs every call as a short string.
type recRenderer struct {
	ops []string
}

func (r *recRenderer) Save()    { r.ops = append(r.ops, "save") }
func (r *recRenderer) Restore() { r.ops = append(r.ops, "restore") }

func (r *recRenderer) Transform(m vg.Mat2D) {
	r.ops = append(r.ops, fmt.Sprintf("transform %g,%g", m[4], m[5]))
}

func (r *recRenderer) DrawPath(path vg.RenderPath, paint vg.RenderPaint) {
	r.ops = append(r.ops, "draw "+paint.(*recPaint).style.String())
}

func (r *recRenderer) ClipPath(path vg.RenderPath) { r.ops = append(r.ops, "clip") }

func (r *recRenderer) DrawImage(vg.RenderImage, vg.BlendMode, float32) {}

func (r *recRenderer) DrawImageMesh(vg.RenderImage, vg.RenderBuffer, vg.RenderBuffer, vg.RenderBuffer, vg.BlendMode, float32) {
}
