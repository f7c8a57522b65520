package vg

import "image/color"

// RenderPath is a path handed to a Renderer. Implementations may cache
// geometry derived from it until Rewind.
type RenderPath interface {
	Rewind()
	AddRawPath(raw *RawPath)
	FillRule() FillRule
	SetFillRule(rule FillRule)
}

// RenderShader is an opaque paint source created by a Factory, such as a
// gradient.
type RenderShader interface {
	// ColorAt samples the shader at a world-space point.
	ColorAt(x, y float32) color.RGBA
}

// RenderPaint describes how a path is filled or stroked.
type RenderPaint interface {
	Style(style PaintStyle)
	Color(c ColorInt)
	Thickness(t float32)
	Join(j StrokeJoin)
	Cap(c StrokeCap)
	BlendMode(m BlendMode)
	Shader(s RenderShader)
	// InvalidateStroke discards cached stroke geometry.
	InvalidateStroke()
}

// RenderImage is a decoded image. No renderer in this module draws
// images; the type exists so the drawing interface is complete.
type RenderImage interface {
	Width() int
	Height() int
}

// RenderBuffer is a GPU-side vertex or index buffer.
type RenderBuffer interface {
	Size() int
}

// Renderer is the drawing surface an animation draws through. All
// operations are infallible.
type Renderer interface {
	Save()
	Restore()
	Transform(m Mat2D)
	DrawPath(path RenderPath, paint RenderPaint)
	ClipPath(path RenderPath)
	DrawImage(img RenderImage, blend BlendMode, opacity float32)
	DrawImageMesh(img RenderImage, vertices, uvs, indices RenderBuffer, blend BlendMode, opacity float32)
}

// Factory creates the renderer-specific objects an animation needs.
// Capabilities a renderer does not support return nil.
type Factory interface {
	MakeRenderPath(raw *RawPath, rule FillRule) RenderPath
	MakeEmptyRenderPath() RenderPath
	MakeLinearGradient(sx, sy, ex, ey float32, colors []ColorInt, stops []float32) RenderShader
	MakeRadialGradient(cx, cy, radius float32, colors []ColorInt, stops []float32) RenderShader
	MakeRenderPaint() RenderPaint
	MakeRenderBuffer(size int) RenderBuffer
	DecodeImage(data []byte) RenderImage
}

// Align multiplies the renderer's transform by the alignment of content
// within frame.
func Align(r Renderer, fit Fit, alignment Alignment, frame, content AABB) {
	r.Transform(ComputeAlignment(fit, alignment, frame, content))
}
