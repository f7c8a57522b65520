package render

import (
	"image/color"
	"io"
	"log/slog"

	"github.com/opd-ai/go-tessplay/internal/scene"
	"github.com/opd-ai/go-tessplay/internal/tess"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// ClipAlphaThreshold is the stencil alpha above which clipped content is
// visible.
const ClipAlphaThreshold = 0.05

// stencilColor paints clip stencils. Only its alpha matters.
var stencilColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// FrameStats counts the work done since the last StartFrame.
type FrameStats struct {
	Triangles        int
	DrawCalls        int
	ClipRegions      int
	Retriangulations int
}

type rendererState struct {
	clipDepth int
}

// Renderer implements vg.Renderer on top of a scene graph. Each frame it
// rebuilds a tree of draw nodes and clipping nodes under the root it was
// given; the scene's Rasterizer turns that tree into Ebiten draw calls.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	tess.RendererBase

	root       *scene.Node
	containers []*scene.Node
	states     []rendererState
	current    *scene.DrawNode
	stroke     *tess.ContourStroke

	logger *slog.Logger
	stats  FrameStats
}

// NewRenderer returns a renderer that builds its scene under root. A nil
// logger discards output.
func NewRenderer(root *scene.Node, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Renderer{
		root:   root,
		stroke: tess.NewContourStroke(),
		logger: logger,
	}
	r.StartFrame()
	return r
}

// Root returns the scene node the renderer draws under.
func (r *Renderer) Root() *scene.Node { return r.root }

// StartFrame discards everything drawn in the previous frame and opens
// a fresh draw node directly under the root.
func (r *Renderer) StartFrame() {
	r.root.RemoveAllChildren()
	r.containers = append(r.containers[:0], r.root)
	r.states = r.states[:0]
	r.ResetTransform()
	r.stats = FrameStats{}
	r.openDrawNode()
}

// Stats returns the counters accumulated since StartFrame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// ClipDepth returns the number of clip regions currently applied.
func (r *Renderer) ClipDepth() int { return len(r.containers) - 1 }

// SaveDepth returns the number of unmatched Save calls.
func (r *Renderer) SaveDepth() int { return len(r.states) }

// Container returns the node new draw nodes are attached to.
func (r *Renderer) Container() *scene.Node { return r.containers[len(r.containers)-1] }

// Current returns the draw node receiving triangles.
func (r *Renderer) Current() *scene.DrawNode { return r.current }

func (r *Renderer) openDrawNode() {
	r.current = scene.NewDrawNode()
	r.Container().AddChild(r.current)
}

// Save pushes the transform and the current clip depth.
func (r *Renderer) Save() {
	r.RendererBase.Save()
	r.states = append(r.states, rendererState{clipDepth: r.ClipDepth()})
}

// Restore undoes the matching Save: the transform is restored, clip
// regions applied since then are closed, and drawing continues in a new
// draw node under the enclosing container. Unmatched calls are ignored.
func (r *Renderer) Restore() {
	if len(r.states) == 0 {
		r.logger.Debug("restore without matching save ignored")
		return
	}
	r.RendererBase.Restore()
	st := r.states[len(r.states)-1]
	r.states = r.states[:len(r.states)-1]

	for r.ClipDepth() > st.clipDepth {
		r.containers = r.containers[:len(r.containers)-1]
	}
	r.openDrawNode()
}

// ClipPath restricts subsequent drawing to the fill of path until the
// enclosing Restore.
func (r *Renderer) ClipPath(path vg.RenderPath) {
	p, ok := path.(*Path)
	if !ok || p == nil {
		return
	}
	m := r.CurrentTransform()
	// Stencil geometry is not drawn content and stays out of the
	// triangle and draw-call counts.
	stencil := scene.NewDrawNode()
	r.fill(stencil, p, m, func(vg.Vec2) color.RGBA { return stencilColor })

	clip := scene.NewClippingNode(stencil, ClipAlphaThreshold)
	r.Container().AddChild(clip)
	r.containers = append(r.containers, &clip.Node)
	r.stats.ClipRegions++
	r.openDrawNode()
}

// DrawPath fills or strokes path with paint at the current transform.
func (r *Renderer) DrawPath(path vg.RenderPath, paint vg.RenderPaint) {
	p, ok := path.(*Path)
	if !ok || p == nil {
		return
	}
	pt, ok := paint.(*Paint)
	if !ok || pt == nil {
		return
	}
	m := r.CurrentTransform()

	if pt.style == vg.PaintStyleStroke {
		p.ExtrudeStroke(r.stroke, pt.join, pt.cap, pt.thickness, m)
		r.emitStrip(r.current, r.stroke.TriangleStrip(), pt)
		return
	}
	if drawn := r.fill(r.current, p, m, pt.colorAt); drawn > 0 {
		r.stats.Triangles += drawn
		r.stats.DrawCalls++
	}
}

// emitStrip draws triangle i of the strip from vertices i, i+1 and i+2.
// Strip vertices are already in world space, so shaders sample them as is.
func (r *Renderer) emitStrip(dst *scene.DrawNode, strip []vg.Vec2, pt *Paint) {
	if len(strip) < 3 {
		return
	}
	shaded := pt.shader != nil
	flat := pt.color.RGBA()
	for i := 0; i+2 < len(strip); i++ {
		a, b, c := strip[i], strip[i+1], strip[i+2]
		if shaded {
			dst.DrawColoredTriangle(a, b, c, pt.colorAt(a), pt.colorAt(b), pt.colorAt(c))
		} else {
			dst.DrawTriangle(a, b, c, flat)
		}
		r.stats.Triangles++
	}
	dst.CloseShape(scene.WindingUnion)
	r.stats.DrawCalls++
}

// fill brings the path's local triangulation up to date for m and draws
// it, transforming vertices on the fly. Colors are sampled at the
// transformed positions. It returns the number of triangles drawn.
func (r *Renderer) fill(dst *scene.DrawNode, p *Path, m vg.Mat2D, colorAt func(vg.Vec2) color.RGBA) int {
	p.UpdateScale(m)
	oldVertices, oldIndices := len(p.vertices), len(p.indices)
	if p.Triangulate(p) {
		p.Prune(oldVertices, oldIndices)
		r.stats.Retriangulations++
	}

	verts, idx := p.vertices, p.indices
	if len(verts) == 0 || len(idx) < 3 {
		return 0
	}
	drawn := 0
	for i := 0; i+2 < len(idx); i += 3 {
		i0, i1, i2 := int(idx[i]), int(idx[i+1]), int(idx[i+2])
		if i0 >= len(verts) || i1 >= len(verts) || i2 >= len(verts) {
			continue
		}
		a, b, c := m.Apply(verts[i0]), m.Apply(verts[i1]), m.Apply(verts[i2])
		dst.DrawColoredTriangle(a, b, c, colorAt(a), colorAt(b), colorAt(c))
		drawn++
	}
	if drawn > 0 {
		dst.CloseShape(windingFor(p.FillRule()))
	}
	return drawn
}

func windingFor(rule vg.FillRule) scene.Winding {
	if rule == vg.FillRuleEvenOdd {
		return scene.WindingEvenOdd
	}
	return scene.WindingNonZero
}

// DrawImage is not supported.
func (r *Renderer) DrawImage(vg.RenderImage, vg.BlendMode, float32) {}

// DrawImageMesh is not supported.
func (r *Renderer) DrawImageMesh(vg.RenderImage, vg.RenderBuffer, vg.RenderBuffer, vg.RenderBuffer, vg.BlendMode, float32) {
}

// OrthographicProjection is a no-op; the host owns the projection.
func (r *Renderer) OrthographicProjection(left, right, bottom, top, near, far float32) {}

// Align multiplies the current transform by the transform fitting
// content into frame.
func (r *Renderer) Align(fit vg.Fit, alignment vg.Alignment, frame, content vg.AABB) {
	r.Transform(vg.ComputeAlignment(fit, alignment, frame, content))
}

var _ vg.Renderer = (*Renderer)(nil)
