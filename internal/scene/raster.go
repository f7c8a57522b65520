package scene

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// whiteImage is the 1x1 source texture for untextured triangles.
var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(img.Bounds().Inset(1)).(*ebiten.Image)
}()

// RasterStats describes the work done by one Rasterizer.Draw call.
type RasterStats struct {
	DrawCalls   int
	Triangles   int
	ClipRegions int
}

// Rasterizer renders a scene tree onto an Ebiten image.
type Rasterizer struct {
	pool      *ImagePool
	antiAlias bool
	stats     RasterStats

	vertices []ebiten.Vertex
}

// NewRasterizer returns a rasterizer with its own offscreen image pool.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{pool: NewImagePool()}
}

// SetAntiAlias enables Ebiten's triangle anti-aliasing.
func (r *Rasterizer) SetAntiAlias(on bool) { r.antiAlias = on }

// Stats returns the counters of the most recent Draw.
func (r *Rasterizer) Stats() RasterStats { return r.stats }

// Pool returns the offscreen image pool.
func (r *Rasterizer) Pool() *ImagePool { return r.pool }

// Draw renders root and its subtree onto dst, depth first.
func (r *Rasterizer) Draw(root Element, dst *ebiten.Image) {
	r.stats = RasterStats{}
	if root == nil || dst == nil {
		return
	}
	r.drawElement(root, dst, vg.Identity)
}

func (r *Rasterizer) drawElement(e Element, dst *ebiten.Image, parent vg.Mat2D) {
	n := e.node()
	if !n.visible {
		return
	}
	m := parent.Mul(n.transform)

	switch v := e.(type) {
	case *DrawNode:
		r.drawBatches(v, dst, m)
	case *ClippingNode:
		r.drawClipped(v, dst, m)
		return
	}
	for _, c := range n.children {
		r.drawElement(c, dst, m)
	}
}

func (r *Rasterizer) drawBatches(d *DrawNode, dst *ebiten.Image, m vg.Mat2D) {
	for _, b := range d.Batches() {
		if len(b.Indices) == 0 {
			continue
		}
		r.vertices = r.vertices[:0]
		for _, v := range b.Vertices {
			p := m.Apply(v.Pos)
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   p.X,
				DstY:   p.Y,
				SrcX:   1,
				SrcY:   1,
				ColorR: float32(v.Color.R) / 255,
				ColorG: float32(v.Color.G) / 255,
				ColorB: float32(v.Color.B) / 255,
				ColorA: float32(v.Color.A) / 255,
			})
		}
		dst.DrawTriangles(r.vertices, b.Indices, whiteImage, &ebiten.DrawTrianglesOptions{
			AntiAlias: r.antiAlias,
			FillRule:  fillRule(b.Winding),
		})
		r.stats.DrawCalls++
		r.stats.Triangles += b.TriangleCount()
	}
}

// fillRule maps a batch winding onto Ebiten. Union batches are oriented
// when closed, so non-zero paints their union.
func fillRule(w Winding) ebiten.FillRule {
	if w == WindingEvenOdd {
		return ebiten.FillRuleEvenOdd
	}
	return ebiten.FillRuleNonZero
}

// drawClipped renders the node's children offscreen, masks them with the
// stencil and composites the result onto dst.
func (r *Rasterizer) drawClipped(c *ClippingNode, dst *ebiten.Image, m vg.Mat2D) {
	r.stats.ClipRegions++
	if c.stencil == nil || len(c.children) == 0 {
		return
	}
	b := dst.Bounds()
	content := r.pool.Get(b.Dx(), b.Dy())
	defer r.pool.Put(content)
	mask := r.pool.Get(b.Dx(), b.Dy())
	defer r.pool.Put(mask)

	// Offscreen images start at (0, 0); shift drawing to match dst.
	local := vg.NewTranslate(-float32(b.Min.X), -float32(b.Min.Y)).Mul(m)
	for _, child := range c.children {
		r.drawElement(child, content, local)
	}
	r.drawElement(c.stencil, mask, local)

	// Stretch alpha so that values above the threshold become opaque and
	// the rest transparent.
	var cm colorm.ColorM
	cm.Scale(1, 1, 1, 255)
	cm.Translate(0, 0, 0, -float64(c.alphaThreshold)*255)
	colorm.DrawImage(content, mask, cm, &colorm.DrawImageOptions{Blend: ebiten.BlendDestinationIn})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	dst.DrawImage(content, op)
}
