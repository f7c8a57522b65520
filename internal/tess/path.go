package tess

import (
	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// rescaleThreshold is the relative change in transform scale that forces
// curves to be re-flattened at a matching tolerance.
const rescaleThreshold = 0.25

// TriangleSink receives triangulated geometry from Path.Triangulate.
type TriangleSink interface {
	// AddTriangles appends vertices and indices; indices are relative to
	// the first vertex passed in this call.
	AddTriangles(vertices []vg.Vec2, indices []uint16)
	SetTriangulatedBounds(bounds vg.AABB)
}

// Path holds a raw path and tracks whether its triangulation is stale.
// It is meant to be embedded by a renderer's path type, which acts as the
// TriangleSink.
type Path struct {
	raw      vg.RawPath
	fillRule vg.FillRule

	dirty      bool
	scale      float32
	generation uint64

	// Scratch buffers reused across triangulations.
	vpath    vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
	points   []vg.Vec2
}

// NewPath returns a path holding a copy of raw.
func NewPath(raw *vg.RawPath, rule vg.FillRule) *Path {
	p := &Path{fillRule: rule, dirty: true}
	if raw != nil {
		p.raw = raw.Clone()
	}
	return p
}

// Rewind empties the raw path and marks the triangulation stale.
func (p *Path) Rewind() {
	p.raw.Rewind()
	p.dirty = true
}

// AddRawPath appends raw to the path.
func (p *Path) AddRawPath(raw *vg.RawPath) {
	p.raw.AddPath(raw, vg.Identity)
	p.dirty = true
}

// FillRule returns the path's fill rule.
func (p *Path) FillRule() vg.FillRule { return p.fillRule }

// SetFillRule changes the path's fill rule.
func (p *Path) SetFillRule(rule vg.FillRule) { p.fillRule = rule }

// Raw returns the untransformed path. Callers must not modify it.
func (p *Path) Raw() *vg.RawPath { return &p.raw }

// IsEmpty reports whether the path has no verbs.
func (p *Path) IsEmpty() bool { return p.raw.IsEmpty() }

// Dirty reports whether the next Triangulate call will produce geometry.
func (p *Path) Dirty() bool { return p.dirty }

// Generation counts successful triangulations.
func (p *Path) Generation() uint64 { return p.generation }

// Contour flattens the path in the space of m and records m's scale.
func (p *Path) Contour(m vg.Mat2D) []Contour {
	p.UpdateScale(m)
	return Flatten(&p.raw, m, DefaultTolerance)
}

// UpdateScale records m's scale without flattening. When it differs from
// the scale of the last triangulation by more than a quarter, the
// triangulation is marked stale so that curves are re-flattened finely
// enough for the new zoom level.
func (p *Path) UpdateScale(m vg.Mat2D) {
	s := m.MaxScale()
	if s > 0 && (p.scale == 0 || math32.Abs(s/p.scale-1) > rescaleThreshold) {
		p.scale = s
		p.dirty = true
	}
}

// Triangulate fills sink with the local-space triangulation of the path
// when it is stale. Geometry is appended; the sink is never cleared here.
// It reports whether any geometry was produced.
func (p *Path) Triangulate(sink TriangleSink) bool {
	if !p.dirty {
		return false
	}
	p.dirty = false

	tol := float32(DefaultTolerance)
	if p.scale > 0 {
		tol /= p.scale
	}
	contours := Flatten(&p.raw, vg.Identity, tol)
	if len(contours) == 0 {
		return false
	}

	p.vpath = vector.Path{}
	for _, c := range contours {
		if len(c.Points) < 3 {
			continue
		}
		p.vpath.MoveTo(c.Points[0].X, c.Points[0].Y)
		for _, pt := range c.Points[1:] {
			p.vpath.LineTo(pt.X, pt.Y)
		}
		p.vpath.Close()
	}

	p.vertices, p.indices = p.vpath.AppendVerticesAndIndicesForFilling(p.vertices[:0], p.indices[:0])
	if len(p.indices) == 0 {
		return false
	}

	p.points = p.points[:0]
	for _, v := range p.vertices {
		p.points = append(p.points, vg.Vec2{X: v.DstX, Y: v.DstY})
	}
	sink.AddTriangles(p.points, p.indices)
	sink.SetTriangulatedBounds(vg.BoundsOf(p.points))
	p.generation++
	return true
}

// ExtrudeStroke flattens the path through m and extrudes it into stroke.
// Extrusion happens after the transform, so thickness is measured in m's
// output space and does not scale with m. The stroke is reset first, so
// its strip holds only this path.
func (p *Path) ExtrudeStroke(stroke *ContourStroke, join vg.StrokeJoin, lineCap vg.StrokeCap, thickness float32, m vg.Mat2D) {
	stroke.Reset()
	stroke.Extrude(Flatten(&p.raw, m, DefaultTolerance), join, lineCap, thickness)
}
