package render

import (
	"github.com/opd-ai/go-tessplay/internal/tess"
	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Path is the renderer's vg.RenderPath. It caches the local-space
// triangulation produced by the embedded tess.Path.
type Path struct {
	*tess.Path

	vertices []vg.Vec2
	indices  []uint16
	bounds   vg.AABB
}

// NewPath returns a path holding a copy of raw.
func NewPath(raw *vg.RawPath, rule vg.FillRule) *Path {
	return &Path{Path: tess.NewPath(raw, rule)}
}

// Rewind clears the cached triangulation and rewinds the raw path.
func (p *Path) Rewind() {
	p.vertices = p.vertices[:0]
	p.indices = p.indices[:0]
	p.Path.Rewind()
}

// AddTriangles appends vertices and indices, offsetting the indices by
// the number of vertices already cached.
func (p *Path) AddTriangles(vertices []vg.Vec2, indices []uint16) {
	base := uint16(len(p.vertices))
	p.vertices = append(p.vertices, vertices...)
	for _, i := range indices {
		p.indices = append(p.indices, base+i)
	}
}

// SetTriangulatedBounds records the bounds of the latest triangulation.
// The renderer does not cull with them.
func (p *Path) SetTriangulatedBounds(b vg.AABB) { p.bounds = b }

// TriangulatedBounds returns the value passed to SetTriangulatedBounds.
func (p *Path) TriangulatedBounds() vg.AABB { return p.bounds }

// Prune discards the first oldVertexCount vertices and oldIndexCount
// indices, keeping only what was appended after them. Retained indices
// are shifted down by oldVertexCount. Nothing happens when either count
// is zero; everything is cleared when either count reaches the current
// size.
func (p *Path) Prune(oldVertexCount, oldIndexCount int) {
	if oldVertexCount == 0 || oldIndexCount == 0 {
		return
	}
	if oldVertexCount >= len(p.vertices) || oldIndexCount >= len(p.indices) {
		p.vertices = p.vertices[:0]
		p.indices = p.indices[:0]
		return
	}

	n := copy(p.vertices, p.vertices[oldVertexCount:])
	p.vertices = p.vertices[:n]

	shift := uint16(oldVertexCount)
	for i, idx := range p.indices[oldIndexCount:] {
		p.indices[i] = idx - shift
	}
	p.indices = p.indices[:len(p.indices)-oldIndexCount]
}

// Vertices returns the cached local-space vertices.
func (p *Path) Vertices() []vg.Vec2 { return p.vertices }

// Indices returns the cached triangle indices.
func (p *Path) Indices() []uint16 { return p.indices }

var _ tess.TriangleSink = (*Path)(nil)
var _ vg.RenderPath = (*Path)(nil)
