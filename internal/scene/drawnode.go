package scene

import (
	"image/color"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// maxBatchVertices keeps batch indices within uint16.
const maxBatchVertices = 1<<16 - 3

// Winding selects how overlapping triangles of one batch combine.
type Winding int

const (
	// WindingNonZero fills pixels with a non-zero triangle winding count.
	WindingNonZero Winding = iota
	// WindingEvenOdd fills pixels covered an odd number of times.
	WindingEvenOdd
	// WindingUnion fills every pixel covered by at least one triangle,
	// regardless of triangle orientation.
	WindingUnion
)

// String implements fmt.Stringer.
func (w Winding) String() string {
	switch w {
	case WindingEvenOdd:
		return "evenOdd"
	case WindingUnion:
		return "union"
	default:
		return "nonZero"
	}
}

// Vertex is a triangle corner in node space with a straight-alpha color.
type Vertex struct {
	Pos   vg.Vec2
	Color color.RGBA
}

// Batch is a run of triangles drawn with a single fill rule.
type Batch struct {
	Vertices []Vertex
	Indices  []uint16
	Winding  Winding
}

// TriangleCount returns len(Indices)/3.
func (b *Batch) TriangleCount() int { return len(b.Indices) / 3 }

// DrawNode accumulates triangles until Clear. Triangles submitted between
// two CloseShape calls form one shape that is filled with one winding
// rule, so fan triangulations that rely on winding cancellation render
// correctly.
type DrawNode struct {
	Node
	batches []Batch
	open    Batch
}

// NewDrawNode returns an empty draw node.
func NewDrawNode() *DrawNode {
	d := &DrawNode{}
	d.Node.init(d)
	return d
}

// DrawTriangle adds a flat-coloured triangle to the open shape.
func (d *DrawNode) DrawTriangle(a, b, c vg.Vec2, clr color.RGBA) {
	d.DrawColoredTriangle(a, b, c, clr, clr, clr)
}

// DrawColoredTriangle adds a triangle whose color is interpolated from
// its corners.
func (d *DrawNode) DrawColoredTriangle(a, b, c vg.Vec2, ca, cb, cc color.RGBA) {
	if len(d.open.Vertices) > maxBatchVertices-3 {
		d.CloseShape(WindingNonZero)
	}
	base := uint16(len(d.open.Vertices))
	d.open.Vertices = append(d.open.Vertices,
		Vertex{Pos: a, Color: ca},
		Vertex{Pos: b, Color: cb},
		Vertex{Pos: c, Color: cc},
	)
	d.open.Indices = append(d.open.Indices, base, base+1, base+2)
}

// CloseShape ends the open shape, filling it with rule w. It is a no-op
// when no triangles were added since the last call.
func (d *DrawNode) CloseShape(w Winding) {
	if len(d.open.Indices) == 0 {
		return
	}
	if w == WindingUnion {
		orientPositive(&d.open)
	}
	d.open.Winding = w
	d.batches = append(d.batches, d.open)
	d.open = Batch{}
}

// orientPositive flips clockwise triangles so every triangle winds the
// same way; a non-zero fill then paints their union.
func orientPositive(b *Batch) {
	for i := 0; i+2 < len(b.Indices); i += 3 {
		p0 := b.Vertices[b.Indices[i]].Pos
		p1 := b.Vertices[b.Indices[i+1]].Pos
		p2 := b.Vertices[b.Indices[i+2]].Pos
		if p1.Sub(p0).Cross(p2.Sub(p0)) < 0 {
			b.Indices[i+1], b.Indices[i+2] = b.Indices[i+2], b.Indices[i+1]
		}
	}
}

// Clear removes every triangle.
func (d *DrawNode) Clear() {
	d.batches = d.batches[:0]
	d.open = Batch{}
}

// Batches returns the closed shapes followed by any still-open triangles,
// which are reported as a non-zero batch.
func (d *DrawNode) Batches() []Batch {
	if len(d.open.Indices) == 0 {
		return d.batches
	}
	out := make([]Batch, 0, len(d.batches)+1)
	out = append(out, d.batches...)
	return append(out, d.open)
}

// TriangleCount returns the number of triangles drawn into the node.
func (d *DrawNode) TriangleCount() int {
	n := d.open.TriangleCount()
	for i := range d.batches {
		n += d.batches[i].TriangleCount()
	}
	return n
}

// IsEmpty reports whether the node has no triangles.
func (d *DrawNode) IsEmpty() bool { return d.TriangleCount() == 0 }
