// Package tess turns vector paths into triangles. Fills are triangulated
// in path-local space with Ebiten's vector package; strokes are extruded
// into a single triangle strip in whatever space the caller's transform
// maps them to.
package tess

import (
	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// DefaultTolerance is the maximum distance, in pixels, between a flattened
// polyline and the curve it approximates.
const DefaultTolerance = 0.25

// maxCurveSegments caps the subdivision of a single curve.
const maxCurveSegments = 128

// Contour is one flattened sub-path.
type Contour struct {
	Points []vg.Vec2
	Closed bool
}

// Flatten converts raw into polylines after applying m. Curves are
// subdivided so that no point of the polyline strays more than tolerance
// from the true curve. Consecutive duplicate points are dropped and
// contours with fewer than two points are discarded.
func Flatten(raw *vg.RawPath, m vg.Mat2D, tolerance float32) []Contour {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var (
		out []Contour
		cur *Contour
	)
	finish := func() {
		if cur != nil && len(cur.Points) >= 2 {
			out = append(out, *cur)
		}
		cur = nil
	}
	add := func(p vg.Vec2) {
		if cur == nil {
			cur = &Contour{}
		}
		if n := len(cur.Points); n > 0 && cur.Points[n-1] == p {
			return
		}
		cur.Points = append(cur.Points, p)
	}

	raw.Iterate(func(v vg.Verb, from vg.Vec2, pts []vg.Vec2) {
		switch v {
		case vg.VerbMove:
			finish()
			add(m.Apply(pts[0]))
		case vg.VerbLine:
			if cur == nil {
				add(m.Apply(from))
			}
			add(m.Apply(pts[0]))
		case vg.VerbQuad:
			if cur == nil {
				add(m.Apply(from))
			}
			p0, p1, p2 := m.Apply(from), m.Apply(pts[0]), m.Apply(pts[1])
			n := quadSegments(p0, p1, p2, tolerance)
			for i := 1; i <= n; i++ {
				add(evalQuad(p0, p1, p2, float32(i)/float32(n)))
			}
		case vg.VerbCubic:
			if cur == nil {
				add(m.Apply(from))
			}
			p0, p1, p2, p3 := m.Apply(from), m.Apply(pts[0]), m.Apply(pts[1]), m.Apply(pts[2])
			n := cubicSegments(p0, p1, p2, p3, tolerance)
			for i := 1; i <= n; i++ {
				add(evalCubic(p0, p1, p2, p3, float32(i)/float32(n)))
			}
		case vg.VerbClose:
			if cur != nil {
				// A closing point equal to the start is implied by Closed.
				if n := len(cur.Points); n > 2 && cur.Points[n-1] == cur.Points[0] {
					cur.Points = cur.Points[:n-1]
				}
				cur.Closed = true
			}
			finish()
		}
	})
	finish()
	return out
}

// quadSegments uses Wang's formula to bound the flattening error.
func quadSegments(p0, p1, p2 vg.Vec2, tol float32) int {
	dd := p0.Sub(p1.Scale(2)).Add(p2).Length()
	return segmentCount(math32.Sqrt(dd / (4 * tol)))
}

func cubicSegments(p0, p1, p2, p3 vg.Vec2, tol float32) int {
	d1 := p0.Sub(p1.Scale(2)).Add(p2).Length()
	d2 := p1.Sub(p2.Scale(2)).Add(p3).Length()
	return segmentCount(math32.Sqrt(0.75 * math32.Max(d1, d2) / tol))
}

func segmentCount(f float32) int {
	n := int(math32.Ceil(f))
	if n < 1 {
		return 1
	}
	if n > maxCurveSegments {
		return maxCurveSegments
	}
	return n
}

func evalQuad(p0, p1, p2 vg.Vec2, t float32) vg.Vec2 {
	u := 1 - t
	return p0.Scale(u * u).Add(p1.Scale(2 * u * t)).Add(p2.Scale(t * t))
}

func evalCubic(p0, p1, p2, p3 vg.Vec2, t float32) vg.Vec2 {
	u := 1 - t
	return p0.Scale(u * u * u).
		Add(p1.Scale(3 * u * u * t)).
		Add(p2.Scale(3 * u * t * t)).
		Add(p3.Scale(t * t * t))
}
