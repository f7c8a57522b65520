package tess

import (
	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// MiterLimit is the largest miter length, in multiples of half the stroke
// width, before a miter join falls back to a bevel.
const MiterLimit = 4

const maxRoundSteps = 64

// ContourStroke extrudes flattened contours into one triangle strip.
// Separate contours are joined by repeating the last vertex of one and
// the first vertex of the next, which only adds zero-area triangles.
type ContourStroke struct {
	strip      []vg.Vec2
	tolerance  float32
	needBridge bool
}

// NewContourStroke returns an empty stroke that tessellates round joins
// and caps within DefaultTolerance.
func NewContourStroke() *ContourStroke {
	return &ContourStroke{tolerance: DefaultTolerance}
}

// Reset empties the strip.
func (s *ContourStroke) Reset() {
	s.strip = s.strip[:0]
	s.needBridge = false
}

// TriangleStrip returns the strip built so far. Vertices i, i+1, i+2 form
// triangle i. The slice is reused by the next Reset.
func (s *ContourStroke) TriangleStrip() []vg.Vec2 { return s.strip }

// Extrude appends the outline of every contour, thickness wide.
func (s *ContourStroke) Extrude(contours []Contour, join vg.StrokeJoin, lineCap vg.StrokeCap, thickness float32) {
	if thickness <= 0 {
		return
	}
	if s.tolerance <= 0 {
		s.tolerance = DefaultTolerance
	}
	w := thickness / 2
	for _, c := range contours {
		if len(c.Points) < 2 {
			continue
		}
		s.needBridge = len(s.strip) > 0
		if c.Closed && len(c.Points) >= 3 {
			s.extrudeClosed(c.Points, join, w)
		} else {
			s.extrudeOpen(c.Points, join, lineCap, w)
		}
	}
}

func (s *ContourStroke) extrudeOpen(pts []vg.Vec2, join vg.StrokeJoin, lineCap vg.StrokeCap, w float32) {
	n := len(pts)
	s.startCap(pts[0], direction(pts[0], pts[1]), lineCap, w)
	for i := 1; i < n-1; i++ {
		s.join(pts[i], direction(pts[i-1], pts[i]), direction(pts[i], pts[i+1]), join, w)
	}
	s.endCap(pts[n-1], direction(pts[n-2], pts[n-1]), lineCap, w)
}

func (s *ContourStroke) extrudeClosed(pts []vg.Vec2, join vg.StrokeJoin, w float32) {
	n := len(pts)
	// The strip closes by repeating the first pair of the join at pts[0].
	start := len(s.strip)
	if s.needBridge {
		start += 2
	}
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		s.join(pts[i], direction(prev, pts[i]), direction(pts[i], next), join, w)
	}
	s.strip = append(s.strip, s.strip[start], s.strip[start+1])
}

func (s *ContourStroke) startCap(p, d vg.Vec2, lineCap vg.StrokeCap, w float32) {
	nrm := d.Perp()
	switch lineCap {
	case vg.StrokeCapSquare:
		q := p.Sub(d.Scale(w))
		s.emit(q.Add(nrm.Scale(w)), q.Sub(nrm.Scale(w)))
	case vg.StrokeCapRound:
		k := s.roundSteps(w, math32.Pi/2)
		for i := 0; i <= k; i++ {
			phi := math32.Pi / 2 * float32(i) / float32(k)
			a := d.Scale(-math32.Cos(phi) * w)
			b := nrm.Scale(math32.Sin(phi) * w)
			s.emit(p.Add(a).Add(b), p.Add(a).Sub(b))
		}
	default:
		s.emit(p.Add(nrm.Scale(w)), p.Sub(nrm.Scale(w)))
	}
}

func (s *ContourStroke) endCap(p, d vg.Vec2, lineCap vg.StrokeCap, w float32) {
	nrm := d.Perp()
	switch lineCap {
	case vg.StrokeCapSquare:
		q := p.Add(d.Scale(w))
		s.emit(q.Add(nrm.Scale(w)), q.Sub(nrm.Scale(w)))
	case vg.StrokeCapRound:
		k := s.roundSteps(w, math32.Pi/2)
		for i := k; i >= 0; i-- {
			phi := math32.Pi / 2 * float32(i) / float32(k)
			a := d.Scale(math32.Cos(phi) * w)
			b := nrm.Scale(math32.Sin(phi) * w)
			s.emit(p.Add(a).Add(b), p.Add(a).Sub(b))
		}
	default:
		s.emit(p.Add(nrm.Scale(w)), p.Sub(nrm.Scale(w)))
	}
}

func (s *ContourStroke) join(p, din, dout vg.Vec2, kind vg.StrokeJoin, w float32) {
	nin, nout := din.Perp(), dout.Perp()
	cross, dot := din.Cross(dout), din.Dot(dout)
	if math32.Abs(cross) < 1e-6 && dot > 0 {
		s.emit(p.Add(nin.Scale(w)), p.Sub(nin.Scale(w)))
		return
	}

	switch kind {
	case vg.StrokeJoinMiter:
		bisector := nin.Add(nout)
		if bisector.LengthSquared() > 1e-12 {
			m := bisector.Normalize()
			if cosHalf := m.Dot(nin); cosHalf > 0 && 1/cosHalf <= MiterLimit {
				l := w / cosHalf
				s.emit(p.Add(m.Scale(l)), p.Sub(m.Scale(l)))
				return
			}
		}
		s.bevel(p, nin, nout, w)
	case vg.StrokeJoinRound:
		theta := math32.Atan2(cross, dot)
		k := s.roundSteps(w, math32.Abs(theta))
		base := math32.Atan2(nin.Y, nin.X)
		for i := 0; i <= k; i++ {
			a := base + theta*float32(i)/float32(k)
			nn := vg.Vec2{X: math32.Cos(a), Y: math32.Sin(a)}
			s.emit(p.Add(nn.Scale(w)), p.Sub(nn.Scale(w)))
		}
	default:
		s.bevel(p, nin, nout, w)
	}
}

func (s *ContourStroke) bevel(p, nin, nout vg.Vec2, w float32) {
	s.emit(p.Add(nin.Scale(w)), p.Sub(nin.Scale(w)))
	s.emit(p.Add(nout.Scale(w)), p.Sub(nout.Scale(w)))
}

// emit appends a left/right vertex pair, bridging from the previous
// contour first when one is pending.
func (s *ContourStroke) emit(l, r vg.Vec2) {
	if s.needBridge {
		s.strip = append(s.strip, s.strip[len(s.strip)-1], l)
		s.needBridge = false
	}
	s.strip = append(s.strip, l, r)
}

// roundSteps returns how many segments approximate an arc of the given
// angle at radius r within the stroke tolerance.
func (s *ContourStroke) roundSteps(r, angle float32) int {
	if r <= s.tolerance || angle <= 0 {
		return 1
	}
	step := 2 * math32.Acos(1-s.tolerance/r)
	n := int(math32.Ceil(angle / step))
	if n < 1 {
		return 1
	}
	if n > maxRoundSteps {
		return maxRoundSteps
	}
	return n
}

func direction(from, to vg.Vec2) vg.Vec2 { return to.Sub(from).Normalize() }
