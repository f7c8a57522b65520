package vg

// Verb is a path construction command.
type Verb uint8

const (
	// VerbMove starts a new contour at one point.
	VerbMove Verb = iota
	// VerbLine adds a straight segment to one point.
	VerbLine
	// VerbQuad adds a quadratic Bézier through one control point.
	VerbQuad
	// VerbCubic adds a cubic Bézier through two control points.
	VerbCubic
	// VerbClose closes the current contour.
	VerbClose
)

// pointCount is the number of points each verb consumes.
var pointCount = [...]int{VerbMove: 1, VerbLine: 1, VerbQuad: 2, VerbCubic: 3, VerbClose: 0}

// Points returns how many points v consumes from a RawPath.
func (v Verb) Points() int { return pointCount[v] }

// kappa is the cubic control distance used to approximate a quarter circle.
const kappa = 0.5522847498

// RawPath is an untransformed sequence of path verbs and their points.
// The zero value is an empty path ready for use.
type RawPath struct {
	Verbs  []Verb
	Points []Vec2
}

// IsEmpty reports whether the path has no verbs.
func (p *RawPath) IsEmpty() bool { return len(p.Verbs) == 0 }

// Rewind removes every verb and point, keeping the backing storage.
func (p *RawPath) Rewind() {
	p.Verbs = p.Verbs[:0]
	p.Points = p.Points[:0]
}

// MoveTo starts a new contour.
func (p *RawPath) MoveTo(x, y float32) {
	p.Verbs = append(p.Verbs, VerbMove)
	p.Points = append(p.Points, Vec2{x, y})
}

// LineTo adds a straight segment.
func (p *RawPath) LineTo(x, y float32) {
	p.Verbs = append(p.Verbs, VerbLine)
	p.Points = append(p.Points, Vec2{x, y})
}

// QuadTo adds a quadratic Bézier segment.
func (p *RawPath) QuadTo(cx, cy, x, y float32) {
	p.Verbs = append(p.Verbs, VerbQuad)
	p.Points = append(p.Points, Vec2{cx, cy}, Vec2{x, y})
}

// CubicTo adds a cubic Bézier segment.
func (p *RawPath) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	p.Verbs = append(p.Verbs, VerbCubic)
	p.Points = append(p.Points, Vec2{c1x, c1y}, Vec2{c2x, c2y}, Vec2{x, y})
}

// Close closes the current contour.
func (p *RawPath) Close() {
	p.Verbs = append(p.Verbs, VerbClose)
}

// AddRect appends a closed axis-aligned rectangle.
func (p *RawPath) AddRect(x, y, w, h float32) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// AddEllipse appends a closed ellipse inscribed in the given box, built
// from four cubic segments.
func (p *RawPath) AddEllipse(x, y, w, h float32) {
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.Close()
}

// AddPath appends every verb of o, transformed by m.
func (p *RawPath) AddPath(o *RawPath, m Mat2D) {
	p.Verbs = append(p.Verbs, o.Verbs...)
	for _, pt := range o.Points {
		p.Points = append(p.Points, m.Apply(pt))
	}
}

// Clone returns a deep copy of p.
func (p *RawPath) Clone() RawPath {
	return RawPath{
		Verbs:  append([]Verb(nil), p.Verbs...),
		Points: append([]Vec2(nil), p.Points...),
	}
}

// Bounds returns the bounding box of every point, control points
// included.
func (p *RawPath) Bounds() AABB { return BoundsOf(p.Points) }

// Iterate calls fn for every verb with the points it consumes. For
// VerbClose pts is empty. For every verb except VerbMove, from is the
// current point before the verb.
func (p *RawPath) Iterate(fn func(v Verb, from Vec2, pts []Vec2)) {
	var cur, start Vec2
	i := 0
	for _, v := range p.Verbs {
		n := v.Points()
		if i+n > len(p.Points) {
			return
		}
		pts := p.Points[i : i+n]
		fn(v, cur, pts)
		switch v {
		case VerbMove:
			start = pts[0]
			cur = pts[0]
		case VerbClose:
			cur = start
		default:
			cur = pts[n-1]
		}
		i += n
	}
}
