package bundle

import (
	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// Property is an animatable shape property.
type Property int

const (
	PropertyX Property = iota
	PropertyY
	PropertyRotation
	PropertyScaleX
	PropertyScaleY
	PropertyOpacity
	PropertyThickness
)

var propertyNames = []string{"x", "y", "rotation", "scale_x", "scale_y", "opacity", "thickness"}

// String implements fmt.Stringer.
func (p Property) String() string {
	if p < 0 || int(p) >= len(propertyNames) {
		return "unknown"
	}
	return propertyNames[p]
}

// ParseProperty converts a property name to a Property.
func ParseProperty(s string) (Property, bool) {
	for i, name := range propertyNames {
		if name == s {
			return Property(i), true
		}
	}
	return 0, false
}

// transform is the animatable placement of a shape.
type transform struct {
	x, y, rotation, scaleX, scaleY, opacity float32
}

// Shape is a path drawn with fills and strokes. Fills are drawn before
// strokes, each in declaration order.
type Shape struct {
	name     string
	raw      vg.RawPath
	path     vg.RenderPath
	fills    []*shapePaint
	strokes  []*shapePaint
	initial  transform
	current  transform
	clip     *Shape
	clipPath vg.RenderPath
	clipRaw  vg.RawPath
	clipAt   vg.Mat2D
}

// Name returns the shape's name.
func (s *Shape) Name() string { return s.name }

// Transform returns translate * rotate * scale for the current properties.
func (s *Shape) Transform() vg.Mat2D {
	t := s.current
	return vg.NewTranslate(t.x, t.y).
		Mul(vg.NewRotate(t.rotation * math32.Pi / 180)).
		Mul(vg.NewScale(t.scaleX, t.scaleY))
}

// Bounds returns the artboard-space bounding box of the shape's path.
func (s *Shape) Bounds() vg.AABB {
	m := s.Transform()
	var b vg.AABB
	for i, pt := range s.raw.Points {
		p := m.Apply(pt)
		if i == 0 {
			b = vg.AABB{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			continue
		}
		b = b.Expand(p)
	}
	return b
}

// Contains reports whether the artboard-space point lies in the shape's
// bounds.
func (s *Shape) Contains(p vg.Vec2) bool {
	b := s.Bounds()
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Get returns the current value of prop.
func (s *Shape) Get(prop Property) float32 {
	t := &s.current
	switch prop {
	case PropertyX:
		return t.x
	case PropertyY:
		return t.y
	case PropertyRotation:
		return t.rotation
	case PropertyScaleX:
		return t.scaleX
	case PropertyScaleY:
		return t.scaleY
	case PropertyOpacity:
		return t.opacity
	case PropertyThickness:
		if len(s.strokes) > 0 {
			return s.strokes[0].thickness
		}
	}
	return 0
}

// Set changes prop. Thickness applies to every stroke.
func (s *Shape) Set(prop Property, v float32) {
	t := &s.current
	switch prop {
	case PropertyX:
		t.x = v
	case PropertyY:
		t.y = v
	case PropertyRotation:
		t.rotation = v
	case PropertyScaleX:
		t.scaleX = v
	case PropertyScaleY:
		t.scaleY = v
	case PropertyOpacity:
		t.opacity = v
	case PropertyThickness:
		for _, p := range s.strokes {
			p.setThickness(v)
		}
	}
}

func (s *Shape) reset() {
	s.current = s.initial
	for _, p := range s.strokes {
		p.setThickness(p.initialThickness)
	}
}

// update refreshes opacity-dependent paints and the baked clip path.
func (s *Shape) update(factory vg.Factory) {
	o := clampUnit(s.current.opacity)
	for _, p := range s.fills {
		p.setOpacity(factory, o)
	}
	for _, p := range s.strokes {
		p.setOpacity(factory, o)
	}
	if s.clip == nil || s.clipPath == nil {
		return
	}
	if m := s.clip.Transform(); m != s.clipAt || s.clipRaw.IsEmpty() {
		s.clipAt = m
		s.clipRaw.Rewind()
		s.clipRaw.AddPath(&s.clip.raw, m)
		s.clipPath.Rewind()
		s.clipPath.AddRawPath(&s.clipRaw)
	}
}

func (s *Shape) draw(r vg.Renderer) {
	if s.current.opacity <= 0 || s.path == nil {
		return
	}
	r.Save()
	if s.clipPath != nil {
		r.ClipPath(s.clipPath)
	}
	r.Transform(s.Transform())
	for _, p := range s.fills {
		if p.paint != nil {
			r.DrawPath(s.path, p.paint)
		}
	}
	for _, p := range s.strokes {
		if p.paint != nil && p.thickness > 0 {
			r.DrawPath(s.path, p.paint)
		}
	}
	r.Restore()
}

func clampUnit(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
