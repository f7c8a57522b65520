package bundle

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

type paintKind int

const (
	paintSolid paintKind = iota
	paintLinear
	paintRadial
)

// shapePaint owns a RenderPaint and re-derives its color or shader when
// the shape's opacity changes.
type shapePaint struct {
	paint vg.RenderPaint
	kind  paintKind
	color vg.ColorInt

	start, end vg.Vec2 // linear, or center and (radius, 0) for radial
	colors     []vg.ColorInt
	stops      []float32

	thickness        float32
	initialThickness float32
	opacity          float32
}

func newShapePaint(factory vg.Factory, doc PaintDoc, style vg.PaintStyle) (*shapePaint, error) {
	p := &shapePaint{opacity: -1}
	var err error

	switch {
	case doc.Linear != nil:
		p.kind = paintLinear
		if p.start, err = point(doc.Linear.Start, "start"); err != nil {
			return nil, err
		}
		if p.end, err = point(doc.Linear.End, "end"); err != nil {
			return nil, err
		}
		if p.colors, p.stops, err = parseStops(doc.Linear.Stops); err != nil {
			return nil, err
		}
	case doc.Radial != nil:
		p.kind = paintRadial
		if p.start, err = point(doc.Radial.Center, "center"); err != nil {
			return nil, err
		}
		p.end = vg.Vec2{X: doc.Radial.Radius}
		if p.colors, p.stops, err = parseStops(doc.Radial.Stops); err != nil {
			return nil, err
		}
	default:
		if doc.Color == "" {
			return nil, errors.New("paint needs a color, linear or radial")
		}
		if p.color, err = vg.ParseColor(doc.Color); err != nil {
			return nil, err
		}
	}

	blend, err := vg.ParseBlendMode(doc.Blend)
	if err != nil {
		return nil, err
	}
	join, strokeCap := vg.StrokeJoinMiter, vg.StrokeCapButt
	if style == vg.PaintStyleStroke {
		if doc.Join != "" {
			if join, err = vg.ParseStrokeJoin(doc.Join); err != nil {
				return nil, err
			}
		}
		if doc.Cap != "" {
			if strokeCap, err = vg.ParseStrokeCap(doc.Cap); err != nil {
				return nil, err
			}
		}
		p.thickness = doc.Thickness
		if p.thickness == 0 {
			p.thickness = 1
		}
		p.initialThickness = p.thickness
	}

	p.paint = factory.MakeRenderPaint()
	if p.paint == nil {
		return p, nil
	}
	p.paint.Style(style)
	p.paint.BlendMode(blend)
	if style == vg.PaintStyleStroke {
		p.paint.Thickness(p.thickness)
		p.paint.Join(join)
		p.paint.Cap(strokeCap)
	}
	return p, nil
}

func point(v []float32, name string) (vg.Vec2, error) {
	if len(v) != 2 {
		return vg.Vec2{}, fmt.Errorf("gradient %s needs 2 coordinates, got %d", name, len(v))
	}
	return vg.Vec2{X: v[0], Y: v[1]}, nil
}

func parseStops(docs []StopDoc) ([]vg.ColorInt, []float32, error) {
	if len(docs) == 0 {
		return nil, nil, errors.New("gradient needs at least one stop")
	}
	colors := make([]vg.ColorInt, len(docs))
	stops := make([]float32, len(docs))
	for i, s := range docs {
		c, err := vg.ParseColor(s.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("stop %d: %w", i, err)
		}
		colors[i], stops[i] = c, s.Position
	}
	return colors, stops, nil
}

func (p *shapePaint) setOpacity(factory vg.Factory, o float32) {
	if p.paint == nil || o == p.opacity {
		return
	}
	p.opacity = o
	if p.kind == paintSolid {
		p.paint.Color(p.color.WithOpacity(o))
		return
	}

	colors := make([]vg.ColorInt, len(p.colors))
	for i, c := range p.colors {
		colors[i] = c.WithOpacity(o)
	}
	var shader vg.RenderShader
	if p.kind == paintLinear {
		shader = factory.MakeLinearGradient(p.start.X, p.start.Y, p.end.X, p.end.Y, colors, p.stops)
	} else {
		shader = factory.MakeRadialGradient(p.start.X, p.start.Y, p.end.X, colors, p.stops)
	}
	if shader == nil {
		// Renderers without gradients get the first stop.
		p.paint.Shader(nil)
		p.paint.Color(colors[0])
		return
	}
	p.paint.Shader(shader)
}

func (p *shapePaint) setThickness(v float32) {
	if v == p.thickness {
		return
	}
	p.thickness = v
	if p.paint != nil {
		p.paint.Thickness(v)
		p.paint.InvalidateStroke()
	}
}
