package vg

import (
	"fmt"
	"strings"
)

// PaintStyle selects whether a paint fills or strokes a path.
type PaintStyle int

const (
	// PaintStyleFill fills the interior of a path.
	PaintStyleFill PaintStyle = iota
	// PaintStyleStroke outlines a path.
	PaintStyleStroke
)

// String implements fmt.Stringer.
func (s PaintStyle) String() string {
	if s == PaintStyleStroke {
		return "stroke"
	}
	return "fill"
}

// StrokeJoin is the shape drawn where two stroked segments meet.
type StrokeJoin int

const (
	// StrokeJoinMiter extends the outer edges until they meet.
	StrokeJoinMiter StrokeJoin = iota
	// StrokeJoinRound rounds the corner with an arc.
	StrokeJoinRound
	// StrokeJoinBevel cuts the corner with a straight edge.
	StrokeJoinBevel
)

var strokeJoinNames = map[string]StrokeJoin{
	"miter": StrokeJoinMiter,
	"round": StrokeJoinRound,
	"bevel": StrokeJoinBevel,
}

// String implements fmt.Stringer.
func (j StrokeJoin) String() string {
	switch j {
	case StrokeJoinRound:
		return "round"
	case StrokeJoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

// ParseStrokeJoin converts a join name to a StrokeJoin.
func ParseStrokeJoin(s string) (StrokeJoin, error) {
	if j, ok := strokeJoinNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return j, nil
	}
	return StrokeJoinMiter, fmt.Errorf("unknown stroke join: %q", s)
}

// StrokeCap is the shape drawn at the open ends of a stroked contour.
type StrokeCap int

const (
	// StrokeCapButt ends the stroke flush with the endpoint.
	StrokeCapButt StrokeCap = iota
	// StrokeCapRound ends the stroke with a half disc.
	StrokeCapRound
	// StrokeCapSquare ends the stroke with a half square.
	StrokeCapSquare
)

var strokeCapNames = map[string]StrokeCap{
	"butt":   StrokeCapButt,
	"round":  StrokeCapRound,
	"square": StrokeCapSquare,
}

// String implements fmt.Stringer.
func (c StrokeCap) String() string {
	switch c {
	case StrokeCapRound:
		return "round"
	case StrokeCapSquare:
		return "square"
	default:
		return "butt"
	}
}

// ParseStrokeCap converts a cap name to a StrokeCap.
func ParseStrokeCap(s string) (StrokeCap, error) {
	if c, ok := strokeCapNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return StrokeCapButt, fmt.Errorf("unknown stroke cap: %q", s)
}

// FillRule decides which regions of a self-overlapping path are inside.
type FillRule int

const (
	// FillRuleNonZero treats a point as inside when the winding number is
	// non-zero.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd treats a point as inside when the winding number is
	// odd.
	FillRuleEvenOdd
)

// String implements fmt.Stringer.
func (r FillRule) String() string {
	if r == FillRuleEvenOdd {
		return "evenOdd"
	}
	return "nonZero"
}

// ParseFillRule converts "nonZero" / "evenOdd" (any case, dashes and
// underscores ignored) to a FillRule.
func ParseFillRule(s string) (FillRule, error) {
	switch normalizeName(s) {
	case "", "nonzero":
		return FillRuleNonZero, nil
	case "evenodd":
		return FillRuleEvenOdd, nil
	}
	return FillRuleNonZero, fmt.Errorf("unknown fill rule: %q", s)
}

// BlendMode is the compositing mode requested by a paint. Renderers are
// free to track it without applying it.
type BlendMode int

// Blend modes, in the order used by the animation file format.
const (
	BlendModeSrcOver BlendMode = iota
	BlendModeScreen
	BlendModeOverlay
	BlendModeDarken
	BlendModeLighten
	BlendModeColorDodge
	BlendModeColorBurn
	BlendModeHardLight
	BlendModeSoftLight
	BlendModeDifference
	BlendModeExclusion
	BlendModeMultiply
	BlendModeHue
	BlendModeSaturation
	BlendModeColor
	BlendModeLuminosity
)

var blendModeNames = []string{
	"srcOver", "screen", "overlay", "darken", "lighten", "colorDodge",
	"colorBurn", "hardLight", "softLight", "difference", "exclusion",
	"multiply", "hue", "saturation", "color", "luminosity",
}

// String implements fmt.Stringer.
func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendModeNames) {
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
	return blendModeNames[m]
}

// ParseBlendMode converts a blend mode name to a BlendMode. The empty
// string is srcOver.
func ParseBlendMode(s string) (BlendMode, error) {
	n := normalizeName(s)
	if n == "" || n == "normal" {
		return BlendModeSrcOver, nil
	}
	for i, name := range blendModeNames {
		if strings.ToLower(name) == n {
			return BlendMode(i), nil
		}
	}
	return BlendModeSrcOver, fmt.Errorf("unknown blend mode: %q", s)
}

// normalizeName lowercases s and drops separators so "even_odd",
// "even-odd" and "evenOdd" compare equal.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
