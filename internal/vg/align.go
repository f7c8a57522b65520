package vg

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Fit controls how content is scaled into a frame.
type Fit int

const (
	// FitFill stretches content to the frame on both axes.
	FitFill Fit = iota
	// FitContain scales content uniformly until it fits inside the frame.
	FitContain
	// FitCover scales content uniformly until it covers the frame.
	FitCover
	// FitWidth scales content uniformly to the frame width.
	FitWidth
	// FitHeight scales content uniformly to the frame height.
	FitHeight
	// FitNone leaves content at its natural size.
	FitNone
	// FitScaleDown behaves like FitContain but never enlarges.
	FitScaleDown
)

var fitNames = []string{"fill", "contain", "cover", "fitWidth", "fitHeight", "none", "scaleDown"}

// String implements fmt.Stringer.
func (f Fit) String() string {
	if f < 0 || int(f) >= len(fitNames) {
		return fmt.Sprintf("Fit(%d)", int(f))
	}
	return fitNames[f]
}

// ParseFit converts a fit name ("contain", "fit_width", ...) to a Fit.
func ParseFit(s string) (Fit, error) {
	n := normalizeName(s)
	for i, name := range fitNames {
		if normalizeName(name) == n {
			return Fit(i), nil
		}
	}
	switch n {
	case "width":
		return FitWidth, nil
	case "height":
		return FitHeight, nil
	}
	return FitContain, fmt.Errorf("unknown fit: %q", s)
}

// Alignment positions content within a frame. X and Y range from -1
// (left/top) to 1 (right/bottom).
type Alignment struct {
	X, Y float32
}

// Alignment presets.
var (
	AlignTopLeft      = Alignment{-1, -1}
	AlignTopCenter    = Alignment{0, -1}
	AlignTopRight     = Alignment{1, -1}
	AlignCenterLeft   = Alignment{-1, 0}
	AlignCenter       = Alignment{0, 0}
	AlignCenterRight  = Alignment{1, 0}
	AlignBottomLeft   = Alignment{-1, 1}
	AlignBottomCenter = Alignment{0, 1}
	AlignBottomRight  = Alignment{1, 1}
)

var alignmentNames = map[string]Alignment{
	"topleft":      AlignTopLeft,
	"topcenter":    AlignTopCenter,
	"topright":     AlignTopRight,
	"centerleft":   AlignCenterLeft,
	"center":       AlignCenter,
	"centerright":  AlignCenterRight,
	"bottomleft":   AlignBottomLeft,
	"bottomcenter": AlignBottomCenter,
	"bottomright":  AlignBottomRight,
}

// ParseAlignment converts a preset name ("center", "top_left", ...) to an
// Alignment.
func ParseAlignment(s string) (Alignment, error) {
	if a, ok := alignmentNames[normalizeName(s)]; ok {
		return a, nil
	}
	return AlignCenter, fmt.Errorf("unknown alignment: %q", s)
}

// ComputeAlignment returns the transform that maps content into frame
// according to fit and alignment.
func ComputeAlignment(fit Fit, alignment Alignment, frame, content AABB) Mat2D {
	cw, ch := content.Width(), content.Height()
	fw, fh := frame.Width(), frame.Height()
	if cw == 0 || ch == 0 {
		return Identity
	}

	x := -content.MinX - cw/2 - alignment.X*cw/2
	y := -content.MinY - ch/2 - alignment.Y*ch/2

	sx, sy := float32(1), float32(1)
	switch fit {
	case FitFill:
		sx, sy = fw/cw, fh/ch
	case FitContain:
		s := math32.Min(fw/cw, fh/ch)
		sx, sy = s, s
	case FitCover:
		s := math32.Max(fw/cw, fh/ch)
		sx, sy = s, s
	case FitHeight:
		sx, sy = fh/ch, fh/ch
	case FitWidth:
		sx, sy = fw/cw, fw/cw
	case FitScaleDown:
		s := math32.Min(fw/cw, fh/ch)
		if s > 1 {
			s = 1
		}
		sx, sy = s, s
	}

	tx := frame.MinX + fw/2 + alignment.X*fw/2
	ty := frame.MinY + fh/2 + alignment.Y*fh/2
	return NewTranslate(tx, ty).Mul(NewScale(sx, sy)).Mul(NewTranslate(x, y))
}
