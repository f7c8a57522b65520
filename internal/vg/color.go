package vg

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ColorInt is a non-premultiplied 32-bit color packed as 0xAARRGGBB.
type ColorInt uint32

// ErrInvalidColor is returned by ParseColor for unparsable input.
var ErrInvalidColor = errors.New("invalid color")

// ColorARGB packs the four channels into a ColorInt.
func ColorARGB(a, r, g, b uint8) ColorInt {
	return ColorInt(a)<<24 | ColorInt(r)<<16 | ColorInt(g)<<8 | ColorInt(b)
}

// Alpha returns the alpha channel.
func (c ColorInt) Alpha() uint8 { return uint8(c >> 24) }

// Red returns the red channel.
func (c ColorInt) Red() uint8 { return uint8(c >> 16) }

// Green returns the green channel.
func (c ColorInt) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c ColorInt) Blue() uint8 { return uint8(c) }

// Opacity returns the alpha channel as a fraction in [0, 1].
func (c ColorInt) Opacity() float32 { return float32(c.Alpha()) / 255 }

// WithOpacity returns c with its alpha channel multiplied by o.
func (c ColorInt) WithOpacity(o float32) ColorInt {
	a := float32(c.Alpha()) * clamp01(o)
	return ColorARGB(toByte(a), c.Red(), c.Green(), c.Blue())
}

// RGBA converts c to a non-premultiplied color.RGBA.
func (c ColorInt) RGBA() color.RGBA {
	return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: c.Alpha()}
}

// String implements fmt.Stringer using #aarrggbb notation.
func (c ColorInt) String() string { return fmt.Sprintf("#%08x", uint32(c)) }

// ColorFromRGBA packs a non-premultiplied color.RGBA.
func ColorFromRGBA(c color.RGBA) ColorInt { return ColorARGB(c.A, c.R, c.G, c.B) }

// ColorLerp interpolates channel-wise between a and b. t is clamped to
// [0, 1].
func ColorLerp(a, b ColorInt, t float32) ColorInt {
	t = clamp01(t)
	lerp := func(x, y uint8) uint8 {
		return toByte(float32(x) + (float32(y)-float32(x))*t)
	}
	return ColorARGB(
		lerp(a.Alpha(), b.Alpha()),
		lerp(a.Red(), b.Red()),
		lerp(a.Green(), b.Green()),
		lerp(a.Blue(), b.Blue()),
	)
}

// ParseColor parses "#rgb", "#rrggbb", "#aarrggbb", "0xAARRGGBB" or an SVG
// color name such as "tomato". Names and hex digits are case-insensitive;
// "transparent" is fully transparent black.
func ParseColor(s string) (ColorInt, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}
	if s == "transparent" {
		return 0, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return ColorFromRGBA(c), nil
	}

	var hex string
	switch {
	case strings.HasPrefix(s, "#"):
		hex = s[1:]
	case strings.HasPrefix(s, "0x"):
		hex = s[2:]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		fallthrough
	case 6:
		hex = "ff" + hex
	case 8:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return ColorInt(v), nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toByte rounds v to the nearest integer in [0, 255].
func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
