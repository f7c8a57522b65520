package bundle

import (
	"fmt"
	"strconv"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

// ParsePathData appends SVG path data to p. It supports M, L, H, V, C, S,
// Q, T and Z in absolute and relative form, with implicit repetition of
// the previous command. Arcs are rejected.
func ParsePathData(d string, p *vg.RawPath) error {
	sc := pathScanner{s: d}
	var cur, start, ctrl vg.Vec2
	var prev byte

	for {
		sc.skipSeparators()
		if sc.done() {
			return nil
		}
		at := sc.i
		c := sc.s[sc.i]
		sc.i++
		cmd, rel := c, false
		if c >= 'a' && c <= 'z' {
			cmd, rel = c-'a'+'A', true
		}
		if cmd == 'Z' {
			p.Close()
			cur = start
			prev = 'Z'
			continue
		}
		if !isPathCommand(cmd) {
			return fmt.Errorf("offset %d: unsupported path command %q", at, c)
		}
		if prev == 'Z' && cmd != 'M' {
			p.MoveTo(start.X, start.Y)
		}

		for n := 0; n == 0 || sc.more(); n++ {
			var origin vg.Vec2
			if rel {
				origin = cur
			}
			args, err := sc.numbers(argCount[cmd])
			if err != nil {
				return fmt.Errorf("offset %d: %c: %w", at, c, err)
			}
			pt := func(i int) vg.Vec2 {
				return vg.Vec2{X: args[i], Y: args[i+1]}.Add(origin)
			}

			switch cmd {
			case 'M':
				cur = pt(0)
				if n == 0 {
					p.MoveTo(cur.X, cur.Y)
					start = cur
				} else {
					p.LineTo(cur.X, cur.Y)
				}
			case 'L':
				cur = pt(0)
				p.LineTo(cur.X, cur.Y)
			case 'H':
				cur.X = args[0] + origin.X
				p.LineTo(cur.X, cur.Y)
			case 'V':
				cur.Y = args[0] + origin.Y
				p.LineTo(cur.X, cur.Y)
			case 'C':
				c1, c2, end := pt(0), pt(2), pt(4)
				p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
				ctrl, cur = c2, end
			case 'S':
				c1 := cur
				if prev == 'C' || prev == 'S' {
					c1 = reflectPoint(cur, ctrl)
				}
				c2, end := pt(0), pt(2)
				p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
				ctrl, cur = c2, end
			case 'Q':
				c1, end := pt(0), pt(2)
				p.QuadTo(c1.X, c1.Y, end.X, end.Y)
				ctrl, cur = c1, end
			case 'T':
				c1 := cur
				if prev == 'Q' || prev == 'T' {
					c1 = reflectPoint(cur, ctrl)
				}
				end := pt(0)
				p.QuadTo(c1.X, c1.Y, end.X, end.Y)
				ctrl, cur = c1, end
			}
			prev = cmd
		}
	}
}

var argCount = map[byte]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2}

func isPathCommand(c byte) bool {
	_, ok := argCount[c]
	return ok
}

// reflectPoint mirrors ctrl through p.
func reflectPoint(p, ctrl vg.Vec2) vg.Vec2 {
	return vg.Vec2{X: 2*p.X - ctrl.X, Y: 2*p.Y - ctrl.Y}
}

// pathScanner tokenizes path data. Numbers may be separated by
// whitespace, commas, a sign or a second decimal point ("1.5.5").
type pathScanner struct {
	s string
	i int
}

func (sc *pathScanner) done() bool { return sc.i >= len(sc.s) }

func (sc *pathScanner) skipSeparators() {
	for !sc.done() {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

// more reports whether the next token is a number.
func (sc *pathScanner) more() bool {
	sc.skipSeparators()
	if sc.done() {
		return false
	}
	c := sc.s[sc.i]
	return c == '-' || c == '+' || c == '.' || isDigit(c)
}

func (sc *pathScanner) numbers(n int) ([]float32, error) {
	out := make([]float32, n)
	for k := range out {
		if !sc.more() {
			return nil, fmt.Errorf("expected %d numbers, got %d", n, k)
		}
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (sc *pathScanner) number() (float32, error) {
	begin := sc.i
	if c := sc.s[sc.i]; c == '-' || c == '+' {
		sc.i++
	}
	sc.digits()
	if !sc.done() && sc.s[sc.i] == '.' {
		sc.i++
		sc.digits()
	}
	if !sc.done() && (sc.s[sc.i] == 'e' || sc.s[sc.i] == 'E') {
		mark := sc.i
		sc.i++
		if !sc.done() && (sc.s[sc.i] == '-' || sc.s[sc.i] == '+') {
			sc.i++
		}
		if sc.done() || !isDigit(sc.s[sc.i]) {
			sc.i = mark
		} else {
			sc.digits()
		}
	}
	v, err := strconv.ParseFloat(sc.s[begin:sc.i], 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", sc.s[begin:sc.i])
	}
	return float32(v), nil
}

func (sc *pathScanner) digits() {
	for !sc.done() && isDigit(sc.s[sc.i]) {
		sc.i++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
