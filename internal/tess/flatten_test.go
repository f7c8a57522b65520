package tess

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-tessplay/internal/vg"
)

func TestFlattenLines(t *testing.T) {
	var raw vg.RawPath
	raw.AddRect(0, 0, 10, 10)
	raw.MoveTo(20, 20)
	raw.LineTo(30, 20)

	contours := Flatten(&raw, vg.NewTranslate(5, 0), 0)
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	if !contours[0].Closed || len(contours[0].Points) != 4 {
		t.Errorf("rect contour = %+v", contours[0])
	}
	if contours[0].Points[0] != (vg.Vec2{5, 0}) {
		t.Errorf("transform not applied: %v", contours[0].Points[0])
	}
	if contours[1].Closed || len(contours[1].Points) != 2 {
		t.Errorf("open contour = %+v", contours[1])
	}
}

func TestFlattenDropsDegenerate(t *testing.T) {
	var raw vg.RawPath
	raw.MoveTo(1, 1)
	raw.LineTo(1, 1)
	raw.MoveTo(5, 5)
	if got := Flatten(&raw, vg.Identity, 0); len(got) != 0 {
		t.Errorf("degenerate contours kept: %+v", got)
	}
}

func TestFlattenCurveTolerance(t *testing.T) {
	var raw vg.RawPath
	raw.AddEllipse(-50, -50, 100, 100)

	for _, tol := range []float32{1, 0.25, 0.05} {
		contours := Flatten(&raw, vg.Identity, tol)
		if len(contours) != 1 {
			t.Fatalf("tol %v: got %d contours", tol, len(contours))
		}
		pts := contours[0].Points
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			mid := a.Lerp(b, 0.5)
			// Chord midpoints sit inside the circle by at most the tolerance,
			// plus the cubic approximation's own error.
			if err := 50 - mid.Length(); err > tol+0.02 {
				t.Errorf("tol %v: chord %v-%v deviates by %v", tol, a, b, err)
			}
		}
	}

	coarse := Flatten(&raw, vg.Identity, 1)
	fine := Flatten(&raw, vg.Identity, 0.05)
	if len(fine[0].Points) <= len(coarse[0].Points) {
		t.Errorf("finer tolerance produced %d points, coarse %d", len(fine[0].Points), len(coarse[0].Points))
	}
}

func TestFlattenQuad(t *testing.T) {
	var raw vg.RawPath
	raw.MoveTo(0, 0)
	raw.QuadTo(50, 100, 100, 0)
	pts := Flatten(&raw, vg.Identity, 0.25)[0].Points
	last := pts[len(pts)-1]
	if last != (vg.Vec2{100, 0}) {
		t.Errorf("quad ends at %v", last)
	}
	// The apex of this quad is (50, 50).
	var maxY float32
	for _, p := range pts {
		maxY = math32.Max(maxY, p.Y)
	}
	if math32.Abs(maxY-50) > 0.5 {
		t.Errorf("quad apex y = %v, want ~50", maxY)
	}
}

func TestRendererBaseStack(t *testing.T) {
	var b RendererBase
	if b.CurrentTransform() != vg.Identity {
		t.Fatal("zero RendererBase should start at identity")
	}
	b.Save()
	b.Transform(vg.NewTranslate(10, 0))
	b.Save()
	b.Transform(vg.NewScale(2, 2))
	if got := b.CurrentTransform().Apply(vg.Vec2{1, 1}); got != (vg.Vec2{12, 2}) {
		t.Errorf("nested transform applied to (1,1) = %v", got)
	}
	if b.SaveDepth() != 2 {
		t.Errorf("SaveDepth() = %d, want 2", b.SaveDepth())
	}
	b.Restore()
	if b.CurrentTransform() != vg.NewTranslate(10, 0) {
		t.Errorf("after one Restore = %v", b.CurrentTransform())
	}
	b.Restore()
	if b.CurrentTransform() != vg.Identity {
		t.Errorf("after two Restores = %v", b.CurrentTransform())
	}
	if b.Restore() {
		t.Error("Restore() on empty stack reported success")
	}
	if b.CurrentTransform() != vg.Identity {
		t.Error("extra Restore() changed the transform")
	}

	b.Save()
	b.Transform(vg.NewScale(3, 3))
	b.ResetTransform()
	if b.SaveDepth() != 0 || b.CurrentTransform() != vg.Identity {
		t.Error("ResetTransform() did not clear state")
	}
}
