package tess

import "github.com/opd-ai/go-tessplay/internal/vg"

// RendererBase keeps the save/restore transform stack shared by
// tessellating renderers. The zero value starts at the identity.
type RendererBase struct {
	transform vg.Mat2D
	stack     []vg.Mat2D
	init      bool
}

func (b *RendererBase) ensureInit() {
	if !b.init {
		b.transform = vg.Identity
		b.init = true
	}
}

// Save pushes the current transform.
func (b *RendererBase) Save() {
	b.ensureInit()
	b.stack = append(b.stack, b.transform)
}

// Restore pops the transform pushed by the matching Save. It reports
// false, leaving the transform untouched, when the stack is empty.
func (b *RendererBase) Restore() bool {
	if len(b.stack) == 0 {
		return false
	}
	b.transform = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return true
}

// Transform concatenates m onto the current transform; m is applied to
// geometry before the existing transform.
func (b *RendererBase) Transform(m vg.Mat2D) {
	b.ensureInit()
	b.transform = b.transform.Mul(m)
}

// CurrentTransform returns the transform applied to geometry drawn now.
func (b *RendererBase) CurrentTransform() vg.Mat2D {
	b.ensureInit()
	return b.transform
}

// SaveDepth returns the number of unmatched Save calls.
func (b *RendererBase) SaveDepth() int { return len(b.stack) }

// ResetTransform clears the stack and returns to the identity.
func (b *RendererBase) ResetTransform() {
	b.transform = vg.Identity
	b.init = true
	b.stack = b.stack[:0]
}
