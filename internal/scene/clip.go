package scene

// ClippingNode shows its children only where its stencil subtree has an
// alpha above the threshold. The stencil is positioned in the clipping
// node's own space and is never drawn directly.
type ClippingNode struct {
	Node
	stencil        Element
	alphaThreshold float32
}

// NewClippingNode returns a clipping node masked by stencil.
func NewClippingNode(stencil Element, alphaThreshold float32) *ClippingNode {
	c := &ClippingNode{stencil: stencil}
	c.Node.init(c)
	c.SetAlphaThreshold(alphaThreshold)
	return c
}

// Stencil returns the mask subtree.
func (c *ClippingNode) Stencil() Element { return c.stencil }

// SetStencil replaces the mask subtree.
func (c *ClippingNode) SetStencil(stencil Element) { c.stencil = stencil }

// AlphaThreshold returns the minimum stencil alpha that shows content.
func (c *ClippingNode) AlphaThreshold() float32 { return c.alphaThreshold }

// SetAlphaThreshold sets the minimum stencil alpha, clamped to [0, 1].
func (c *ClippingNode) SetAlphaThreshold(t float32) {
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	c.alphaThreshold = t
}
