// Package scene is a small retained scene graph rendered with Ebiten.
//
// A tree of nodes carries affine transforms. DrawNode leaves accumulate
// coloured triangles, and ClippingNode subtrees are visible only where a
// stencil subtree is opaque. A Rasterizer walks the tree once per frame
// and issues Ebiten draw calls.
package scene

import "github.com/opd-ai/go-tessplay/internal/vg"

// Element is anything that can be placed in the tree. It is implemented
// by *Node and by every type that embeds Node.
type Element interface {
	node() *Node
}

// Node is a tree node with a local transform. The zero value is not
// usable; create nodes with NewNode.
type Node struct {
	parent    *Node
	self      Element
	children  []Element
	transform vg.Mat2D
	visible   bool
	name      string
}

// NewNode returns an empty, visible node with an identity transform.
func NewNode() *Node {
	n := &Node{}
	n.init(n)
	return n
}

func (n *Node) init(self Element) {
	n.self = self
	n.transform = vg.Identity
	n.visible = true
}

func (n *Node) node() *Node { return n }

// SetName labels the node for debugging.
func (n *Node) SetName(name string) { n.name = name }

// Name returns the label set by SetName.
func (n *Node) Name() string { return n.name }

// AddChild appends child, detaching it from any previous parent first.
func (n *Node) AddChild(child Element) {
	c := child.node()
	if c == n {
		return
	}
	if c.self == nil {
		c.self = child
	}
	c.RemoveFromParent()
	c.parent = n
	n.children = append(n.children, c.self)
}

// RemoveFromParent detaches the node. It is a no-op for detached nodes.
func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c.node() == n {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = nil
			p.children = p.children[:len(p.children)-1]
			break
		}
	}
	n.parent = nil
}

// RemoveAllChildren detaches every child.
func (n *Node) RemoveAllChildren() {
	for i, c := range n.children {
		c.node().parent = nil
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the node's children in draw order. The slice must not
// be modified.
func (n *Node) Children() []Element { return n.children }

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// SetTransform replaces the local transform.
func (n *Node) SetTransform(m vg.Mat2D) { n.transform = m }

// Transform returns the local transform.
func (n *Node) Transform() vg.Mat2D { return n.transform }

// WorldTransform returns the transform from this node's space to the
// root's parent space.
func (n *Node) WorldTransform() vg.Mat2D {
	m := n.transform
	for p := n.parent; p != nil; p = p.parent {
		m = p.transform.Mul(m)
	}
	return m
}

// SetVisible hides or shows the node and its subtree.
func (n *Node) SetVisible(v bool) { n.visible = v }

// Visible reports whether the node is drawn.
func (n *Node) Visible() bool { return n.visible }

// Walk calls fn for n and every descendant, depth first, parents before
// children. Returning false from fn skips that element's children.
func Walk(e Element, fn func(Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.node().children {
		Walk(c, fn)
	}
}
