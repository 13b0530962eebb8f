package layout

import (
	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Default padding between a node's rectangle and the area given to its
// children. The horizontal padding is applied on both sides; the vertical
// padding is applied on top and half of it at the bottom, leaving room for a
// label strip.
const (
	XPadding = 15
	YPadding = 20
)

// Processor lays out whole trees. The zero value is not usable; create one
// with NewProcessor.
type Processor struct {
	xPadding float64
	yPadding float64
}

// Option configures a Processor.
type Option func(*Processor)

// WithPadding overrides the default XPadding and YPadding.
func WithPadding(x, y float64) Option {
	return func(p *Processor) {
		p.xPadding = x
		p.yPadding = y
	}
}

// NewProcessor creates a processor with the default padding.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{xPadding: XPadding, yPadding: YPadding}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout lays out root and its subtree with the default processor.
func Layout(root *tree.Node, area tree.Rect) (*tree.Node, error) {
	return NewProcessor().Layout(root, area)
}

// Layout assigns area to root, colors root with [tree.StartColor] if it has
// no color, and recursively squarifies every drawable node's children into
// its padded rectangle. Children are reordered to placement order. Every
// uncolored child takes the palette color following its parent's.
//
// Layout mutates the tree in place and returns root.
func (p *Processor) Layout(root *tree.Node, area tree.Rect) (*tree.Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil root")
	}
	if !area.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid area %v", area)
	}

	root.SetRect(area)
	if _, ok := root.Color(); !ok {
		root.SetColor(tree.StartColor())
	}
	if err := p.process(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Processor) process(n *tree.Node) error {
	if !n.HasChildren() {
		return nil
	}
	rect, err := n.Rect()
	if err != nil {
		return err
	}
	sub := p.SubArea(rect)

	placed, err := Squarify(n.Children(), sub)
	if err != nil {
		return err
	}
	if len(placed) == 0 {
		placed = n.Children()
	}
	n.SetChildren(placed)

	next := n.NextColor()
	for _, c := range n.Children() {
		if _, ok := c.Color(); !ok {
			c.SetColor(next)
		}
		if c.IsDrawable() {
			if err := p.process(c); err != nil {
				return err
			}
			continue
		}
		clearBelow(c)
	}
	return nil
}

// SubArea returns the area available to the children of a node laid out in
// r. Sides shrink by the padding and are clamped at zero.
func (p *Processor) SubArea(r tree.Rect) tree.Rect {
	return tree.Rect{
		X:      r.X + p.xPadding,
		Y:      r.Y + p.yPadding,
		Width:  max(0, r.Width-2*p.xPadding),
		Height: max(0, r.Height-1.5*p.yPadding),
	}
}

// clearBelow removes stale rectangles from the descendants of a node that
// is too small to be recursed into.
func clearBelow(n *tree.Node) {
	for _, c := range n.Children() {
		c.Walk(func(d *tree.Node) bool {
			d.ClearRect()
			return true
		})
	}
}
