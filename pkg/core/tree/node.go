package tree

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync/atomic"

	"github.com/matzehuels/treemap/pkg/errors"
)

var (
	nextID           atomic.Int64
	allowNonPositive atomic.Bool
)

// SetAllowNonPositiveWeight toggles the process-wide weight policy. When
// enabled, zero, negative and NaN weights are passed to the layout unchanged
// instead of falling back to the node's real weight.
func SetAllowNonPositiveWeight(allow bool) { allowNonPositive.Store(allow) }

// AllowNonPositiveWeight reports the current weight policy.
func AllowNonPositiveWeight() bool { return allowNonPositive.Load() }

// Node is a weighted tree node.
//
// Nodes are not safe for concurrent mutation. Layout writes rectangles,
// colors and child order in place, so callers sharing a tree across
// goroutines must serialize access.
type Node struct {
	id         int64
	label      string
	realWeight float64

	weight    float64
	hasWeight bool

	scaled float64 // weight rescaled to layout area by the last layout pass

	rect    Rect
	hasRect bool

	color    Color
	hasColor bool

	parent   *Node
	children []*Node
	info     map[string]string
}

// NewNode creates a node with the given label and real weight.
func NewNode(label string, realWeight float64) *Node {
	return &Node{
		id:         nextID.Add(1),
		label:      label,
		realWeight: realWeight,
	}
}

// ID returns the process-unique id assigned at construction.
func (n *Node) ID() int64 { return n.id }

// Label returns the display label.
func (n *Node) Label() string { return n.label }

// SetLabel replaces the display label.
func (n *Node) SetLabel(label string) { n.label = label }

// =============================================================================
// Weights
// =============================================================================

// RealWeight returns the author-assigned size.
func (n *Node) RealWeight() float64 { return n.realWeight }

// SetRealWeight replaces the author-assigned size.
func (n *Node) SetRealWeight(w float64) { n.realWeight = w }

// Weight returns the effective weight used by layout.
//
// Without an override this is the real weight. Unless
// [AllowNonPositiveWeight] is set, a zero, negative or NaN value falls back
// to the real weight, and a real weight that is itself unusable counts as 0.
func (n *Node) Weight() float64 {
	w := n.realWeight
	if n.hasWeight {
		w = n.weight
	}
	if AllowNonPositiveWeight() {
		return w
	}
	if w <= 0 || math.IsNaN(w) {
		w = n.realWeight
	}
	if w < 0 || math.IsNaN(w) {
		return 0
	}
	return w
}

// SetWeight sets a transient override of the effective weight.
func (n *Node) SetWeight(w float64) {
	n.weight = w
	n.hasWeight = true
}

// ClearWeight drops the override set by SetWeight.
func (n *Node) ClearWeight() {
	n.weight = 0
	n.hasWeight = false
}

// ScaledWeight returns the weight rescaled to layout area by the most recent
// squarify pass over this node's sibling group.
func (n *Node) ScaledWeight() float64 { return n.scaled }

// SetScaledWeight records the rescaled weight. It is written by the layout.
func (n *Node) SetScaledWeight(a float64) { n.scaled = a }

// =============================================================================
// Geometry
// =============================================================================

// Rect returns the rectangle assigned by the last layout pass.
// It fails with [errors.ErrCodeNotLaidOut] if no layout has run.
func (n *Node) Rect() (Rect, error) {
	if !n.hasRect {
		return Rect{}, errors.New(errors.ErrCodeNotLaidOut, "node %d (%q) has not been laid out", n.id, n.label)
	}
	return n.rect, nil
}

// HasRect reports whether a rectangle has been assigned.
func (n *Node) HasRect() bool { return n.hasRect }

// SetRect assigns the node's rectangle.
func (n *Node) SetRect(r Rect) {
	n.rect = r
	n.hasRect = true
}

// ClearRect removes the rectangle so the node reads as not laid out.
func (n *Node) ClearRect() {
	n.rect = Rect{}
	n.hasRect = false
}

// IsDrawable reports whether the node has a rectangle at least one unit on
// each side.
func (n *Node) IsDrawable() bool { return n.hasRect && n.rect.Drawable() }

// =============================================================================
// Color
// =============================================================================

// Color returns the assigned color and whether one is set.
func (n *Node) Color() (Color, bool) { return n.color, n.hasColor }

// SetColor assigns an explicit color.
func (n *Node) SetColor(c Color) {
	n.color = c
	n.hasColor = true
}

// ClearColor removes the color.
func (n *Node) ClearColor() {
	n.color = Color{}
	n.hasColor = false
}

// NextColor returns the palette color that follows this node's color.
func (n *Node) NextColor() Color { return NextColor(n.Color()) }

// =============================================================================
// Structure
// =============================================================================

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered children. The slice is owned by the node and
// must not be modified; use SetChildren.
func (n *Node) Children() []*Node { return n.children }

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// SetChildren replaces the children, re-parenting every member. Nil entries
// are skipped. A child that belonged to another parent is removed from that
// parent's list, and previous children that are not in the new list lose
// their parent reference.
func (n *Node) SetChildren(children []*Node) {
	next := make([]*Node, 0, len(children))
	keep := make(map[*Node]bool, len(children))
	for _, c := range children {
		if c == nil || keep[c] {
			continue
		}
		keep[c] = true
		next = append(next, c)
	}
	for _, old := range n.children {
		if !keep[old] {
			old.parent = nil
		}
	}
	for _, c := range next {
		if c.parent != nil && c.parent != n {
			c.parent.detach(c)
		}
		c.parent = n
	}
	n.children = next
}

// AddChild appends c, moving it away from any previous parent.
func (n *Node) AddChild(c *Node) {
	if c == nil {
		return
	}
	if c.parent == n {
		return
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c if it is a direct child.
func (n *Node) RemoveChild(c *Node) {
	if c == nil || c.parent != n {
		return
	}
	n.detach(c)
	c.parent = nil
}

func (n *Node) detach(c *Node) {
	n.children = slices.DeleteFunc(slices.Clone(n.children), func(o *Node) bool { return o == c })
}

// Child returns the direct child with the given label, or nil.
func (n *Node) Child(label string) *Node {
	for _, c := range n.children {
		if c.label == label {
			return c
		}
	}
	return nil
}

// Depth returns the number of edges to the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Root returns the top of the parent chain.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Ancestors returns n followed by each ancestor up to the root, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for c := n; c != nil; c = c.parent {
		out = append(out, c)
	}
	return out
}

// IsAncestorOf reports whether n lies on d's parent chain or is d itself.
func (n *Node) IsAncestorOf(d *Node) bool {
	for c := d; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FindByLabel returns the first node in depth-first order whose label
// matches, starting with n itself.
func (n *Node) FindByLabel(label string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.label == label {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindByID returns the node with the given id in n's subtree, or nil.
func (n *Node) FindByID(id int64) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.id == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in n's subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// =============================================================================
// Annotations
// =============================================================================

// Info returns the annotation stored under key.
func (n *Node) Info(key string) (string, bool) {
	v, ok := n.info[key]
	return v, ok
}

// SetInfo stores an annotation, replacing any previous value for key.
func (n *Node) SetInfo(key, value string) {
	if n.info == nil {
		n.info = make(map[string]string)
	}
	n.info[key] = value
}

// InfoKeys returns the annotation keys in sorted order.
func (n *Node) InfoKeys() []string {
	return slices.Sorted(maps.Keys(n.info))
}

// Infos returns a copy of all annotations.
func (n *Node) Infos() map[string]string {
	return maps.Clone(n.info)
}

func (n *Node) String() string {
	rect := "<none>"
	if n.hasRect {
		rect = n.rect.String()
	}
	return fmt.Sprintf("Node[label=%s; weight=%g; rect=%s]", n.label, n.Weight(), rect)
}

// =============================================================================
// Helpers
// =============================================================================

// SortByWeight sorts nodes by descending effective weight. Equal weights keep
// their input order.
func SortByWeight(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		return cmp.Compare(b.Weight(), a.Weight())
	})
}

// FillWeights sets the real weight of every interior node to the sum of its
// children's real weights, bottom-up, and returns the root's total.
func FillWeights(n *Node) float64 {
	if len(n.children) == 0 {
		return n.realWeight
	}
	var sum float64
	for _, c := range n.children {
		sum += FillWeights(c)
	}
	n.realWeight = sum
	return sum
}
