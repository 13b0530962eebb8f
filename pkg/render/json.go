package render

import (
	"encoding/json"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Layout is the flat export of a laid-out tree.
type Layout struct {
	Frame tree.Rect    `json:"frame"`
	Nodes []NodeLayout `json:"nodes"`
}

// NodeLayout is one laid-out node. ParentID is zero for the exported root.
type NodeLayout struct {
	ID         int64             `json:"id"`
	ParentID   int64             `json:"parent_id,omitempty"`
	Label      string            `json:"label"`
	Depth      int               `json:"depth"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Color      string            `json:"color,omitempty"`
	Weight     float64           `json:"weight"`
	RealWeight float64           `json:"real_weight"`
	Info       map[string]string `json:"info,omitempty"`
}

// JSONOption configures [RenderJSON] and [BuildLayout].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	maxDepth int
	compact  bool
}

// WithJSONMaxDepth omits nodes deeper than d below the exported root.
// Zero or less exports every level.
func WithJSONMaxDepth(d int) JSONOption { return func(r *jsonRenderer) { r.maxDepth = d } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// BuildLayout collects every node under root that carries a rectangle, in
// depth-first order with parents before children. A node without a
// rectangle ends its branch.
func BuildLayout(root *tree.Node, opts ...JSONOption) (Layout, error) {
	if root == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "render: nil root")
	}
	frame, err := root.Rect()
	if err != nil {
		return Layout{}, err
	}

	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := Layout{Frame: frame, Nodes: make([]NodeLayout, 0, root.Count())}
	base := root.Depth()
	root.Walk(func(n *tree.Node) bool {
		if !n.HasRect() {
			return false
		}
		depth := n.Depth() - base
		if r.maxDepth > 0 && depth > r.maxDepth {
			return false
		}
		out.Nodes = append(out.Nodes, nodeLayout(n, root, depth))
		return true
	})
	return out, nil
}

func nodeLayout(n, root *tree.Node, depth int) NodeLayout {
	rect, _ := n.Rect()
	nl := NodeLayout{
		ID:         n.ID(),
		Label:      n.Label(),
		Depth:      depth,
		X:          rect.X,
		Y:          rect.Y,
		Width:      rect.Width,
		Height:     rect.Height,
		Weight:     n.Weight(),
		RealWeight: n.RealWeight(),
		Info:       n.Infos(),
	}
	if n != root && n.Parent() != nil {
		nl.ParentID = n.Parent().ID()
	}
	if c, ok := n.Color(); ok {
		nl.Color = c.Hex()
	}
	return nl
}

// RenderJSON encodes [BuildLayout] output, pretty-printed unless
// [WithJSONCompact] is given.
func RenderJSON(root *tree.Node, opts ...JSONOption) ([]byte, error) {
	l, err := BuildLayout(root, opts...)
	if err != nil {
		return nil, err
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.compact {
		return json.Marshal(l)
	}
	return json.MarshalIndent(l, "", "  ")
}
