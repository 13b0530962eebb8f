package histogram

import (
	"strconv"
	"strings"

	"github.com/matzehuels/treemap/pkg/core/tree"
)

// Annotation keys set on leaves by ToTree.
const (
	InstancesKey = "Number Of Instances"
	SizeKey      = "Total Size"
)

type convertConfig struct {
	rootLabel string
	collapse  bool
	decode    bool
}

// Option configures ToTree.
type Option func(*convertConfig)

// WithRootLabel sets the label of the synthetic root. The default is empty.
func WithRootLabel(label string) Option {
	return func(c *convertConfig) { c.rootLabel = label }
}

// WithCollapse controls whether chains of single-child nodes are merged into
// one node with a dotted label. Enabled by default.
func WithCollapse(collapse bool) Option {
	return func(c *convertConfig) { c.collapse = collapse }
}

// WithDescriptorDecoding controls whether class names are passed through
// DecodeDescriptor first. Enabled by default.
func WithDescriptorDecoding(decode bool) Option {
	return func(c *convertConfig) { c.decode = decode }
}

// ToTree builds a package tree from records. Each dotted name segment becomes
// a node under its direct parent, leaves carry the record's total size as
// real weight, and interior weights are the sums of their children.
func ToTree(records []Record, opts ...Option) *tree.Node {
	cfg := convertConfig{collapse: true, decode: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	root := tree.NewNode(cfg.rootLabel, 0)
	for _, r := range records {
		name := r.ClassName
		if cfg.decode {
			name = DecodeDescriptor(name)
		}

		node := root
		for _, seg := range strings.Split(name, ".") {
			if seg == "" {
				continue
			}
			child := node.Child(seg)
			if child == nil {
				child = tree.NewNode(seg, 0)
				node.AddChild(child)
			}
			node = child
		}
		if node == root {
			continue
		}
		node.SetRealWeight(float64(r.TotalSize))
		node.SetInfo(InstancesKey, strconv.FormatInt(r.Instances, 10))
		node.SetInfo(SizeKey, FormatSize(float64(r.TotalSize)))
	}

	tree.FillWeights(root)
	if cfg.collapse {
		collapse(root)
	}
	return root
}

// FromHistogram is ToTree over h's records.
func FromHistogram(h *Histogram, opts ...Option) *tree.Node {
	return ToTree(h.Records(), opts...)
}

// collapse merges every node that has exactly one child with that child.
func collapse(n *tree.Node) {
	for len(n.Children()) == 1 {
		c := n.Children()[0]
		n.SetLabel(joinLabel(n.Label(), c.Label()))
		for k, v := range c.Infos() {
			n.SetInfo(k, v)
		}
		n.SetChildren(c.Children())
	}
	for _, c := range n.Children() {
		collapse(c)
	}
}

func joinLabel(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
