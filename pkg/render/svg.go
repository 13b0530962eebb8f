package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Label metrics in user units. A label is drawn only when it fits.
const (
	FontSize    = 10.0
	CharWidth   = 6.0
	LabelHeight = 12.0
	LabelInset  = 3.0
)

const defaultStroke = "#555555"

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	maxDepth int
	labels   bool
	stroke   string
	selected int64
}

// WithMaxDepth stops painting below the given depth, relative to the rendered
// root. Zero or less paints every level.
func WithMaxDepth(d int) SVGOption { return func(r *svgRenderer) { r.maxDepth = d } }

// WithoutLabels suppresses all text.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithStroke sets the outline color of every rectangle.
func WithStroke(color string) SVGOption { return func(r *svgRenderer) { r.stroke = color } }

// WithSelected outlines the node with the given id.
func WithSelected(id int64) SVGOption { return func(r *svgRenderer) { r.selected = id } }

// RenderSVG paints root and its laid-out descendants. The view box is the
// root's rectangle. It fails with [errors.ErrCodeNotLaidOut] when root has no
// rectangle.
func RenderSVG(root *tree.Node, opts ...SVGOption) ([]byte, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: nil root")
	}
	frame, err := root.Rect()
	if err != nil {
		return nil, err
	}

	r := svgRenderer{labels: true, stroke: defaultStroke}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.X, frame.Y, frame.Width, frame.Height, frame.Width, frame.Height)

	base := root.Depth()
	root.Walk(func(n *tree.Node) bool {
		if !n.IsDrawable() {
			return false
		}
		depth := n.Depth() - base
		if r.maxDepth > 0 && depth > r.maxDepth {
			return false
		}
		r.renderNode(&buf, n)
		return true
	})

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *tree.Node) {
	rect, _ := n.Rect()
	fill := "#FFFFFF"
	if c, ok := n.Color(); ok {
		fill = c.Hex()
	}
	strokeWidth := 1.0
	stroke := r.stroke
	if r.selected != 0 && n.ID() == r.selected {
		strokeWidth = 3
		stroke = "#000000"
	}

	fmt.Fprintf(buf, `  <g id="node-%d">`+"\n", n.ID())
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		rect.X, rect.Y, rect.Width, rect.Height, fill, stroke, strokeWidth)
	fmt.Fprintf(buf, `    <title>%s (%g)</title>`+"\n", escapeXML(n.Label()), n.Weight())
	if r.labels && LabelFits(n.Label(), rect) {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f">%s</text>`+"\n",
			rect.X+LabelInset, rect.Y+FontSize, FontSize, escapeXML(n.Label()))
	}
	buf.WriteString("  </g>\n")
}

// LabelFits reports whether label can be drawn inside r at [FontSize].
func LabelFits(label string, r tree.Rect) bool {
	if label == "" {
		return false
	}
	w := float64(utf8.RuneCountInString(label))*CharWidth + 2*LabelInset
	return w <= r.Width && LabelHeight <= r.Height
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
