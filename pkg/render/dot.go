package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
)

// ToDOT converts the hierarchy under root to Graphviz DOT format. Each node
// becomes a filled box in its layout color labeled with its name and weight.
// Levels deeper than maxDepth below root are omitted; zero or less keeps all.
//
// The outline does not depend on a layout pass. Uncolored nodes are white.
func ToDOT(root *tree.Node, maxDepth int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	base := root.Depth()
	var edges [][2]int64
	root.Walk(func(n *tree.Node) bool {
		depth := n.Depth() - base
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID(), dotAttrs(n))
		if n != root && n.Parent() != nil {
			edges = append(edges, [2]int64{n.Parent().ID(), n.ID()})
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n *tree.Node) string {
	label := n.Label()
	if label == "" {
		label = "root"
	}
	attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%s\n%g", label, n.Weight()))
	if c, ok := n.Color(); ok {
		attrs += fmt.Sprintf(", fillcolor=%q", c.Hex())
	}
	return attrs
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// The result can be converted further with [ToPDF] or [ToPNG].
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// view box so the outline scales like the treemap SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
