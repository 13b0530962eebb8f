// Package render turns a laid-out treemap into output artifacts.
//
// # Overview
//
// Every renderer reads the rectangles and colors written by
// [layout.Processor] and never modifies the tree. Nodes without a rectangle
// are skipped together with their subtrees.
//
//   - [RenderSVG] paints one rectangle per drawable node, parents first
//   - [RenderJSON] exports a flat list of laid-out nodes
//   - [ToDOT] and [RenderDOT] draw the hierarchy outline with Graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg.
//
//	svg, err := render.RenderSVG(root)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
//
// [layout.Processor]: github.com/matzehuels/treemap/pkg/core/layout.Processor
package render
