// Package pkg provides the libraries behind the treemap tool.
//
// # Overview
//
// A treemap shows a weighted hierarchy as nested rectangles whose areas are
// proportional to the weights. The pkg directory is organized as:
//
//  1. [core] - Domain logic (tree model, squarified layout, zoom navigation)
//  2. [histogram] and [io] - Input conversion and tree documents
//  3. [render] - Output formats (SVG, JSON, DOT, PNG, PDF)
//  4. [pipeline] - Orchestration (load → layout → render)
//  5. [server] - HTTP navigation sessions
//
// # Architecture
//
// The typical data flow:
//
//	jmap histogram / tree document
//	         ↓
//	    [histogram], [io] (build a tree.Node hierarchy)
//	         ↓
//	    [core/layout] (squarify children into nested rectangles)
//	         ↓
//	    [core/zoom] (choose the shown root, re-layout on zoom)
//	         ↓
//	    [render] (SVG/PNG/PDF/JSON/DOT)
//
// # Quick Start
//
//	root, _ := io.ImportFile("heap.histo", io.FormatHistogram)
//	nav, _ := zoom.New(root, tree.NewRect(0, 0, 800, 600))
//	_ = nav.ZoomIn(root.FindByLabel("java"))
//	svg, _ := render.RenderSVG(nav.Current())
//
// # Main Packages
//
// [core/tree] - Weighted nodes with rectangles, colors, annotations and the
// fixed color palette.
//
// [core/layout] - The squarified algorithm and the recursive processor that
// pads and colors every level.
//
// [core/zoom] - Zoom stack, selection and observers over one laid-out tree.
//
// [histogram] - Parses "jmap -histo" output and converts class histograms to
// package trees.
//
// [io] - JSON and YAML tree documents.
//
// [render] - Renderers for laid-out trees plus rsvg-convert conversion.
//
// [pipeline] - Options, validation and the Runner shared by CLI and server.
//
// [cache] - Artifact cache used by the pipeline.
//
// [config] - TOML config file and TREEMAP_* environment overrides.
//
// [server] - chi-based HTTP API holding navigation sessions.
//
// [errors] - Coded errors with user messages and HTTP status mapping.
//
// [observability] - Hooks for pipeline, navigation and HTTP events.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -short ./pkg/...    # Skip Graphviz rendering
//	go test -run Example        # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/core
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/core/tree
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/core/layout
// [core/zoom]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/core/zoom
// [histogram]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/histogram
// [io]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/observability
package pkg
