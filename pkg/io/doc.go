// Package io reads and writes weighted trees.
//
// # Formats
//
// Three input formats are supported:
//
//   - json: a nested document, see below
//   - yaml: the same document in YAML
//   - histogram: a JVM object histogram, converted with [histogram.ToTree]
//
// The nested document has one object per node:
//
//	{
//	  "label": "heap",
//	  "children": [
//	    {"label": "String", "weight": 28800, "info": {"Number Of Instances": "1200"}},
//	    {"label": "HashMap", "weight": 4000, "color": "#B9D6FF"}
//	  ]
//	}
//
// Only leaf weights matter: interior weights are recomputed as the sum of
// their children after import. Colors use "#RRGGBB" and, when present, are
// kept by the layout processor instead of the palette color.
//
// # Import
//
// [ImportFile] picks the format from the file extension (.json, .yaml/.yml,
// .histo/.txt/.csv) unless one is given explicitly:
//
//	root, err := io.ImportFile("heap.histo", "")
//
// [Read] does the same for any io.Reader with an explicit format.
//
// # Export
//
// [WriteJSON] and [WriteYAML] write the nested document back. Layout results
// (rectangles) are not part of this format; see the render package for the
// flat layout export.
//
// [histogram.ToTree]: github.com/matzehuels/treemap/pkg/histogram.ToTree
package io
